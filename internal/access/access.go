// Package access decides whether a principal may work with a board.
//
// A board is reachable by its owner and by every user holding a grant. The
// check is a pure function over a loaded Board aggregate; loading lives in the
// repository layer.
package access

import "github.com/google/uuid"

// Board is the authorization view of a board: its owner and the set of
// users it has been shared with.
type Board struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Grants  map[uuid.UUID]struct{}
}

// NewBoard builds the aggregate from the owner and the granted user ids.
func NewBoard(id, ownerID uuid.UUID, grantees ...uuid.UUID) *Board {
	b := &Board{ID: id, OwnerID: ownerID, Grants: make(map[uuid.UUID]struct{}, len(grantees))}
	for _, g := range grantees {
		b.Grants[g] = struct{}{}
	}
	return b
}

// HasAccess reports whether principal owns the board or holds a grant on it.
func (b *Board) HasAccess(principal uuid.UUID) bool {
	if b == nil || principal == uuid.Nil {
		return false
	}
	if b.IsOwner(principal) {
		return true
	}
	_, ok := b.Grants[principal]
	return ok
}

// IsOwner is the strict check used for rename, delete and collaborator
// management.
func (b *Board) IsOwner(principal uuid.UUID) bool {
	return b != nil && principal != uuid.Nil && b.OwnerID == principal
}
