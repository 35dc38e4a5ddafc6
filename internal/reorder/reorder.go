// Package reorder keeps sibling positions dense (0..N-1) across inserts, moves
// and deletes. It works on in-memory snapshots; callers persist the returned
// assignments inside a single transaction.
package reorder

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Item is one sibling as read from the store.
type Item struct {
	ID        uuid.UUID
	Position  int
	CreatedAt time.Time
}

// Assignment is a position that has to be written back.
type Assignment struct {
	ID       uuid.UUID
	Position int
}

// Append returns the position for a new last sibling given the current
// maximum position, or 0 when the parent has no children.
func Append(maxPosition *int) int {
	if maxPosition == nil {
		return 0
	}
	return *maxPosition + 1
}

// Sort orders siblings by position, then creation time, then id, so that a
// snapshot holding duplicate positions still has a deterministic order.
func Sort(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
	return out
}

// Remove detaches id from the siblings and returns the rest in order.
func Remove(siblings []Item, id uuid.UUID) []Item {
	sorted := Sort(siblings)
	out := sorted[:0]
	for _, it := range sorted {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// Move places moved at index target among siblings. The moved item may or may
// not already be one of the siblings (same-parent vs cross-parent move). The
// target is clamped to the valid range; every sibling at or after it shifts
// up by one.
func Move(siblings []Item, moved Item, target int) []Item {
	rest := Remove(siblings, moved.ID)
	if target < 0 {
		target = 0
	}
	if target > len(rest) {
		target = len(rest)
	}

	out := make([]Item, 0, len(rest)+1)
	out = append(out, rest[:target]...)
	out = append(out, moved)
	out = append(out, rest[target:]...)
	return out
}

// Enumerate rewrites positions to list indexes and returns only the items
// whose stored position differs from their index.
func Enumerate(ordered []Item) []Assignment {
	var changes []Assignment
	for i, it := range ordered {
		if it.Position != i {
			changes = append(changes, Assignment{ID: it.ID, Position: i})
		}
	}
	return changes
}

// Dense reports whether positions form exactly 0..N-1.
func Dense(positions []int) bool {
	seen := make([]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(positions) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}
