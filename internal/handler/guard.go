package handler

import (
	"context"
	"errors"

	"github.com/aliciamunhoz/kanban-next/internal/access"
	"github.com/aliciamunhoz/kanban-next/internal/apperr"
	"github.com/aliciamunhoz/kanban-next/internal/middleware"
	"github.com/aliciamunhoz/kanban-next/internal/model"
	"github.com/aliciamunhoz/kanban-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Guard resolves the board behind a board, column or card id and applies the
// access predicate for the caller.
type Guard struct {
	policies *repository.BoardAccessRepository
	columns  *repository.ColumnRepository
	cards    *repository.CardRepository
}

func NewGuard(
	policies *repository.BoardAccessRepository,
	columns *repository.ColumnRepository,
	cards *repository.CardRepository,
) *Guard {
	return &Guard{policies: policies, columns: columns, cards: cards}
}

// principal returns the authenticated caller.
func principal(c *gin.Context) (uuid.UUID, error) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperr.Unauthorized()
	}
	return userID, nil
}

func pathID(c *gin.Context, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid "+what+" ID format", map[string]string{param: "must be a valid id"})
	}
	return id, nil
}

// Board loads the access policy of boardID and checks that userID may use it.
func (g *Guard) Board(ctx context.Context, userID, boardID uuid.UUID) (*access.Board, error) {
	policy, err := g.policies.LoadPolicy(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !policy.HasAccess(userID) {
		return nil, apperr.Denied()
	}
	return policy, nil
}

// Owner is like Board but only the owner passes.
func (g *Guard) Owner(ctx context.Context, userID, boardID uuid.UUID) (*access.Board, error) {
	policy, err := g.policies.LoadPolicy(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !policy.IsOwner(userID) {
		return nil, apperr.Denied()
	}
	return policy, nil
}

// Column resolves column -> board and checks access. An unknown column is
// reported as denied so that callers cannot tell missing ids from foreign ones.
func (g *Guard) Column(ctx context.Context, userID, columnID uuid.UUID) (*model.Column, *access.Board, error) {
	column, err := g.columns.GetByID(ctx, columnID)
	if errors.Is(err, repository.ErrColumnNotFound) {
		return nil, nil, apperr.Denied()
	}
	if err != nil {
		return nil, nil, err
	}
	policy, err := g.Board(ctx, userID, column.BoardID)
	if err != nil {
		return nil, nil, err
	}
	return column, policy, nil
}

// Card resolves card -> column -> board and checks access. Like Column, an
// unknown card is denied.
func (g *Guard) Card(ctx context.Context, userID, cardID uuid.UUID) (*model.Card, *model.Column, *access.Board, error) {
	card, err := g.cards.GetByID(ctx, cardID)
	if errors.Is(err, repository.ErrCardNotFound) {
		return nil, nil, nil, apperr.Denied()
	}
	if err != nil {
		return nil, nil, nil, err
	}
	column, policy, err := g.Column(ctx, userID, card.ColumnID)
	if err != nil {
		return nil, nil, nil, err
	}
	return card, column, policy, nil
}
