package handler

import (
	"time"

	"github.com/aliciamunhoz/kanban-next/internal/model"
)

type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type BoardResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SharedBoardResponse struct {
	BoardResponse
	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail"`
}

type BoardsResponse struct {
	Owned  []BoardResponse       `json:"owned"`
	Shared []SharedBoardResponse `json:"shared"`
}

type BoardDetailResponse struct {
	Board         BoardResponse          `json:"board"`
	Columns       []ColumnResponse       `json:"columns"`
	Cards         []CardResponse         `json:"cards"`
	Collaborators []CollaboratorResponse `json:"collaborators,omitempty"`
	IsOwner       bool                   `json:"isOwner"`
}

type ColumnResponse struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"boardId"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

type CardResponse struct {
	ID          string         `json:"id"`
	ColumnID    string         `json:"columnId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority" swaggertype:"string" enums:"low,medium,high"`
	Position    int            `json:"position"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type CollaboratorResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	GrantedAt time.Time `json:"grantedAt"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

func newBoardResponse(b *model.Board) BoardResponse {
	return BoardResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		OwnerID:   b.OwnerID.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func newSharedBoardResponse(b model.SharedBoard) SharedBoardResponse {
	return SharedBoardResponse{
		BoardResponse: BoardResponse{
			ID:        b.ID.String(),
			Name:      b.Name,
			OwnerID:   b.OwnerID.String(),
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		},
		OwnerName:  b.OwnerName,
		OwnerEmail: b.OwnerEmail,
	}
}

func newColumnResponse(c *model.Column) ColumnResponse {
	return ColumnResponse{
		ID:        c.ID.String(),
		BoardID:   c.BoardID.String(),
		Name:      c.Name,
		Position:  c.Position,
		CreatedAt: c.CreatedAt,
	}
}

func newCardResponse(c *model.Card) CardResponse {
	return CardResponse{
		ID:          c.ID.String(),
		ColumnID:    c.ColumnID.String(),
		Title:       c.Title,
		Description: c.Description,
		Priority:    c.Priority,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt,
	}
}

func newColumnResponses(columns []model.Column) []ColumnResponse {
	out := make([]ColumnResponse, len(columns))
	for i := range columns {
		out[i] = newColumnResponse(&columns[i])
	}
	return out
}

func newCardResponses(cards []model.Card) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i := range cards {
		out[i] = newCardResponse(&cards[i])
	}
	return out
}

func newCollaboratorResponses(collaborators []model.Collaborator) []CollaboratorResponse {
	out := make([]CollaboratorResponse, len(collaborators))
	for i, c := range collaborators {
		out[i] = CollaboratorResponse{
			ID:        c.ID.String(),
			Email:     c.Email,
			Name:      c.Name,
			GrantedAt: c.GrantedAt,
		}
	}
	return out
}
