package handler

import (
	"net/http"

	"github.com/aliciamunhoz/kanban-next/internal/apperr"
	"github.com/aliciamunhoz/kanban-next/internal/events"
	"github.com/aliciamunhoz/kanban-next/internal/model"
	"github.com/aliciamunhoz/kanban-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardRepo *repository.CardRepository
	guard    *Guard
	bus      *events.Bus
}

func NewCardHandler(cardRepo *repository.CardRepository, guard *Guard, bus *events.Bus) *CardHandler {
	return &CardHandler{
		cardRepo: cardRepo,
		guard:    guard,
		bus:      bus,
	}
}

type CardRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=5000"`
	Priority    string `json:"priority" binding:"omitempty,priority" enums:"low,medium,high"`
}

type ReorderCardRequest struct {
	CardID   string `json:"cardId" binding:"required,uuid"`
	ColumnID string `json:"columnId" binding:"required,uuid"`
	Position *int   `json:"position" binding:"required"`
}

// List godoc
// @Summary      Cards of a column in order
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Success      200 {array} CardResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /columns/{id}/cards [get]
func (h *CardHandler) List(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}
	columnID, err := pathID(c, "id", "column")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, _, err := h.guard.Column(c.Request.Context(), userID, columnID); err != nil {
		respondError(c, err)
		return
	}

	cards, err := h.cardRepo.ListByColumn(c.Request.Context(), columnID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCardResponses(cards))
}

// Create godoc
// @Summary      Append a card to a column
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Param        request body CardRequest true "Card"
// @Success      201 {object} CardResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /columns/{id}/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}
	columnID, err := pathID(c, "id", "column")
	if err != nil {
		respondError(c, err)
		return
	}
	column, _, err := h.guard.Column(c.Request.Context(), userID, columnID)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CardRequest
	if !bindJSON(c, &req) {
		return
	}
	title, err := requireText("title", req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	card := &model.Card{
		ColumnID:    column.ID,
		Title:       title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
	}
	if err := h.cardRepo.Create(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}

	resp := newCardResponse(card)
	h.publish(events.CardCreated, column.BoardID, userID, resp)
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Edit a card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Param        request body CardRequest true "Card"
// @Success      200 {object} CardResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cards/{id} [patch]
func (h *CardHandler) Update(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}
	cardID, err := pathID(c, "id", "card")
	if err != nil {
		respondError(c, err)
		return
	}
	card, column, _, err := h.guard.Card(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CardRequest
	if !bindJSON(c, &req) {
		return
	}
	title, err := requireText("title", req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	card.Title = title
	card.Description = req.Description
	if req.Priority != "" {
		card.Priority = model.Priority(req.Priority)
	}
	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}

	resp := newCardResponse(card)
	h.publish(events.CardUpdated, column.BoardID, userID, resp)
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a card
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Card ID"
// @Success      200 {object} SuccessResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cards/{id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}
	cardID, err := pathID(c, "id", "card")
	if err != nil {
		respondError(c, err)
		return
	}
	card, column, _, err := h.guard.Card(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.cardRepo.Delete(c.Request.Context(), card.ID); err != nil {
		respondError(c, err)
		return
	}

	h.publish(events.CardDeleted, column.BoardID, userID, gin.H{"id": card.ID, "columnId": card.ColumnID})
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Reorder godoc
// @Summary      Move a card within or across columns of the same board
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ReorderCardRequest true "Move"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cards/reorder [post]
func (h *CardHandler) Reorder(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req ReorderCardRequest
	if !bindJSON(c, &req) {
		return
	}
	cardID := uuid.MustParse(req.CardID)
	targetColumnID := uuid.MustParse(req.ColumnID)

	card, source, _, err := h.guard.Card(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	if targetColumnID != source.ID {
		target, _, err := h.guard.Column(c.Request.Context(), userID, targetColumnID)
		if err != nil {
			respondError(c, err)
			return
		}
		if target.BoardID != source.BoardID {
			respondError(c, apperr.Validation("Target column belongs to another board", map[string]string{"columnId": "must be on the same board"}))
			return
		}
	}

	moved, err := h.cardRepo.Move(c.Request.Context(), card.ID, targetColumnID, *req.Position)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(events.CardMoved, source.BoardID, userID, gin.H{
		"id":           moved.ID,
		"fromColumnId": source.ID,
		"columnId":     moved.ColumnID,
		"position":     moved.Position,
	})
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *CardHandler) publish(kind string, boardID, actorID uuid.UUID, payload any) {
	h.bus.Publish(events.Event{Type: kind, Entity: "card", BoardID: boardID, ActorID: actorID, Payload: payload})
}
