package handler

import (
	"net/http"

	"github.com/aliciamunhoz/kanban-next/internal/events"
	"github.com/aliciamunhoz/kanban-next/internal/model"
	"github.com/aliciamunhoz/kanban-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ColumnHandler struct {
	columnRepo *repository.ColumnRepository
	guard      *Guard
	bus        *events.Bus
}

func NewColumnHandler(columnRepo *repository.ColumnRepository, guard *Guard, bus *events.Bus) *ColumnHandler {
	return &ColumnHandler{
		columnRepo: columnRepo,
		guard:      guard,
		bus:        bus,
	}
}

type ColumnRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type ReorderColumnRequest struct {
	ColumnID string `json:"columnId" binding:"required,uuid"`
	Position *int   `json:"position" binding:"required"`
}

// List godoc
// @Summary      Columns of a board in order
// @Tags         columns
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {array} ColumnResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boards/{id}/columns [get]
func (h *ColumnHandler) List(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}
	boardID, err := pathID(c, "id", "board")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.guard.Board(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	columns, err := h.columnRepo.ListByBoard(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newColumnResponses(columns))
}

// Create godoc
// @Summary      Append a column to a board
// @Tags         columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        request body ColumnRequest true "Column"
// @Success      201 {object} ColumnResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boards/{id}/columns [post]
func (h *ColumnHandler) Create(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}
	boardID, err := pathID(c, "id", "board")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.guard.Board(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	var req ColumnRequest
	if !bindJSON(c, &req) {
		return
	}
	name, err := requireText("name", req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	column := &model.Column{BoardID: boardID, Name: name}
	if err := h.columnRepo.Create(c.Request.Context(), column); err != nil {
		respondError(c, err)
		return
	}

	resp := newColumnResponse(column)
	h.publish(events.ColumnCreated, boardID, userID, resp)
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Rename a column
// @Tags         columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Param        request body ColumnRequest true "Column"
// @Success      200 {object} ColumnResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /columns/{id} [patch]
func (h *ColumnHandler) Update(c *gin.Context) {
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

	var req ColumnRequest
	if !bindJSON(c, &req) {
		return
	}
	name, err := requireText("name", req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.columnRepo.Rename(c.Request.Context(), column, name); err != nil {
		respondError(c, err)
		return
	}

	resp := newColumnResponse(column)
	h.publish(events.ColumnUpdated, column.BoardID, userID, resp)
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a column and its cards
// @Tags         columns
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Column ID"
// @Success      200 {object} SuccessResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /columns/{id} [delete]
func (h *ColumnHandler) Delete(c *gin.Context) {
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

	if err := h.columnRepo.Delete(c.Request.Context(), column.ID); err != nil {
		respondError(c, err)
		return
	}

	h.publish(events.ColumnDeleted, column.BoardID, userID, gin.H{"id": column.ID})
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Reorder godoc
// @Summary      Move a column to a new position on its board
// @Tags         columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ReorderColumnRequest true "Move"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /columns/reorder [post]
func (h *ColumnHandler) Reorder(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req ReorderColumnRequest
	if !bindJSON(c, &req) {
		return
	}
	columnID := uuid.MustParse(req.ColumnID)

	if _, _, err := h.guard.Column(c.Request.Context(), userID, columnID); err != nil {
		respondError(c, err)
		return
	}

	column, err := h.columnRepo.Move(c.Request.Context(), columnID, *req.Position)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(events.ColumnMoved, column.BoardID, userID, gin.H{"id": column.ID, "position": column.Position})
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *ColumnHandler) publish(kind string, boardID, actorID uuid.UUID, payload any) {
	h.bus.Publish(events.Event{Type: kind, Entity: "column", BoardID: boardID, ActorID: actorID, Payload: payload})
}
