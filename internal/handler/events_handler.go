package handler

import (
	"github.com/aliciamunhoz/kanban-next/internal/events"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct {
	guard *Guard
	bus   *events.Bus
}

func NewEventsHandler(guard *Guard, bus *events.Bus) *EventsHandler {
	return &EventsHandler{guard: guard, bus: bus}
}

// Stream godoc
// @Summary      Live board changes as server-sent events
// @Tags         boards
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        access_token query string false "Token for clients that cannot set headers"
// @Success      200 {string} string "event stream"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boards/{id}/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
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

	h.bus.ServeSSE(c.Writer, c.Request, boardID, userID)
}
