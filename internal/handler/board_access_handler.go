package handler

import (
	"net/http"

	"github.com/aliciamunhoz/kanban-next/internal/apperr"
	"github.com/aliciamunhoz/kanban-next/internal/events"
	"github.com/aliciamunhoz/kanban-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardAccessHandler struct {
	userRepo   repository.UserRepositoryInterface
	accessRepo *repository.BoardAccessRepository
	guard      *Guard
	bus        *events.Bus
}

func NewBoardAccessHandler(
	userRepo repository.UserRepositoryInterface,
	accessRepo *repository.BoardAccessRepository,
	guard *Guard,
	bus *events.Bus,
) *BoardAccessHandler {
	return &BoardAccessHandler{
		userRepo:   userRepo,
		accessRepo: accessRepo,
		guard:      guard,
		bus:        bus,
	}
}

type ShareBoardRequest struct {
	Email string `json:"email" binding:"required,email_addr"`
}

// owner authenticates the caller and checks they own the board in the path.
func (h *BoardAccessHandler) owner(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	boardID, err := pathID(c, "id", "board")
	if err != nil {
		respondError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	if _, err := h.guard.Owner(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, boardID, true
}

func (h *BoardAccessHandler) respondCollaborators(c *gin.Context, boardID uuid.UUID) {
	collaborators, err := h.accessRepo.ListCollaborators(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCollaboratorResponses(collaborators))
}

// List godoc
// @Summary      Users the board is shared with
// @Tags         sharing
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {array} CollaboratorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boards/{id}/share [get]
func (h *BoardAccessHandler) List(c *gin.Context) {
	_, boardID, ok := h.owner(c)
	if !ok {
		return
	}
	h.respondCollaborators(c, boardID)
}

// Share godoc
// @Summary      Share a board with a registered user
// @Tags         sharing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        request body ShareBoardRequest true "Target user"
// @Success      200 {array} CollaboratorResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /boards/{id}/share [post]
func (h *BoardAccessHandler) Share(c *gin.Context) {
	ownerID, boardID, ok := h.owner(c)
	if !ok {
		return
	}

	var req ShareBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	target, err := h.userRepo.FindByEmail(c.Request.Context(), repository.NormalizeEmail(req.Email))
	if err != nil {
		respondError(c, err)
		return
	}
	if target == nil {
		respondError(c, repository.ErrUserNotFound)
		return
	}
	if target.ID == ownerID {
		respondError(c, apperr.Validation("Cannot share board with yourself", map[string]string{"email": "is the board owner"}))
		return
	}

	if err := h.accessRepo.Grant(c.Request.Context(), boardID, target.ID); err != nil {
		respondError(c, err)
		return
	}

	h.bus.Publish(events.Event{
		Type:    events.ShareGranted,
		Entity:  "share",
		BoardID: boardID,
		ActorID: ownerID,
		Payload: gin.H{"userId": target.ID, "email": target.Email, "name": target.Name},
	})
	h.respondCollaborators(c, boardID)
}

// Revoke godoc
// @Summary      Revoke a user's access to a board
// @Tags         sharing
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        user_id path string true "User ID"
// @Success      200 {array} CollaboratorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boards/{id}/share/{user_id} [delete]
func (h *BoardAccessHandler) Revoke(c *gin.Context) {
	ownerID, boardID, ok := h.owner(c)
	if !ok {
		return
	}
	targetID, err := pathID(c, "user_id", "user")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.accessRepo.Revoke(c.Request.Context(), boardID, targetID); err != nil {
		respondError(c, err)
		return
	}

	h.bus.Publish(events.Event{
		Type:    events.ShareRevoked,
		Entity:  "share",
		BoardID: boardID,
		ActorID: ownerID,
		Payload: gin.H{"userId": targetID},
	})
	h.bus.Disconnect(boardID, targetID)
	h.respondCollaborators(c, boardID)
}
