package handler

import (
	"fmt"
	"net/http"

	"github.com/aliciamunhoz/kanban-next/internal/apperr"
	"github.com/aliciamunhoz/kanban-next/internal/events"
	"github.com/aliciamunhoz/kanban-next/internal/model"
	"github.com/aliciamunhoz/kanban-next/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type BoardHandler struct {
	boardRepo  *repository.BoardRepository
	columnRepo *repository.ColumnRepository
	cardRepo   *repository.CardRepository
	accessRepo *repository.BoardAccessRepository
	guard      *Guard
	bus        *events.Bus
	// maxBoards caps boards per owner; 0 means unlimited.
	maxBoards int
}

func NewBoardHandler(
	boardRepo *repository.BoardRepository,
	columnRepo *repository.ColumnRepository,
	cardRepo *repository.CardRepository,
	accessRepo *repository.BoardAccessRepository,
	guard *Guard,
	bus *events.Bus,
	maxBoards int,
) *BoardHandler {
	return &BoardHandler{
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		cardRepo:   cardRepo,
		accessRepo: accessRepo,
		guard:      guard,
		bus:        bus,
		maxBoards:  maxBoards,
	}
}

type BoardRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// Create godoc
// @Summary      Create a board
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BoardRequest true "Board"
// @Success      201 {object} BoardResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	ownerID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req BoardRequest
	if !bindJSON(c, &req) {
		return
	}
	name, err := requireText("name", req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.maxBoards > 0 {
		count, err := h.boardRepo.CountOwned(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}
		if count >= int64(h.maxBoards) {
			respondError(c, apperr.New(apperr.AccessDenied, fmt.Sprintf("Maximum number of boards reached (%d)", h.maxBoards)))
			return
		}
	}

	board := &model.Board{Name: name, OwnerID: ownerID}
	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newBoardResponse(board))
}

// List godoc
// @Summary      Boards owned by and shared with the caller
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} BoardsResponse
// @Failure      401 {object} ErrorResponse
// @Router       /boards [get]
func (h *BoardHandler) List(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var (
		owned  []model.Board
		shared []model.SharedBoard
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		owned, err = h.boardRepo.ListOwned(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		shared, err = h.accessRepo.ListShared(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}

	resp := BoardsResponse{
		Owned:  make([]BoardResponse, len(owned)),
		Shared: make([]SharedBoardResponse, len(shared)),
	}
	for i := range owned {
		resp.Owned[i] = newBoardResponse(&owned[i])
	}
	for i, b := range shared {
		resp.Shared[i] = newSharedBoardResponse(b)
	}
	c.JSON(http.StatusOK, resp)
}

// Shared godoc
// @Summary      Boards shared with the caller
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} SharedBoardResponse
// @Failure      401 {object} ErrorResponse
// @Router       /shared-boards [get]
func (h *BoardHandler) Shared(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}

	shared, err := h.accessRepo.ListShared(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]SharedBoardResponse, len(shared))
	for i, b := range shared {
		resp[i] = newSharedBoardResponse(b)
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Board with its columns and cards
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {object} BoardDetailResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boards/{id} [get]
func (h *BoardHandler) Get(c *gin.Context) {
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

	policy, err := h.guard.Board(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	isOwner := policy.IsOwner(userID)

	var (
		board         *model.Board
		columns       []model.Column
		cards         []model.Card
		collaborators []model.Collaborator
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		board, err = h.boardRepo.GetByID(ctx, boardID)
		return err
	})
	g.Go(func() error {
		var err error
		columns, err = h.columnRepo.ListByBoard(ctx, boardID)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = h.cardRepo.ListByBoard(ctx, boardID)
		return err
	})
	if isOwner {
		g.Go(func() error {
			var err error
			collaborators, err = h.accessRepo.ListCollaborators(ctx, boardID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}

	resp := BoardDetailResponse{
		Board:   newBoardResponse(board),
		Columns: newColumnResponses(columns),
		Cards:   newCardResponses(cards),
		IsOwner: isOwner,
	}
	if isOwner {
		resp.Collaborators = newCollaboratorResponses(collaborators)
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Rename a board
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        request body BoardRequest true "Board"
// @Success      200 {object} BoardResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boards/{id} [patch]
func (h *BoardHandler) Update(c *gin.Context) {
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

	if _, err := h.guard.Owner(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	var req BoardRequest
	if !bindJSON(c, &req) {
		return
	}
	name, err := requireText("name", req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.boardRepo.Rename(c.Request.Context(), board, name); err != nil {
		respondError(c, err)
		return
	}

	resp := newBoardResponse(board)
	h.bus.Publish(events.Event{Type: events.BoardUpdated, Entity: "board", BoardID: board.ID, ActorID: userID, Payload: resp})
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a board with its columns, cards and grants
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {object} SuccessResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
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

	if _, err := h.guard.Owner(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), boardID); err != nil {
		respondError(c, err)
		return
	}

	h.bus.Publish(events.Event{Type: events.BoardDeleted, Entity: "board", BoardID: boardID, ActorID: userID})
	h.bus.CloseBoard(boardID)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
