package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aliciamunhoz/kanban-next/internal/apperr"
	"github.com/aliciamunhoz/kanban-next/internal/auth"
	"github.com/aliciamunhoz/kanban-next/internal/middleware"
	"github.com/aliciamunhoz/kanban-next/internal/model"
	"github.com/aliciamunhoz/kanban-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionStore records issued tokens so they can be revoked on logout.
type SessionStore interface {
	Save(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error
	Revoke(ctx context.Context, tokenID string) error
}

type UserHandler struct {
	repo     repository.UserRepositoryInterface
	tokens   *auth.TokenManager
	sessions SessionStore
}

// NewUserHandler builds the handler. sessions may be nil, in which case
// logout is a no-op on the server side.
func NewUserHandler(repo repository.UserRepositoryInterface, tokens *auth.TokenManager, sessions SessionStore) *UserHandler {
	return &UserHandler{repo: repo, tokens: tokens, sessions: sessions}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email_addr,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email_addr"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "New account"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	req.Email = repository.NormalizeEmail(req.Email)
	name, err := requireText("name", req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	existing, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		respondError(c, apperr.New(apperr.Conflict, "User with this email already exists"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &model.User{
		Email:          req.Email,
		Name:           name,
		HashedPassword: hash,
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		// lost a race with a concurrent registration
		respondError(c, err)
		return
	}

	resp, err := h.issueToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), repository.NormalizeEmail(req.Email))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.HashedPassword, req.Password) {
		respondError(c, apperr.New(apperr.Unauthenticated, "Invalid credentials"))
		return
	}

	resp, err := h.issueToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary      Revoke the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		respondError(c, apperr.Unauthorized())
		return
	}

	if h.sessions != nil {
		if err := h.sessions.Revoke(c.Request.Context(), claims.ID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UserResponse
// @Failure      401 {object} ErrorResponse
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := principal(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// the account was removed after the token was issued
			respondError(c, apperr.Unauthorized())
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *UserHandler) issueToken(ctx context.Context, user *model.User) (AuthResponse, error) {
	token, claims, err := h.tokens.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return AuthResponse{}, err
	}

	if h.sessions != nil {
		if err := h.sessions.Save(ctx, claims.ID, user.ID, claims.ExpiresAt.Time); err != nil {
			return AuthResponse{}, err
		}
	}

	return AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      newUserResponse(user),
	}, nil
}
