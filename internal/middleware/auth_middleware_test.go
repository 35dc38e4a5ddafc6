package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aliciamunhoz/kanban-next/internal/auth"
	"github.com/aliciamunhoz/kanban-next/internal/middleware"
	"github.com/aliciamunhoz/kanban-next/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test-secret-key"

type fakeSessions struct {
	live map[string]session.Data
	err  error
}

func (f *fakeSessions) Lookup(_ context.Context, tokenID string) (session.Data, error) {
	if f.err != nil {
		return session.Data{}, f.err
	}
	data, ok := f.live[tokenID]
	if !ok {
		return session.Data{}, session.ErrSessionNotFound
	}
	return data, nil
}

func setupRouter(sessions middleware.SessionChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.JWTAuthMiddleware(auth.NewTokenManager(jwtSecret, time.Hour), sessions))

	protected.GET("/resource", func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": userID,
			"email":   c.GetString(middleware.UserEmailKey),
		})
	})

	return r
}

func generateTestToken(t *testing.T, userID uuid.UUID) (string, *auth.Claims) {
	token, claims, err := auth.NewTokenManager(jwtSecret, time.Hour).GenerateToken(userID, "user@example.com", "User")
	require.NoError(t, err)
	return token, claims
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	// Arrange
	router := setupRouter(nil)
	userID := uuid.New()
	token, _ := generateTestToken(t, userID)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), userID.String())
	assert.Contains(t, resp.Body.String(), "user@example.com")
}

func TestJWTAuthMiddleware_QueryTokenOnGet(t *testing.T) {
	// Arrange
	router := setupRouter(nil)
	token, _ := generateTestToken(t, uuid.New())

	req, _ := http.NewRequest("GET", "/protected/resource?access_token="+token, nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestJWTAuthMiddleware_NoAuthHeader(t *testing.T) {
	// Arrange
	router := setupRouter(nil)
	req, _ := http.NewRequest("GET", "/protected/resource", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header is required")
}

func TestJWTAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	// Arrange
	router := setupRouter(nil)
	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "InvalidFormat token123")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header format must be Bearer {token}")
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	// Arrange
	router := setupRouter(nil)
	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid or expired token")
}

func TestJWTAuthMiddleware_TokenWithInvalidUserID(t *testing.T) {
	// Arrange
	router := setupRouter(nil)

	claims := jwt.MapClaims{
		"sub": "not-a-valid-uuid",
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(jwtSecret))

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid user ID in token")
}

func TestJWTAuthMiddleware_RevokedSession(t *testing.T) {
	// Arrange
	token, _ := generateTestToken(t, uuid.New())
	router := setupRouter(&fakeSessions{})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Session has been revoked")
}

func TestJWTAuthMiddleware_LiveSession(t *testing.T) {
	userID := uuid.New()
	token, claims := generateTestToken(t, userID)
	router := setupRouter(&fakeSessions{live: map[string]session.Data{
		claims.ID: {UserID: userID, CreatedAt: time.Now()},
	}})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestJWTAuthMiddleware_SessionOfAnotherUser(t *testing.T) {
	token, claims := generateTestToken(t, uuid.New())
	router := setupRouter(&fakeSessions{live: map[string]session.Data{
		claims.ID: {UserID: uuid.New(), CreatedAt: time.Now()},
	}})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Session does not match token")
}

func TestJWTAuthMiddleware_SessionStoreDown(t *testing.T) {
	token, _ := generateTestToken(t, uuid.New())
	router := setupRouter(&fakeSessions{err: errors.New("connection refused")})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
