package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aliciamunhoz/kanban-next/internal/auth"
	"github.com/aliciamunhoz/kanban-next/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by JWTAuthMiddleware.
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
	UserNameKey  = "userName"
	ClaimsKey    = "claims"
)

// SessionChecker resolves an issued token id to its stored session,
// returning session.ErrSessionNotFound once it is revoked or expired.
type SessionChecker interface {
	Lookup(ctx context.Context, tokenID string) (session.Data, error)
}

// JWTAuthMiddleware validates the bearer token and stores the caller in the
// gin context. A nil sessions checker disables revocation checks. GET
// requests may pass the token as ?access_token= since EventSource cannot set
// headers.
func JWTAuthMiddleware(tokens *auth.TokenManager, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			return
		}

		if sessions != nil && claims.ID != "" {
			data, err := sessions.Lookup(c.Request.Context(), claims.ID)
			if errors.Is(err, session.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been revoked"})
				return
			}
			if err != nil {
				slog.Error("session lookup failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			if data.UserID != userID {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session does not match token"})
				return
			}
		}

		c.Set(UserIDKey, userID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserNameKey, claims.Name)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if c.Request.Method == http.MethodGet {
			if token := c.Query("access_token"); token != "" {
				return token, true
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
		return "", false
	}
	return parts[1], true
}

// CurrentUserID returns the authenticated caller set by JWTAuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// CurrentClaims returns the parsed token claims of the caller.
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
