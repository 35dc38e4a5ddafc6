package auth_test

import (
	"testing"
	"time"

	"github.com/aliciamunhoz/kanban-next/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	manager := auth.NewTokenManager(testSecret, 24*time.Hour)
	userID := uuid.New()

	token, issued, err := manager.GenerateToken(userID, "ana@example.com", "Ana")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, issued.ID)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)

	parsedID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	manager := auth.NewTokenManager(testSecret, time.Hour)
	userID := uuid.New()

	_, first, err := manager.GenerateToken(userID, "a@example.com", "A")
	require.NoError(t, err)
	_, second, err := manager.GenerateToken(userID, "a@example.com", "A")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestParseToken_InvalidToken(t *testing.T) {
	manager := auth.NewTokenManager(testSecret, time.Hour)

	_, err := manager.ParseToken("invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("other-secret", time.Hour).GenerateToken(uuid.New(), "a@example.com", "A")
	require.NoError(t, err)

	_, err = auth.NewTokenManager(testSecret, time.Hour).ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte(testSecret))

	_, err := auth.NewTokenManager(testSecret, time.Hour).ParseToken(expiredToken)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()})
	signed, _ := token.SignedString([]byte(testSecret))

	_, err := auth.NewTokenManager(testSecret, time.Hour).ParseToken(signed)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutSubject, _ := token.SignedString([]byte(testSecret))

	_, err := auth.NewTokenManager(testSecret, time.Hour).ParseToken(tokenWithoutSubject)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(hash, "password123"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}
