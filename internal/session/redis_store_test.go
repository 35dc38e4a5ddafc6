package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, s
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("not a url")
	assert.Error(t, err)
}

func TestSaveAndLookup(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, "jti-1", userID, time.Now().Add(time.Hour)))

	data, err := store.Lookup(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, userID, data.UserID)
	assert.WithinDuration(t, time.Now(), data.CreatedAt, time.Minute)
}

func TestRevoke(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "jti-1", uuid.New(), time.Now().Add(time.Hour)))

	require.NoError(t, store.Revoke(ctx, "jti-1"))

	_, err := store.Lookup(ctx, "jti-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// revoking twice is fine
	assert.NoError(t, store.Revoke(ctx, "jti-1"))
}

func TestSessionExpires(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "jti-1", uuid.New(), time.Now().Add(time.Minute)))

	s.FastForward(2 * time.Minute)

	_, err := store.Lookup(ctx, "jti-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSave_AlreadyExpired(t *testing.T) {
	store, s := setupTestRedis(t)

	require.NoError(t, store.Save(context.Background(), "jti-1", uuid.New(), time.Now().Add(-time.Minute)))

	assert.False(t, s.Exists("session:jti-1"))
}

func TestLookup_CorruptPayload(t *testing.T) {
	store, s := setupTestRedis(t)
	require.NoError(t, s.Set("session:jti-1", "not json"))

	_, err := store.Lookup(context.Background(), "jti-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestPing(t *testing.T) {
	store, s := setupTestRedis(t)
	require.NoError(t, store.Ping(context.Background()))

	s.Close()
	assert.Error(t, store.Ping(context.Background()))
}
