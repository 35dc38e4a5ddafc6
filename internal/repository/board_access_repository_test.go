package repository_test

import (
	"context"
	"testing"

	"github.com/aliciamunhoz/kanban-next/internal/repository"
	"github.com/aliciamunhoz/kanban-next/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardAccessRepository_GrantAndPolicy(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", "Owner")
	friend := testutil.SeedUser(t, db, "friend@example.com", "Friend")
	stranger := testutil.SeedUser(t, db, "stranger@example.com", "Stranger")
	board := testutil.SeedBoard(t, db, owner, "Roadmap")
	repo := repository.NewBoardAccessRepository(db)

	require.NoError(t, repo.Grant(context.Background(), board.ID, friend.ID))

	policy, err := repo.LoadPolicy(context.Background(), board.ID)
	require.NoError(t, err)
	assert.True(t, policy.HasAccess(owner.ID))
	assert.True(t, policy.IsOwner(owner.ID))
	assert.True(t, policy.HasAccess(friend.ID))
	assert.False(t, policy.IsOwner(friend.ID))
	assert.False(t, policy.HasAccess(stranger.ID))
}

func TestBoardAccessRepository_GrantTwice(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", "Owner")
	friend := testutil.SeedUser(t, db, "friend@example.com", "Friend")
	board := testutil.SeedBoard(t, db, owner, "Roadmap")
	repo := repository.NewBoardAccessRepository(db)

	require.NoError(t, repo.Grant(context.Background(), board.ID, friend.ID))
	err := repo.Grant(context.Background(), board.ID, friend.ID)

	assert.ErrorIs(t, err, repository.ErrAlreadyShared)
}

func TestBoardAccessRepository_RevokeIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", "Owner")
	friend := testutil.SeedUser(t, db, "friend@example.com", "Friend")
	board := testutil.SeedBoard(t, db, owner, "Roadmap")
	repo := repository.NewBoardAccessRepository(db)
	require.NoError(t, repo.Grant(context.Background(), board.ID, friend.ID))

	require.NoError(t, repo.Revoke(context.Background(), board.ID, friend.ID))
	require.NoError(t, repo.Revoke(context.Background(), board.ID, friend.ID))

	policy, err := repo.LoadPolicy(context.Background(), board.ID)
	require.NoError(t, err)
	assert.False(t, policy.HasAccess(friend.ID))
}

func TestBoardAccessRepository_ListCollaboratorsAndShared(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", "Owner")
	friend := testutil.SeedUser(t, db, "friend@example.com", "Friend")
	board := testutil.SeedBoard(t, db, owner, "Roadmap")
	testutil.SeedBoard(t, db, owner, "Private")
	repo := repository.NewBoardAccessRepository(db)
	require.NoError(t, repo.Grant(context.Background(), board.ID, friend.ID))

	collaborators, err := repo.ListCollaborators(context.Background(), board.ID)
	require.NoError(t, err)
	require.Len(t, collaborators, 1)
	assert.Equal(t, friend.ID, collaborators[0].ID)
	assert.Equal(t, "friend@example.com", collaborators[0].Email)
	assert.False(t, collaborators[0].GrantedAt.IsZero())

	shared, err := repo.ListShared(context.Background(), friend.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, board.ID, shared[0].ID)
	assert.Equal(t, "Owner", shared[0].OwnerName)
	assert.Equal(t, "owner@example.com", shared[0].OwnerEmail)

	none, err := repo.ListShared(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBoardAccessRepository_LoadPolicyMissingBoard(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewBoardAccessRepository(db)

	_, err := repo.LoadPolicy(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
}
