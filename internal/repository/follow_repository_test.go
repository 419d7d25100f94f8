package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/model"
)

func TestFollowCreateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	created, err := repo.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created, "duplicate follow must be absorbed")

	var cnt int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt, "exactly one edge per ordered pair")
}

func TestFollowEdgesAreDirected(t *testing.T) {
	db := setupDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := repo.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	ok, err := repo.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok, "reverse direction is a separate edge")
}

func TestFollowDeleteMissingEdgeIsNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	err := repo.Delete(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, alice.ID, bob.ID))

	ok, err := repo.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowListAndCount(t *testing.T) {
	db := setupDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := repo.Create(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = repo.Create(ctx, carol.ID, bob.ID)
	require.NoError(t, err)

	following, err := repo.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, following, 2)

	followers, err := repo.ListFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	cnt, err := repo.CountFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)
}
