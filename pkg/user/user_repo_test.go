package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/potluck/potluck/internal/test_utils"
	"github.com/potluck/potluck/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(id, name string) user.User {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return user.User{
		ID:        id,
		GoogleID:  "google-" + id,
		Email:     name + "@example.com",
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepositoryImpl_StoreAndLookups(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := user.NewRepository(db)
	ctx := context.Background()

	// when
	require.NoError(t, repo.Store(ctx, testUser("u-1", "ana")))

	// then both lookups find the user
	byID, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ana", byID.Name)

	byGoogle, err := repo.GetByGoogleID(ctx, "google-u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byGoogle.ID)

	_, err = repo.GetByGoogleID(ctx, "unknown")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRepositoryImpl_Update(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := user.NewRepository(db)
	ctx := context.Background()
	u := testUser("u-1", "ana")
	require.NoError(t, repo.Store(ctx, u))

	// when
	u.CanCreateEvents = true
	u.IsAdmin = true
	err := repo.Update(ctx, u)

	// then
	require.NoError(t, err)
	stored, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, stored.CanCreateEvents)
	assert.True(t, stored.IsAdmin)

	t.Run("unknown user reports not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.Update(ctx, testUser("missing", "ghost")), user.ErrUserNotFound)
	})
}

func TestRepositoryImpl_ListAll(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := user.NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Store(ctx, testUser("u-1", "zoe")))
	require.NoError(t, repo.Store(ctx, testUser("u-2", "ana")))

	// when
	users, err := repo.ListAll(ctx)

	// then ordered by name
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ana", users[0].Name)
	assert.Equal(t, "zoe", users[1].Name)
}
