package repositories_test

import (
	"context"
	"testing"

	"burningbros/internal/models"
	"burningbros/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runUserRepositoryContract(t *testing.T, newRepo func(t *testing.T) repositories.UserRepository) {
	ctx := context.Background()

	t.Run("CreateAndLookup", func(t *testing.T) {
		repo := newRepo(t)
		u := &models.User{Username: "alice", Password: "$2a$10$hash"}
		require.NoError(t, repo.Create(ctx, u))
		require.NotEmpty(t, u.ID)

		byName, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)
		assert.Equal(t, "$2a$10$hash", byName.Password)

		byID, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		exists, err := repo.ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		exists, err := repo.ExistsByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("DuplicateUsernameRejected", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Password: "h1"}))

		err := repo.Create(ctx, &models.User{Username: "alice", Password: "h2"})
		assert.ErrorIs(t, err, repositories.ErrDuplicate)

		u, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "h1", u.Password, "duplicate insert must not overwrite")
	})
}

func TestMemoryUserRepository(t *testing.T) {
	runUserRepositoryContract(t, func(t *testing.T) repositories.UserRepository {
		return repositories.NewMemoryUserRepository()
	})
}

func TestGORMUserRepository(t *testing.T) {
	runUserRepositoryContract(t, func(t *testing.T) repositories.UserRepository {
		return repositories.NewGORMUserRepository(openTestDB(t))
	})
}
