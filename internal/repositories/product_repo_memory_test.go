package repositories_test

import (
	"context"
	"testing"

	"burningbros/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProductRepository(t *testing.T) {
	runProductRepositoryContract(t, func(t *testing.T) repositories.ProductRepository {
		return repositories.NewMemoryProductRepository()
	})
}

func TestMemoryProductRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryProductRepository()
	p := newProduct("Iphone En", "Iphone Vi")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.AddLike(ctx, p.ID, "user-1"))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.LikedBy[0] = "tampered"
	got.NameEN = "tampered"

	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, again.LikedBy)
	assert.Equal(t, "Iphone En", again.NameEN)
}

func TestMemoryProductRepository_IsValidID(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	assert.True(t, repo.IsValidID("0190a7b2-5b1c-7c3e-8e7a-0d4b1f2a3c4d"))
	assert.False(t, repo.IsValidID("not-an-id"))
	assert.False(t, repo.IsValidID(""))
}
