package repositories_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"burningbros/internal/models"
	"burningbros/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(en, vi string) *models.Product {
	return &models.Product{
		NameEN:      en,
		NameVI:      vi,
		Price:       1000,
		Category:    "Electronics",
		Subcategory: "Smart Phone",
	}
}

// runProductRepositoryContract checks the behaviour every ProductRepository shares.
func runProductRepositoryContract(t *testing.T, newRepo func(t *testing.T) repositories.ProductRepository) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Iphone En", "Iphone Vi")
		require.NoError(t, repo.Create(ctx, p))
		require.NotEmpty(t, p.ID)
		assert.True(t, repo.IsValidID(p.ID))

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Iphone En", got.NameEN)
		assert.Equal(t, "Iphone Vi", got.NameVI)
		assert.Equal(t, 1000.0, got.Price)
		assert.Empty(t, got.LikedBy)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("a", "b")
		require.NoError(t, repo.Create(ctx, p))

		_, err := repo.GetByID(ctx, flipLastChar(p.ID))
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("PaginationFollowsInsertionOrder", func(t *testing.T) {
		repo := newRepo(t)
		for i := 1; i <= 25; i++ {
			require.NoError(t, repo.Create(ctx, newProduct(fmt.Sprintf("Product %02d", i), fmt.Sprintf("San pham %02d", i))))
		}

		page, err := repo.FindPage(ctx, repositories.ProductFilter{}, 10, 10)
		require.NoError(t, err)
		require.Len(t, page, 10)
		for i, p := range page {
			assert.Equal(t, fmt.Sprintf("Product %02d", i+11), p.NameEN)
		}

		last, err := repo.FindPage(ctx, repositories.ProductFilter{}, 20, 10)
		require.NoError(t, err)
		assert.Len(t, last, 5)

		beyond, err := repo.FindPage(ctx, repositories.ProductFilter{}, 30, 10)
		require.NoError(t, err)
		assert.Empty(t, beyond)

		total, err := repo.Count(ctx, repositories.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
	})

	t.Run("HugeLimitReturnsWhatExists", func(t *testing.T) {
		repo := newRepo(t)
		for i := 1; i <= 3; i++ {
			require.NoError(t, repo.Create(ctx, newProduct(fmt.Sprintf("Product %02d", i), fmt.Sprintf("San pham %02d", i))))
		}

		var page []models.Product
		require.NotPanics(t, func() {
			var err error
			page, err = repo.FindPage(ctx, repositories.ProductFilter{}, 0, 1<<50)
			require.NoError(t, err)
		})
		assert.Len(t, page, 3)
	})

	t.Run("SearchIsCaseInsensitiveAndFieldScoped", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newProduct("Iphone 15", "Dien thoai Iphone")))
		require.NoError(t, repo.Create(ctx, newProduct("Galaxy S24", "Dien thoai Samsung")))
		require.NoError(t, repo.Create(ctx, newProduct("Phone case 100%", "Op lung")))

		en := repositories.ProductFilter{Field: repositories.FieldNameEN, Contains: "IPHONE"}
		found, err := repo.FindPage(ctx, en, 0, 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Iphone 15", found[0].NameEN)

		vi := repositories.ProductFilter{Field: repositories.FieldNameVI, Contains: "dien thoai"}
		n, err := repo.Count(ctx, vi)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		// Metacharacters are matched literally.
		literal := repositories.ProductFilter{Field: repositories.FieldNameEN, Contains: "100%"}
		n, err = repo.Count(ctx, literal)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		dot := repositories.ProductFilter{Field: repositories.FieldNameEN, Contains: "."}
		n, err = repo.Count(ctx, dot)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("AddAndRemoveLike", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Iphone En", "Iphone Vi")
		require.NoError(t, repo.Create(ctx, p))

		require.NoError(t, repo.AddLike(ctx, p.ID, "user-1"))
		require.NoError(t, repo.AddLike(ctx, p.ID, "user-1"))
		require.NoError(t, repo.AddLike(ctx, p.ID, "user-2"))

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"user-1", "user-2"}, got.LikedBy)

		require.NoError(t, repo.RemoveLike(ctx, p.ID, "user-1"))
		require.NoError(t, repo.RemoveLike(ctx, p.ID, "user-3"))
		got, err = repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"user-2"}, got.LikedBy)
	})

	t.Run("LikeMissingProduct", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("a", "b")
		require.NoError(t, repo.Create(ctx, p))

		err := repo.AddLike(ctx, flipLastChar(p.ID), "user-1")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		err = repo.RemoveLike(ctx, flipLastChar(p.ID), "user-1")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("ConcurrentLikesNeverDuplicate", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Iphone En", "Iphone Vi")
		require.NoError(t, repo.Create(ctx, p))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = repo.AddLike(ctx, p.ID, "same-user")
			}()
		}
		wg.Wait()

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"same-user"}, got.LikedBy)
	})
}

// flipLastChar returns a well-formed ID that differs from id.
func flipLastChar(id string) string {
	last := id[len(id)-1]
	repl := byte('0')
	if last == '0' {
		repl = '1'
	}
	return id[:len(id)-1] + string(repl)
}
