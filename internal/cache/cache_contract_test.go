package cache_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"burningbros/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCacheContract exercises behaviour every Cache implementation shares.
// advance moves the cache's notion of time forward.
func runCacheContract(t *testing.T, c cache.Cache, advance func(time.Duration)) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		v, ok, err := c.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("SetGet", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "products_page:1_per_page:10", []byte(`{"total":3}`), time.Minute))
		v, ok, err := c.Get(ctx, "products_page:1_per_page:10")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"total":3}`, string(v))
	})

	t.Run("ExpiresAfterTTL", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", []byte("v"), 2*time.Second))
		advance(3 * time.Second)
		_, ok, err := c.Get(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("KeysByPrefixAndDelete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "products_page:1_per_page:5", []byte("a"), time.Minute))
		require.NoError(t, c.Set(ctx, "products_page:2_per_page:5", []byte("b"), time.Minute))
		require.NoError(t, c.Set(ctx, "users:1", []byte("c"), time.Minute))

		keys, err := c.Keys(ctx, "products_page:")
		require.NoError(t, err)
		sort.Strings(keys)
		assert.Equal(t, []string{
			"products_page:1_per_page:10",
			"products_page:1_per_page:5",
			"products_page:2_per_page:5",
		}, keys)

		require.NoError(t, c.Delete(ctx, keys...))
		keys, err = c.Keys(ctx, "products_page:")
		require.NoError(t, err)
		assert.Empty(t, keys)

		_, ok, err := c.Get(ctx, "users:1")
		require.NoError(t, err)
		assert.True(t, ok, "unrelated keys survive invalidation")
	})

	t.Run("DeleteNothing", func(t *testing.T) {
		assert.NoError(t, c.Delete(ctx))
		assert.NoError(t, c.Delete(ctx, "never-set"))
	})
}
