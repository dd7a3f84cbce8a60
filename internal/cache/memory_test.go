package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"burningbros/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory_Contract(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := cache.NewMemory(0)
	m.SetClock(clock.Now)
	defer m.Close()

	runCacheContract(t, m, clock.Advance)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(0)
	defer m.Close()

	value := []byte("original")
	require.NoError(t, m.Set(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "original", string(again))
}

func TestMemory_ExpiredKeysNotListed(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	m := cache.NewMemory(0)
	m.SetClock(clock.Now)
	defer m.Close()

	require.NoError(t, m.Set(ctx, "products_page:1_per_page:1", []byte("x"), time.Second))
	clock.Advance(2 * time.Second)

	keys, err := m.Keys(ctx, "products_page:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemory_JanitorPurges(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(10 * time.Millisecond)
	defer m.Close()

	require.NoError(t, m.Set(ctx, "gone", []byte("x"), time.Millisecond))
	require.NoError(t, m.Set(ctx, "kept", []byte("y"), 0))

	assert.Eventually(t, func() bool { return m.Len() == 1 }, time.Second, 5*time.Millisecond)
	_, ok, _ := m.Get(ctx, "kept")
	assert.True(t, ok)
}

func TestMemory_CloseIsIdempotent(t *testing.T) {
	m := cache.NewMemory(time.Millisecond)
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(0)
	defer m.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, "products_page:1_per_page:10", []byte("v"), time.Minute)
				_, _, _ = m.Get(ctx, "products_page:1_per_page:10")
				keys, _ := m.Keys(ctx, "products_page:")
				_ = m.Delete(ctx, keys...)
			}
		}()
	}
	wg.Wait()
}
