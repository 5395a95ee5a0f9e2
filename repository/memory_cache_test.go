package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(0, 0)

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", "v"))
	val, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cache := NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = cache.Close() })
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "k", "v"))

	now = now.Add(59 * time.Second)
	_, ok := cache.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestMemoryCache_SweepDropsExpiredKeysNeverReadAgain(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cache := NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = cache.Close() })
	cache.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set(ctx, key, "v"))
	}
	now = now.Add(30 * time.Second)
	require.NoError(t, cache.Set(ctx, "d", "v"))

	now = now.Add(45 * time.Second)
	cache.sweep()

	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get(ctx, "d")
	assert.True(t, ok)
}

func TestMemoryCache_MaxEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cache := NewMemoryCache(time.Hour, 2)
	t.Cleanup(func() { _ = cache.Close() })
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "first", "1"))
	now = now.Add(time.Minute)
	require.NoError(t, cache.Set(ctx, "second", "2"))
	now = now.Add(time.Minute)
	require.NoError(t, cache.Set(ctx, "third", "3"))

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(ctx, "first")
	assert.False(t, ok, "entry closest to expiry is evicted")
	_, ok = cache.Get(ctx, "third")
	assert.True(t, ok)

	// Overwriting an existing key never evicts.
	require.NoError(t, cache.Set(ctx, "second", "2b"))
	assert.Equal(t, 2, cache.Len())
}

func TestMemoryCache_FullCachePrefersExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cache := NewMemoryCache(time.Minute, 2)
	t.Cleanup(func() { _ = cache.Close() })
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "old", "1"))
	now = now.Add(50 * time.Second)
	require.NoError(t, cache.Set(ctx, "fresh", "2"))
	now = now.Add(20 * time.Second)

	require.NoError(t, cache.Set(ctx, "new", "3"))

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(time.Minute, 0)
	assert.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}
