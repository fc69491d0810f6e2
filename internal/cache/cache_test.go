package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(10)

	t.Run("miss", func(t *testing.T) {
		_, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "gone", []byte("v"), time.Minute))
		require.NoError(t, c.Delete(ctx, "gone"))

		_, err := c.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("expired entry misses", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "short")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestMemoryClient_Eviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(2)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, "c", []byte("3"), time.Minute))

	// Capacity holds, one of the earlier keys was evicted.
	present := 0
	for _, k := range []string{"a", "b", "c"} {
		if _, err := c.Get(ctx, k); err == nil {
			present++
		}
	}
	assert.Equal(t, 2, present)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "retriever:uk:5:візитки", CacheKey("retriever", "uk", "5", "візитки"))
}
