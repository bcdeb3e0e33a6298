package rediscache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/todokeeper/infrastructure/rediscache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *rediscache.Cache {
	t.Helper()

	addr := os.Getenv("TODOKEEPER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TODOKEEPER_TEST_REDIS_ADDR not set")
	}

	c, err := rediscache.New(rediscache.Options{
		Addr:   addr,
		Prefix: "todokeeper-test:" + uuid.NewString() + ":",
		TTL:    time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheRoundTrip(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	var got item
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", item{Name: "a", Count: 2}))

	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{Name: "a", Count: 2}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, uint64(1), stats.Sets)
	assert.InDelta(t, 33.3, stats.HitRate, 0.1)
}

func TestOptionsEnabled(t *testing.T) {
	assert.False(t, rediscache.Options{}.Enabled())
	assert.True(t, rediscache.Options{Addr: "localhost:6379"}.Enabled())
}
