package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisWithClient(client, "jobguard:", testLogger()), mr
}

func TestRedisGetSet(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	// Keys are namespaced under the configured prefix
	assert.True(t, mr.Exists("jobguard:k"))

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisDelete(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisExplanationRoundTrip(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	_, found, err := c.GetExplanation(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetExplanation(ctx, "abc123", "stored explanation", time.Hour))

	val, found, err := c.GetExplanation(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "stored explanation", val)

	// TTL applies so stale explanations age out
	mr.FastForward(2 * time.Hour)
	_, found, err = c.GetExplanation(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCheckRateLimit(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	const limit = 3
	window := time.Hour
	for i := 1; i <= limit; i++ {
		allowed, remaining, _, err := c.CheckRateLimit(ctx, "client-1", limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.EqualValues(t, limit-i, remaining)
	}

	allowed, remaining, resetTime, err := c.CheckRateLimit(ctx, "client-1", limit, window)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.EqualValues(t, 0, remaining)
	assert.True(t, resetTime.After(time.Now()))

	// A different client has its own counter
	allowed, _, _, err = c.CheckRateLimit(ctx, "client-2", limit, window)
	require.NoError(t, err)
	assert.True(t, allowed)
}
