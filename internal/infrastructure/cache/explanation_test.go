package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobguard/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func newMemoryCache(t *testing.T) *ExplanationCache {
	t.Helper()
	c, err := NewExplanationCache(16, nil, 0, testLogger())
	require.NoError(t, err)
	return c
}

func TestGetOrCreateMissThenHit(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	var calls atomic.Int64
	generate := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "first explanation", nil
	}

	val, hit, err := c.GetOrCreate(ctx, "key-a", generate)
	require.NoError(t, err)
	assert.Equal(t, "first explanation", val)
	assert.False(t, hit)

	// The hit path must not invoke the generator, even one that would fail
	val, hit, err = c.GetOrCreate(ctx, "key-a", func(ctx context.Context) (string, error) {
		t.Fatal("generator invoked on a hit")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "first explanation", val)
	assert.True(t, hit)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGetOrCreateFailureNotCached(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	boom := errors.New("backend unavailable")
	_, _, err := c.GetOrCreate(ctx, "key-b", func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Contains("key-b"))
	assert.Equal(t, 0, c.Len())

	// Next call retries and the success is stored
	val, hit, err := c.GetOrCreate(ctx, "key-b", func(ctx context.Context) (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", val)
	assert.False(t, hit)
	assert.True(t, c.Contains("key-b"))
}

func TestGetOrCreateSingleFlight(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	generate := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared explanation", nil
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = c.GetOrCreate(ctx, "contended-key", generate)
		}(i)
	}

	// Let all goroutines pile onto the flight before releasing the generator
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared explanation", results[i])
	}
	assert.EqualValues(t, 1, calls.Load(), "concurrent misses on one key must share a single generation")
}

func TestGetOrCreateDistinctKeysIndependent(t *testing.T) {
	c := newMemoryCache(t)
	ctx := context.Background()

	var calls atomic.Int64
	for _, key := range []string{"key-1", "key-2", "key-3"} {
		val, hit, err := c.GetOrCreate(ctx, key, func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "explanation for " + key, nil
		})
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, "explanation for "+key, val)
	}
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, 3, c.Len())
}

func TestGetOrCreateEvictionIsBounded(t *testing.T) {
	c, err := NewExplanationCache(2, nil, 0, testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_, _, err := c.GetOrCreate(ctx, key, func(ctx context.Context) (string, error) {
			return "v-" + key, nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Contains("a"), "oldest entry evicted once capacity is reached")
	assert.True(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
}

func TestGetOrCreateRedisLevel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisCache := NewRedisWithClient(client, "jobguard:", testLogger())
	ctx := context.Background()

	first, err := NewExplanationCache(16, redisCache, time.Hour, testLogger())
	require.NoError(t, err)

	val, hit, err := first.GetOrCreate(ctx, "shared-key", func(ctx context.Context) (string, error) {
		return "persisted explanation", nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "persisted explanation", val)

	// A fresh in-memory level simulates a restart: the value comes back from
	// Redis without regenerating
	second, err := NewExplanationCache(16, redisCache, time.Hour, testLogger())
	require.NoError(t, err)

	val, hit, err = second.GetOrCreate(ctx, "shared-key", func(ctx context.Context) (string, error) {
		t.Fatal("generator invoked despite Redis holding the value")
		return "", nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "persisted explanation", val)
	assert.True(t, second.Contains("shared-key"), "redis hit backfills the memory level")
}

func TestGetOrCreateRedisDownFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisCache := NewRedisWithClient(client, "jobguard:", testLogger())
	mr.Close()

	c, err := NewExplanationCache(16, redisCache, time.Hour, testLogger())
	require.NoError(t, err)

	val, hit, err := c.GetOrCreate(context.Background(), "key", func(ctx context.Context) (string, error) {
		return "generated anyway", nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "generated anyway", val)
}
