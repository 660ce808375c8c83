package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"jobguard/pkg/logger"
)

// GeneratorFunc produces an explanation for a cache miss
type GeneratorFunc func(ctx context.Context) (string, error)

// ExplanationCache memoizes generated explanations by content fingerprint.
//
// Contract: a hit returns the stored value without invoking the generator;
// a miss invokes it, stores the result on success only, and returns it.
// Concurrent misses on the same key share one in-flight generation
// (singleflight); failures are never stored, so the next caller retries.
// Misses on different keys never block one another.
//
// The in-memory level is a size-bounded LRU rather than the unbounded map
// a naive memoizer would use. An optional Redis level adds TTL-bounded
// sharing across restarts; both levels are best-effort on write.
type ExplanationCache struct {
	local  *lru.Cache[string, string]
	group  singleflight.Group
	redis  *RedisCache
	ttl    time.Duration
	logger *logger.Logger
}

// NewExplanationCache creates an explanation cache holding at most
// maxEntries in memory. redisCache may be nil to run memory-only.
func NewExplanationCache(maxEntries int, redisCache *RedisCache, ttl time.Duration, log *logger.Logger) (*ExplanationCache, error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	local, err := lru.New[string, string](maxEntries)
	if err != nil {
		return nil, err
	}
	return &ExplanationCache{
		local:  local,
		redis:  redisCache,
		ttl:    ttl,
		logger: log.WithComponent("explanation-cache"),
	}, nil
}

// generateResult carries the value and hit flag through singleflight
type generateResult struct {
	value string
	hit   bool
}

// GetOrCreate returns the explanation for key, generating it at most once
// per key across concurrent callers. The bool reports whether the value
// came from cache. The generator runs under the context of the caller that
// won the flight; concurrent losers observe its outcome, including errors.
func (c *ExplanationCache) GetOrCreate(ctx context.Context, key string, generate GeneratorFunc) (string, bool, error) {
	if val, ok := c.local.Get(key); ok {
		return val, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller in the same flight window may have populated the
		// entry between our miss and acquiring the flight
		if val, ok := c.local.Get(key); ok {
			return generateResult{value: val, hit: true}, nil
		}

		if c.redis != nil {
			val, found, rerr := c.redis.GetExplanation(ctx, key)
			if rerr != nil {
				c.logger.Warn().Err(rerr).Msg("redis lookup failed, falling through to generator")
			} else if found {
				c.local.Add(key, val)
				return generateResult{value: val, hit: true}, nil
			}
		}

		val, gerr := generate(ctx)
		if gerr != nil {
			// Failure is not cached: the key stays absent and a later
			// call retries generation
			return nil, gerr
		}

		c.local.Add(key, val)
		if c.redis != nil {
			if rerr := c.redis.SetExplanation(ctx, key, val, c.ttl); rerr != nil {
				c.logger.Warn().Err(rerr).Msg("failed to write explanation to redis")
			}
		}
		return generateResult{value: val, hit: false}, nil
	})
	if err != nil {
		return "", false, err
	}

	res := v.(generateResult)
	return res.value, res.hit, nil
}

// Len returns the number of explanations held in memory
func (c *ExplanationCache) Len() int {
	return c.local.Len()
}

// Contains reports whether key is present in the in-memory level without
// touching recency
func (c *ExplanationCache) Contains(key string) bool {
	return c.local.Contains(key)
}
