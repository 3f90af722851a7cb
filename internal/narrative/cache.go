package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

// Cache stores generated summaries keyed by a digest of the fact block.
// Identical facts always produce an equally valid summary, so reuse can
// never change what the caller sees about a patient.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, summary string)
}

// CacheKey derives a deterministic key from the serialized fact block.
func CacheKey(factBlock string) string {
	sum := sha256.Sum256([]byte(factBlock))
	return "narrative:" + hex.EncodeToString(sum[:])
}

// lruCache is the in-process tier, always present.
type lruCache struct {
	cache *lru.Cache[string, string]
}

// NewLRUCache creates an in-process LRU summary cache.
func NewLRUCache(size int) (Cache, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &lruCache{cache: c}, nil
}

func (c *lruCache) Get(_ context.Context, key string) (string, bool) {
	return c.cache.Get(key)
}

func (c *lruCache) Set(_ context.Context, key, summary string) {
	c.cache.Add(key, summary)
}

// redisCache is the optional shared tier for multi-instance deployments.
// Failures degrade to a miss; the cache must never fail a request.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and returns a shared summary cache.
func NewRedisCache(redisURL string, ttl time.Duration) (Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &redisCache{client: client, ttl: ttl}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key, summary string) {
	c.client.Set(ctx, key, summary, c.ttl)
}

// tieredCache consults the LRU first, then the shared tier, backfilling the
// LRU on a shared hit.
type tieredCache struct {
	local  Cache
	shared Cache
}

// NewTieredCache layers an in-process cache over a shared one.
func NewTieredCache(local, shared Cache) Cache {
	return &tieredCache{local: local, shared: shared}
}

func (c *tieredCache) Get(ctx context.Context, key string) (string, bool) {
	if summary, ok := c.local.Get(ctx, key); ok {
		return summary, true
	}
	if summary, ok := c.shared.Get(ctx, key); ok {
		c.local.Set(ctx, key, summary)
		return summary, true
	}
	return "", false
}

func (c *tieredCache) Set(ctx context.Context, key, summary string) {
	c.local.Set(ctx, key, summary)
	c.shared.Set(ctx, key, summary)
}
