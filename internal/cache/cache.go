package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin Redis wrapper for short-lived response caching. A nil
// *Cache is valid and disables caching, so callers never branch on
// configuration.
type Cache struct {
	client *redis.Client
}

// New connects to Redis. Returns nil (caching disabled) when addr is empty.
func New(ctx context.Context, addr string, db int) (*Cache, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client}, nil
}

// Get returns the cached payload for key, or ok=false on miss, disabled
// cache, or any Redis error. Cache errors are never surfaced to callers.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores a payload with a TTL. Errors are dropped: the cache is an
// optimization, not a source of truth.
func (c *Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if c == nil {
		return
	}
	_ = c.client.Set(ctx, key, val, ttl).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
