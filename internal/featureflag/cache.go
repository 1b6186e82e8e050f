package featureflag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "flag:"

// Cache stores resolved flag states. found is false on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (enabled, found bool, err error)
	Set(ctx context.Context, key string, enabled bool) error
	Delete(ctx context.Context, key string) error
}

// RedisCache is a Cache backed by Redis with a fixed entry TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get reads the cached state for key.
func (c *RedisCache) Get(ctx context.Context, key string) (bool, bool, error) {
	val, err := c.client.Get(ctx, cacheKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("reading flag cache: %w", err)
	}
	return val == "1", true, nil
}

// Set caches the state for key.
func (c *RedisCache) Set(ctx context.Context, key string, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing flag cache: %w", err)
	}
	return nil
}

// Delete drops the cached state for key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, cacheKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("invalidating flag cache: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
