package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "cache:"

	// Weekly insights change slowly; TTLs are clamped between these bounds.
	minCacheTTL = 1 * time.Hour
	maxCacheTTL = 12 * time.Hour
)

// Cache is a small JSON cache over Redis, used to avoid re-running agent
// summaries for data that has not moved.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals the cached value for key into dest. A miss is not an
// error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, cacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key with the given TTL, clamped to the cache
// bounds.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl < minCacheTTL {
		ttl = minCacheTTL
	}
	if ttl > maxCacheTTL {
		ttl = maxCacheTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+key, data, ttl).Err()
}
