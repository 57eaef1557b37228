package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long provider results are kept.
const DefaultCacheTTL = 24 * time.Hour

// Connect parses redisURL, creates a client, and verifies connectivity with a ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// RedisCache stores geocoding results in Redis as JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)

// NewRedisCache creates a cache. A zero ttl uses DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(query string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(query))
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, query string) (*Result, error) {
	val, err := c.client.Get(ctx, cacheKey(query)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for %q: %w", query, err)
	}

	var result Result
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling cached result for %q: %w", query, err)
	}
	return &result, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, query string, result *Result) error {
	if result == nil {
		return nil
	}

	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result for %q: %w", query, err)
	}

	if err := c.client.Set(ctx, cacheKey(query), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for %q: %w", query, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
