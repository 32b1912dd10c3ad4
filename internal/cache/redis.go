package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Billy-Davies-2/auction-draft-values/internal/models"
)

// ValuesTTL bounds how long an unused valuation stays in Redis
const ValuesTTL = 12 * time.Hour

// RedisCache stores valuations in Redis so several API replicas share them
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed ValueCache
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "values:",
		ttl:    ValuesTTL,
	}
}

// NewRedisClient parses a redis:// URL and verifies the server answers
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// WithTTL overrides how long entries live; non-positive values are ignored
func (c *RedisCache) WithTTL(ttl time.Duration) *RedisCache {
	if ttl > 0 {
		c.ttl = ttl
	}
	return c
}

func (c *RedisCache) key(hash string) string {
	return c.prefix + hash
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.PlayerValue, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var values []models.PlayerValue
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, false, fmt.Errorf("unmarshaling values: %w", err)
	}
	return values, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, values []models.PlayerValue) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling values: %w", err)
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}
