package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parichay/internal/decoder"

	"github.com/redis/go-redis/v9"
)

const decodeKeyPrefix = "scan:decode:"

// RedisCache persists decoded records in Redis with TTL-based eviction.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache constructs a Redis-backed decode cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Find loads a cached decoded record by payload hash.
// Errors: returns ErrMiss on cache miss; wraps Redis or JSON decode errors.
func (c *RedisCache) Find(ctx context.Context, payloadHash string) (*decoder.Record, error) {
	data, err := c.client.Get(ctx, decodeKeyPrefix+payloadHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("find decode cache: %w", err)
	}

	var record decoder.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &record, nil
}

// Save writes a decoded record to Redis with TTL eviction. Overwrites any
// existing entry.
func (c *RedisCache) Save(ctx context.Context, payloadHash string, record *decoder.Record) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode decode cache: %w", err)
	}
	if err := c.client.Set(ctx, decodeKeyPrefix+payloadHash, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("save decode cache: %w", err)
	}
	return nil
}
