package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisCache is a Redis-backed Cache for traffic patterns, suitable for
// sharing computed patterns across instances.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisCache creates a Redis pattern cache and verifies connectivity.
func NewRedisCache(addr, password string, db int, logger zerolog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: "tripforge:traffic:",
		logger: logger,
	}, nil
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetPatterns returns cached patterns for the key, reporting a miss for both
// absent keys and undecodable payloads.
func (c *RedisCache) GetPatterns(ctx context.Context, key string) ([]Pattern, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var patterns []Pattern
	if err := json.Unmarshal(data, &patterns); err != nil {
		// Treat corrupt entries as a miss; they will be overwritten.
		c.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable pattern cache entry")
		return nil, false, nil
	}
	return patterns, true, nil
}

// SetPatterns stores patterns under the key with the given TTL.
func (c *RedisCache) SetPatterns(ctx context.Context, key string, patterns []Pattern, ttl time.Duration) error {
	data, err := json.Marshal(patterns)
	if err != nil {
		return fmt.Errorf("marshal patterns: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
