package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL keeps a day's record a little past the day boundary in
// every timezone, after which Redis drops it.
const DefaultRedisTTL = 48 * time.Hour

// RedisConfig holds configuration for the Redis backend
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	// TTL applied on every write; zero means DefaultRedisTTL
	TTL time.Duration
}

// redisBackend implements Backend using Redis strings
type redisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed Backend
func NewRedis(cfg *RedisConfig) (*redisBackend, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &redisBackend{client: cfg.RedisClient, ttl: ttl}, nil
}

// Get retrieves a value from Redis
func (r *redisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

// Put stores a value in Redis with the configured TTL
func (r *redisBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client
func (r *redisBackend) Close() error { return r.client.Close() }
