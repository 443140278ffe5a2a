package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisBackend stores documents as plain redis strings
type RedisBackend struct {
	rdb redis.UniversalClient
}

// NewRedisBackend connects to redis and verifies the connection
func NewRedisBackend(ctx context.Context, cfg *config.RedisConfig) (*RedisBackend, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisBackend{rdb: rdb}, nil
}

// NewRedisBackendFromClient wraps an existing client without pinging it
func NewRedisBackendFromClient(rdb redis.UniversalClient) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

// Read returns the document stored under key
func (b *RedisBackend) Read(ctx context.Context, key string) (string, bool, error) {
	val, err := b.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// Write stores the document under key without expiry
func (b *RedisBackend) Write(ctx context.Context, key, value string) error {
	return b.rdb.Set(ctx, key, value, 0).Err()
}

// Close closes the redis client
func (b *RedisBackend) Close() error {
	return b.rdb.Close()
}
