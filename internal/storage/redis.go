package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores values as plain Redis strings with no expiry.
type Redis struct {
	client *redis.Client
}

// OpenRedis returns a Redis-backed store. The connection is established
// lazily on first use.
func OpenRedis(addr string, db int) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr, DB: db})}
}

// Get returns the value for key, or ("", false, nil) if not set.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage.Redis.Get: %w", err)
	}
	return val, true, nil
}

// Set stores value under key.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage.Redis.Set: %w", err)
	}
	return nil
}

// Close closes the client's connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
