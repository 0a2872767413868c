package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
)

// ErrDisabled is returned when no cache server is configured.
var ErrDisabled = errors.New("cache disabled")

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = redis.Nil

var client *redis.Client

// SetupCache connects to the Redis compatible cache server. An empty
// CACHE_HOST leaves the cache disabled; callers then fall back to live data.
func SetupCache(ctx context.Context) {
	host := env.GetEnv("CACHE_HOST", "")
	if host == "" {
		logger.Named("cache").Info("CACHE_HOST not set, cache disabled")
		return
	}
	port := env.GetEnv("CACHE_PORT", "6379")

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0, // sessions use DB 1
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	pong, err := c.Ping(pingCtx).Result()
	if err != nil {
		logger.Named("cache").Warn("could not connect to cache", zap.String("addr", c.Options().Addr), zap.Error(err))
	} else {
		logger.Named("cache").Info("connected to cache", zap.String("addr", c.Options().Addr), zap.String("pong", pong))
	}
	client = c
}

// SetClient replaces the client (tests, custom wiring).
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client instance, nil when disabled
func GetClient() *redis.Client {
	return client
}

// Enabled reports whether a cache server is configured.
func Enabled() bool {
	return client != nil
}

// Set stores a value in the cache with the given key and expiration time
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if client == nil {
		return ErrDisabled
	}
	return client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", ErrDisabled
	}
	return client.Get(ctx, key).Result()
}

// GetInt64 retrieves an integer value from the cache by key
func GetInt64(ctx context.Context, key string) (int64, error) {
	if client == nil {
		return 0, ErrDisabled
	}
	return client.Get(ctx, key).Int64()
}

// Delete removes values from the cache
func Delete(ctx context.Context, keys ...string) error {
	if client == nil {
		return ErrDisabled
	}
	return client.Del(ctx, keys...).Err()
}

// Close releases the connection pool.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
