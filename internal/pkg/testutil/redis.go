package testutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/cache"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
)

const isolatedTestRedisDB = 14

// NewRedis installs a client for an isolated Redis database as the process
// cache and skips the test when no Redis is reachable.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := net.JoinHostPort(env.GetEnv("CACHE_HOST", "localhost"), env.GetEnv("CACHE_PORT", "6379"))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       isolatedTestRedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())

	prev := cache.GetClient()
	cache.SetClient(client)
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		cache.SetClient(prev)
		_ = client.Close()
	})
	return client
}
