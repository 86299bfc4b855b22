package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/katsuyo/pkg/adapters/redis"
	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	cache := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "kaku/plain_affirmative_past", "kaita", 0))
	got, err := cache.Get(ctx, "kaku/plain_affirmative_past")
	require.NoError(t, err)
	assert.Equal(t, "kaita", got)

	mr.FastForward(2 * time.Minute)

	_, err = cache.Get(ctx, "kaku/plain_affirmative_past")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Prefix(t *testing.T) {
	mr, client := newClient(t)
	cache := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "matsu/plain_affirmative_past", "matta", 0))
	assert.True(t, mr.Exists("test:matsu/plain_affirmative_past"))
	require.NoError(t, cache.Ping(ctx))
}
