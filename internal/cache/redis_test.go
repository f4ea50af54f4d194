package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallangdev/boss-scheduler/internal/config"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	err := cache.Set("nickname:uid-1", "guildmaster", time.Minute)
	require.NoError(t, err)

	var nickname string
	found, err := cache.Get("nickname:uid-1", &nickname)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "guildmaster", nickname)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out string
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("nickname:uid-1", "guildmaster", time.Minute))
	require.NoError(t, cache.Invalidate("nickname:uid-1"))

	var out string
	found, err := cache.Get("nickname:uid-1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
