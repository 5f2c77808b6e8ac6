package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client)
}

func TestCacheSetGetRoundtrip(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}

	require.NoError(t, cache.Set(ctx, "docs:list:v1", payload{Name: "A.docx", Count: 3}, time.Minute))

	var got payload
	hit, err := cache.Get(ctx, "docs:list:v1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "A.docx", got.Name)
	assert.Equal(t, int64(3), got.Count)
}

func TestCacheGetMiss(t *testing.T) {
	cache := setupCache(t)

	var got string
	hit, err := cache.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheVersionCounter(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), cache.GetVersion(ctx, "docs:version"))

	cache.IncrementVersion(ctx, "docs:version")
	cache.IncrementVersion(ctx, "docs:version")
	assert.Equal(t, int64(2), cache.GetVersion(ctx, "docs:version"))
}

func TestNilCacheIsNoOp(t *testing.T) {
	ctx := context.Background()
	var cache *Cache

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	var got string
	hit, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.Equal(t, int64(0), cache.GetVersion(ctx, "docs:version"))
	cache.IncrementVersion(ctx, "docs:version")

	nilClient := NewCache(nil)
	require.NoError(t, nilClient.Set(ctx, "k", "v", time.Minute))
	hit, err = nilClient.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
