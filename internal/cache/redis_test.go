package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamanda20/ecommerce-backend/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	product := &domain.Product{
		ID:       1,
		Name:     "Classic T-Shirt",
		Price:    19.99,
		Category: "Apparel",
		InStock:  true,
		Variants: `["S","M","L"]`,
	}

	productJSON, err := json.Marshal(product)
	require.NoError(t, err)
	mr.Set(cacheKey(product.ID), string(productJSON))

	result, err := cache.Get(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, product, result)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), 42)

	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_CorruptedEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)

	mr.Set(cacheKey(1), "{not json")

	_, err := cache.Get(context.Background(), 1)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_StoresWithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	product := &domain.Product{ID: 2, Name: "Mug", Price: 5.50}

	require.NoError(t, cache.Set(ctx, product))

	assert.True(t, mr.Exists(cacheKey(2)))
	assert.Greater(t, mr.TTL(cacheKey(2)).Minutes(), 0.0)

	roundTrip, err := cache.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, product, roundTrip)
}

func TestDelete_RemovesEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.Product{ID: 3, Name: "Poster"}))
	require.NoError(t, cache.Delete(ctx, 3))

	assert.False(t, mr.Exists(cacheKey(3)))
}

func TestDelete_MissingEntryIsNoError(t *testing.T) {
	cache, _ := setupTestRedis(t)

	assert.NoError(t, cache.Delete(context.Background(), 404))
}
