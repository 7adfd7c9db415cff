package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestProductCache(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	id := "test-cache-" + time.Now().Format("20060102150405.000000")
	defer client.Del(ctx, productKeyPrefix+id)

	// miss before set
	got, err := adapter.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	p := &domain.Product{
		ID:     id,
		Name:   "Cached Shirt",
		Colors: map[string]domain.SizeMap{"Red": {"S": 3}},
		Status: domain.StatusReady,
	}
	require.NoError(t, adapter.SetProduct(ctx, p))

	got, err = adapter.GetProduct(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Colors, got.Colors)

	require.NoError(t, adapter.DeleteProduct(ctx, id))
	got, err = adapter.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetIdempotency(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	key := "dispatch:test-" + time.Now().Format("20060102150405.000000")
	defer client.Del(ctx, key)

	ok, err := adapter.SetIdempotency(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.SetIdempotency(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "second set must report a replay")

	// a released key is usable again
	require.NoError(t, adapter.DeleteIdempotency(ctx, key))
	ok, err = adapter.SetIdempotency(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStockTotalMirror(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	id := "test-total-" + time.Now().Format("20060102150405.000000")
	defer client.Del(ctx, totalKeyPrefix+id)

	_, ok, err := adapter.GetStockTotal(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, adapter.SetStockTotal(ctx, id, 17))

	total, ok, err := adapter.GetStockTotal(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 17, total)
}
