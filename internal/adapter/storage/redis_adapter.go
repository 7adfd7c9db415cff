package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stockroom/internal/core/domain"
)

const (
	productKeyPrefix  = "product:"
	totalKeyPrefix    = "stock_total:"
	productCacheTTL   = 10 * time.Minute
	idempotencyKeyTTL = 24 * time.Hour
)

// RedisAdapter caches whole aggregates, mirrors stock totals and backs
// dispatch idempotency keys.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	data, err := r.client.Get(ctx, productKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisAdapter) SetProduct(ctx context.Context, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKeyPrefix+p.ID, data, productCacheTTL).Err()
}

func (r *RedisAdapter) DeleteProduct(ctx context.Context, id string) error {
	return r.client.Del(ctx, productKeyPrefix+id).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) DeleteIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisAdapter) SetStockTotal(ctx context.Context, id string, total int) error {
	return r.client.Set(ctx, totalKeyPrefix+id, total, 0).Err()
}

func (r *RedisAdapter) GetStockTotal(ctx context.Context, id string) (int, bool, error) {
	total, err := r.client.Get(ctx, totalKeyPrefix+id).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return total, true, nil
}
