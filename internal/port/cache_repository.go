package port

import (
	"context"

	"github.com/rl1809/stockroom/internal/core/domain"
)

type CacheRepository interface {
	// GetProduct returns a cached aggregate, nil on a miss.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// SetProduct caches an aggregate with the adapter's TTL.
	SetProduct(ctx context.Context, p *domain.Product) error

	// DeleteProduct drops the cached copy after a write.
	DeleteProduct(ctx context.Context, id string) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// DeleteIdempotency releases a key whose request failed without effect.
	DeleteIdempotency(ctx context.Context, key string) error

	// SetStockTotal mirrors a product's total piece count for cheap listing.
	SetStockTotal(ctx context.Context, id string, total int) error

	// GetStockTotal reads the mirrored total; ok is false when unset.
	GetStockTotal(ctx context.Context, id string) (total int, ok bool, err error)
}
