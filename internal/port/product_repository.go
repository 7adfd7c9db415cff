package port

import (
	"context"
	"errors"
	"time"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// ErrVersionConflict is returned by Update when the stored aggregate
// changed since it was loaded.
var ErrVersionConflict = errors.New("product version conflict")

// ProductFilter narrows List results. Zero values match everything.
type ProductFilter struct {
	// NameContains matches case-insensitively on a substring of the name.
	NameContains string
	Status       domain.Status
}

type ProductRepository interface {
	// Create persists a new aggregate.
	Create(ctx context.Context, p *domain.Product) error

	// Get loads one aggregate by id, nil when absent.
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Update overwrites the stored aggregate, compare-and-swap on the
	// updatedAt the caller loaded. Returns ErrVersionConflict if the
	// row moved underneath.
	Update(ctx context.Context, p *domain.Product, loadedAt time.Time) error

	// Delete removes the aggregate; absent ids are not an error.
	Delete(ctx context.Context, id string) error

	// List returns aggregates matching the filter.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
}
