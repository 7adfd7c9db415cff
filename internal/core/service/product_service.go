package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/inventory"
	"github.com/rl1809/stockroom/internal/port"
)

var (
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrInvalidName      = errors.New("product name is empty")
)

// StockSummary is queued after stock-changing operations so workers can
// mirror per-product totals into the cache.
type StockSummary struct {
	ProductID string
	Total     int
}

// ProductService orchestrates the core over the persistence ports:
// load aggregate, run the in-memory operation, save with a
// compare-and-swap on updatedAt, invalidate the cache.
type ProductService struct {
	store  port.ProductRepository
	cache  port.CacheRepository
	logger *zap.Logger

	summaries chan StockSummary

	undoMu sync.Mutex
	undo   map[string]*inventory.UndoBuffer
}

func NewProductService(store port.ProductRepository, cache port.CacheRepository, logger *zap.Logger, queueSize int) *ProductService {
	return &ProductService{
		store:     store,
		cache:     cache,
		logger:    logger,
		summaries: make(chan StockSummary, queueSize),
		undo:      make(map[string]*inventory.UndoBuffer),
	}
}

// CreateProduct builds a new aggregate in the initial workflow state.
// Initial colors go through the ledger so its invariants apply.
func (s *ProductService) CreateProduct(ctx context.Context, name, image string, colors map[string]domain.SizeMap) (*domain.Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	now := time.Now()
	p := &domain.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Image:     image,
		Colors:    make(map[string]domain.SizeMap),
		Status:    domain.StatusPending,
		History:   []domain.HistoryEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for color, sizes := range colors {
		if err := inventory.AddColor(p, color); err != nil {
			return nil, err
		}
		for size, qty := range sizes {
			if err := inventory.SetSize(p, color, size, qty); err != nil {
				return nil, err
			}
		}
	}
	p.UpdatedAt = now

	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// GetProduct serves reads through the cache, falling back to the store.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if p, err := s.cache.GetProduct(ctx, id); err != nil {
		s.logger.Warn("product cache read failed", zap.String("product_id", id), zap.Error(err))
	} else if p != nil {
		return p, nil
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	if err := s.cache.SetProduct(ctx, p); err != nil {
		s.logger.Warn("product cache write failed", zap.String("product_id", id), zap.Error(err))
	}
	return p, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter port.ProductFilter) ([]*domain.Product, error) {
	return s.store.List(ctx, filter)
}

// UpdateDetails changes the display fields without touching the ledger.
func (s *ProductService) UpdateDetails(ctx context.Context, id, name, image string) (*domain.Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	return s.mutate(ctx, id, func(p *domain.Product) error {
		p.Name = name
		p.Image = image
		p.Touch()
		return nil
	})
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx, id)

	s.undoMu.Lock()
	delete(s.undo, id)
	s.undoMu.Unlock()
	return nil
}

func (s *ProductService) AddColor(ctx context.Context, id, color string) (*domain.Product, error) {
	return s.mutateStock(ctx, id, func(p *domain.Product) error {
		return inventory.AddColor(p, color)
	})
}

func (s *ProductService) RemoveColor(ctx context.Context, id, color string) (*domain.Product, error) {
	return s.mutateStock(ctx, id, func(p *domain.Product) error {
		return inventory.RemoveColor(p, color)
	})
}

func (s *ProductService) SetSize(ctx context.Context, id, color, size string, qty int) (*domain.Product, error) {
	return s.mutateStock(ctx, id, func(p *domain.Product) error {
		return inventory.SetSize(p, color, size, qty)
	})
}

func (s *ProductService) RemoveSize(ctx context.Context, id, color, size string) (*domain.Product, error) {
	return s.mutateStock(ctx, id, func(p *domain.Product) error {
		return inventory.RemoveSize(p, color, size)
	})
}

// Dispatch atomically withdraws stock for one color. The request id
// guards against client replays; a replay fails before the aggregate is
// even loaded. A dispatch that fails validation changes nothing, so its
// key is released and the same request id may retry.
func (s *ProductService) Dispatch(ctx context.Context, requestID, id, color string, requests map[string]int) ([]domain.HistoryEntry, *domain.Product, error) {
	key := "dispatch:" + requestID
	ok, err := s.cache.SetIdempotency(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return nil, nil, ErrDuplicateRequest
	}

	var entries []domain.HistoryEntry
	p, err := s.mutateStock(ctx, id, func(p *domain.Product) error {
		var opErr error
		entries, opErr = inventory.Dispatch(p, color, requests)
		return opErr
	})
	if err != nil {
		if delErr := s.cache.DeleteIdempotency(ctx, key); delErr != nil {
			s.logger.Warn("failed to release idempotency key",
				zap.String("request_id", requestID), zap.Error(delErr))
		}
		return nil, nil, err
	}
	return entries, p, nil
}

func (s *ProductService) Transition(ctx context.Context, id string, target domain.Status, role domain.Role) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) error {
		return inventory.Transition(p, target, role)
	})
}

// DeleteHistoryEntry removes one audit entry and holds it in the
// product's undo buffer. The stock effect of the entry stays applied.
func (s *ProductService) DeleteHistoryEntry(ctx context.Context, id, entryID string) (*domain.Product, error) {
	var removed domain.HistoryEntry
	p, err := s.mutate(ctx, id, func(p *domain.Product) error {
		var opErr error
		removed, opErr = inventory.DeleteHistoryEntry(p, entryID)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	s.undoMu.Lock()
	buf, ok := s.undo[id]
	if !ok {
		buf = &inventory.UndoBuffer{}
		s.undo[id] = buf
	}
	buf.Hold(removed)
	s.undoMu.Unlock()

	return p, nil
}

// errNothingToUndo aborts the mutate before an empty undo reaches the
// store; saving an unchanged row would trip the changed-rows check.
var errNothingToUndo = errors.New("nothing to undo")

// UndoHistoryDelete re-appends the last deleted entry. With nothing
// buffered it returns the product unchanged and never writes.
func (s *ProductService) UndoHistoryDelete(ctx context.Context, id string) (*domain.Product, error) {
	s.undoMu.Lock()
	buf := s.undo[id]
	s.undoMu.Unlock()

	if buf == nil {
		return s.GetProduct(ctx, id)
	}

	p, err := s.mutate(ctx, id, func(p *domain.Product) error {
		s.undoMu.Lock()
		defer s.undoMu.Unlock()
		if !buf.Undo(p) {
			return errNothingToUndo
		}
		return nil
	})
	if errors.Is(err, errNothingToUndo) {
		return s.GetProduct(ctx, id)
	}
	return p, err
}

// StockTotal reads the mirrored total for a loaded product, computing it
// from the ledger when the mirror is cold.
func (s *ProductService) StockTotal(ctx context.Context, p *domain.Product) int {
	total, ok, err := s.cache.GetStockTotal(ctx, p.ID)
	if err == nil && ok {
		return total
	}
	if err != nil {
		s.logger.Warn("stock total read failed", zap.String("product_id", p.ID), zap.Error(err))
	}
	return inventory.TotalQuantity(p)
}

// Summaries exposes the stock-summary queue to the worker pool.
func (s *ProductService) Summaries() <-chan StockSummary {
	return s.summaries
}

func (s *ProductService) Close() {
	close(s.summaries)
}

// mutate runs op against a freshly loaded aggregate and persists the
// result with a compare-and-swap on the loaded updatedAt.
func (s *ProductService) mutate(ctx context.Context, id string, op func(*domain.Product) error) (*domain.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	loadedAt := p.UpdatedAt
	if err := op(p); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, p, loadedAt); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.invalidate(ctx, id)
	return p, nil
}

// mutateStock is mutate plus a summary enqueue for the worker pool.
func (s *ProductService) mutateStock(ctx context.Context, id string, op func(*domain.Product) error) (*domain.Product, error) {
	p, err := s.mutate(ctx, id, op)
	if err != nil {
		return nil, err
	}

	summary := StockSummary{ProductID: p.ID, Total: inventory.TotalQuantity(p)}
	select {
	case s.summaries <- summary:
	default:
		s.logger.Warn("summary queue full, dropping update", zap.String("product_id", p.ID))
	}
	return p, nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("product_id", id), zap.Error(err))
	}
}
