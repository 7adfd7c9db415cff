package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Dispatch withdraws stock for one or more sizes of a single color and
// appends one history entry per size.
//
// The whole request is validated before anything is decremented: if any
// size is missing or short on stock, the ledger and history are left
// untouched. Sizes are applied in sorted order so the appended entries
// have a deterministic sequence.
func Dispatch(p *domain.Product, color string, requests map[string]int) ([]domain.HistoryEntry, error) {
	sizes := make([]string, 0, len(requests))
	for size, qty := range requests {
		if qty > 0 {
			sizes = append(sizes, size)
		}
	}
	if len(sizes) == 0 {
		return nil, domain.ErrEmptyDispatch
	}
	sort.Strings(sizes)

	cells, ok := p.Colors[color]
	if !ok {
		return nil, fmt.Errorf("color %s: %w", color, domain.ErrNotFound)
	}
	for _, size := range sizes {
		available, ok := cells[size]
		if !ok {
			return nil, fmt.Errorf("size %s: %w", size, domain.ErrNotFound)
		}
		if requests[size] > available {
			return nil, &domain.InsufficientStockError{
				Size:      size,
				Requested: requests[size],
				Available: available,
			}
		}
	}

	now := time.Now()
	entries := make([]domain.HistoryEntry, 0, len(sizes))
	for _, size := range sizes {
		cells[size] -= requests[size]
		entries = append(entries, domain.HistoryEntry{
			ID:        uuid.New().String(),
			Type:      domain.EntryTypeDispatch,
			Color:     color,
			Size:      size,
			Qty:       requests[size],
			Remaining: cells[size],
			Timestamp: now,
		})
	}
	p.History = append(p.History, entries...)
	p.UpdatedAt = now

	return entries, nil
}
