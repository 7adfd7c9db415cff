// Package inventory holds the stock ledger, dispatch engine, status
// workflow and audit log. Every operation mutates one in-memory Product
// aggregate synchronously; persistence belongs to the caller.
package inventory

import (
	"fmt"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// AddColor inserts an empty size map for color.
func AddColor(p *domain.Product, color string) error {
	if _, ok := p.Colors[color]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateColor, color)
	}
	if p.Colors == nil {
		p.Colors = make(map[string]domain.SizeMap)
	}
	p.Colors[color] = domain.SizeMap{}
	p.Touch()
	return nil
}

// RemoveColor deletes a color and all its size cells. A missing color is
// an error, consistent with RemoveSize.
func RemoveColor(p *domain.Product, color string) error {
	if _, ok := p.Colors[color]; !ok {
		return fmt.Errorf("color %s: %w", color, domain.ErrNotFound)
	}
	delete(p.Colors, color)
	p.Touch()
	return nil
}

// SetSize inserts or overwrites one ledger cell.
func SetSize(p *domain.Product, color, size string, qty int) error {
	cells, ok := p.Colors[color]
	if !ok {
		return fmt.Errorf("color %s: %w", color, domain.ErrNotFound)
	}
	if size == "" {
		return fmt.Errorf("%w: empty size label", domain.ErrInvalidQuantity)
	}
	if qty < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}
	cells[size] = qty
	p.Touch()
	return nil
}

// RemoveSize deletes one ledger cell.
func RemoveSize(p *domain.Product, color, size string) error {
	cells, ok := p.Colors[color]
	if !ok {
		return fmt.Errorf("color %s: %w", color, domain.ErrNotFound)
	}
	if _, ok := cells[size]; !ok {
		return fmt.Errorf("size %s: %w", size, domain.ErrNotFound)
	}
	delete(cells, size)
	p.Touch()
	return nil
}

// TotalQuantity sums every cell across all colors.
func TotalQuantity(p *domain.Product) int {
	total := 0
	for _, cells := range p.Colors {
		for _, qty := range cells {
			total += qty
		}
	}
	return total
}

// ColorQuantity sums the cells of one color.
func ColorQuantity(p *domain.Product, color string) (int, error) {
	cells, ok := p.Colors[color]
	if !ok {
		return 0, fmt.Errorf("color %s: %w", color, domain.ErrNotFound)
	}
	total := 0
	for _, qty := range cells {
		total += qty
	}
	return total, nil
}
