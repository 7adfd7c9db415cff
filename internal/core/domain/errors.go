package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateColor    = errors.New("color already exists")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrEmptyDispatch     = errors.New("nothing to dispatch")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("role not authorized")
)

// InsufficientStockError names the first size whose requested quantity
// exceeds the available stock.
type InsufficientStockError struct {
	Size      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot dispatch %d from size %s: only %d available", e.Requested, e.Size, e.Available)
}
