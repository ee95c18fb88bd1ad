package models

import (
	"errors"
	"fmt"
)

// Domain errors shared between services and handlers.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
)

// InsufficientStockError reports a stock shortfall for a specific product so
// callers can present the exact deficit.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (available: %d, requested: %d)",
		e.ProductName, e.Available, e.Requested)
}
