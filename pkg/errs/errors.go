package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrForbidden      = errors.New("forbidden")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrExceedsStock   = errors.New("quantity exceeds available stock")
	ErrAlreadyPaid    = errors.New("order is already paid")
	ErrUnknownGateway = errors.New("payment gateway is not available")
	ErrGatewayFailure = errors.New("payment gateway request failed")
)

// InsufficientStockError names the item that could not be reserved and how
// much stock was left at the time the row lock was held.
type InsufficientStockError struct {
	ItemID    string
	ItemTitle string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %q: available %d, requested %d",
		e.ItemTitle, e.Available, e.Requested)
}

// IsInsufficientStock reports whether err is a stock reservation failure and
// returns the typed error for callers that need the item detail.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var target *InsufficientStockError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
