package service

import (
	"errors"
	"fmt"

	"github.com/dentsupply/shop/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")

	ErrVariantRequired    = errors.New("variant required")
	ErrPaymentMismatch    = errors.New("payment order id mismatch")
	ErrVerificationFailed = errors.New("payment verification failed")
)

// InsufficientStockError names the blocking line item of a checkout.
type InsufficientStockError struct {
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d", e.SKU, e.Requested, e.Available)
}

// InvalidTransitionError reports a rejected order status change.
type InvalidTransitionError struct {
	Current   models.OrderStatus
	Attempted models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.Current, e.Attempted)
}
