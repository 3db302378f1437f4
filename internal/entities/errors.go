package entities

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConflict           = errors.New("order was changed concurrently")
	ErrForbidden          = errors.New("forbidden")
	ErrSignatureInvalid   = errors.New("invalid signature")
	ErrMissingFields      = errors.New("missing required fields")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected request")
	ErrPartialFailure     = errors.New("stock release partially failed")
	ErrDuplicateOrderCode = errors.New("duplicate order code")
	ErrDuplicateRequest   = errors.New("request with this idempotency key is in progress")
)

// StockError names the item that could not be reserved.
type StockError struct {
	ProductID string
	Name      string
	Requested int
}

func (e *StockError) Error() string {
	name := e.Name
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for %q: requested %d", name, e.Requested)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	if e.From.Terminal() {
		return fmt.Sprintf("order is already %s and cannot become %s", e.From, e.To)
	}
	return fmt.Sprintf("order is %s and cannot become %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
