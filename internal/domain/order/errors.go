package order

import (
	"errors"
	"fmt"
)

var (
	ErrMissingProduct  = errors.New("product is required")
	ErrInvalidQuantity = errors.New("quantity must be at least one")
	ErrInvalidSize     = errors.New("size must be small, medium or big")
	ErrEmptyItems      = errors.New("order must contain at least one item")

	// ErrUnresolvedIdentity is returned when id/created of an order is read
	// before the store has assigned them. Hitting it means a code path read
	// the order outside its transaction, not a user-facing condition.
	ErrUnresolvedIdentity = errors.New("order identity is not resolved yet")
)

// NotFoundError báo hiệu order không tồn tại trong store.
type NotFoundError struct {
	OrderID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order with id %s not found", e.OrderID)
}

// InvalidActionError signals a state transition forbidden by the current
// order status.
type InvalidActionError struct {
	OrderID string
	Action  string
	Status  Status
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("cannot %s order %s in status %s", e.Action, e.OrderID, e.Status)
}

// IntegrationError signals a failed call to a remote collaborator
// (kitchen or payments).
type IntegrationError struct {
	Service string
	OrderID string
	Err     error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%s call failed for order %s: %v", e.Service, e.OrderID, e.Err)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}
