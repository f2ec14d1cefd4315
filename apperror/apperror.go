// Package apperror defines the failure kinds surfaced by the stores and
// services. Callers match kinds with errors.Is and details with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("could not validate credentials")
	ErrInactiveAccount = errors.New("inactive account")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)

// Error attaches a client-facing message to one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// ProductNotFoundError is returned when an order references a missing product.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrNotFound }

// ProductInactiveError is returned when an order references a product that is not for sale.
type ProductInactiveError struct {
	ProductID uint
	Name      string
}

func (e *ProductInactiveError) Error() string {
	return fmt.Sprintf("product '%s' is not active for purchase", e.Name)
}

func (e *ProductInactiveError) Is(target error) bool { return target == ErrValidation }

// InsufficientStockError reports the stock left against the quantity requested.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product '%s'. available: %d, requested: %d",
		e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrValidation }

// InvalidTransitionError is returned when strict status transitions reject a change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from '%s' to '%s'", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrValidation }
