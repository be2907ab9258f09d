package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

var ErrorForbidden = errors.New("forbidden")

var ErrorAlreadyCancelled = errors.New("order is already cancelled")

// ValidationError is a malformed-input rejection. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IllegalStateError rejects a lifecycle transition the order's current status
// does not allow. The message carries current vs. required state.
type IllegalStateError struct {
	Current  string
	Required string
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("order cannot be transitioned: current status %q, required %s", e.Current, e.Required)
}

// InsufficientStockError names the offending product and the shortfall.
type InsufficientStockError struct {
	ProductId   int
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d (short %d)",
		e.ProductName, e.Available, e.Requested, e.Shortfall())
}

func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
