package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for any tracking lookup miss. It deliberately
	// never distinguishes an unknown invoice from a wrong phone number.
	ErrNotFound = errors.New("order not found")

	// ErrEmptyCart rejects checkout attempts with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrDuplicateInvoice signals a unique-key violation on the invoice
	// number; the checkout service regenerates and retries.
	ErrDuplicateInvoice = errors.New("invoice number already exists")

	// ErrDuplicateCheckout signals a reused idempotency key.
	ErrDuplicateCheckout = errors.New("checkout already submitted")

	// ErrSignature rejects webhook deliveries whose signature cannot be
	// verified. No state changes on this path.
	ErrSignature = errors.New("webhook signature verification failed")
)

// ValidationError reports the first customer field that failed validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failed storage call. The underlying error is kept
// for logs but never shown verbatim to the end user.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PaymentSessionError wraps a failed payment-processor call made after the
// order was persisted. The order stays pending and checkout may be retried.
type PaymentSessionError struct {
	Err error
}

func (e *PaymentSessionError) Error() string {
	return fmt.Sprintf("payment session failure: %v", e.Err)
}

func (e *PaymentSessionError) Unwrap() error { return e.Err }
