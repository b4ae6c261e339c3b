package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that wrapped copies with a
// different message still compare equal to the sentinel
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInvalidState         = "INVALID_STATE"
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodePaymentAmountInvalid = "PAYMENT_AMOUNT_INVALID"
	CodePaymentNotFound      = "PAYMENT_NOT_FOUND"
	CodeConcurrencyConflict  = "CONCURRENCY_CONFLICT"
	CodeStorageFailure       = "STORAGE_FAILURE"
)

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput         = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState         = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInvalidQuantity      = NewDomainError(CodeInvalidQuantity, "Invalid quantity")
	ErrInsufficientStock    = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrPaymentAmountInvalid = NewDomainError(CodePaymentAmountInvalid, "Payment amount must be positive")
	ErrPaymentNotFound      = NewDomainError(CodePaymentNotFound, "Payment not found")
	ErrConcurrencyConflict  = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)

// invariantCodes are rejected before any write and must not be retried
var invariantCodes = map[string]struct{}{
	CodeInsufficientStock:    {},
	CodePaymentAmountInvalid: {},
	CodeInvalidQuantity:      {},
	CodeInvalidState:         {},
}

// IsInvariantViolation reports whether err is a domain rule rejection
func IsInvariantViolation(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	_, ok := invariantCodes[de.Code]
	return ok
}

// IsNotFound reports whether err means the record does not exist
func IsNotFound(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == CodeNotFound || de.Code == CodePaymentNotFound
}

// StorageError wraps a failure of the underlying record store.
// The cause is kept for logging and errors.Is checks.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err, returning nil for a nil err
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageFailure reports whether err came from the record store
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
