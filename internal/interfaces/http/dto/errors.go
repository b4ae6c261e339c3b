package dto

import (
	"net/http"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Error codes returned in the error envelope. Domain codes are passed
// through unchanged so clients see the same vocabulary as the ledger.
const (
	ErrCodeNotFound             = shared.CodeNotFound
	ErrCodePaymentNotFound      = shared.CodePaymentNotFound
	ErrCodeInvalidInput         = shared.CodeInvalidInput
	ErrCodeInvalidState         = shared.CodeInvalidState
	ErrCodeInvalidQuantity      = shared.CodeInvalidQuantity
	ErrCodeInsufficientStock    = shared.CodeInsufficientStock
	ErrCodePaymentAmountInvalid = shared.CodePaymentAmountInvalid
	ErrCodeConcurrencyConflict  = shared.CodeConcurrencyConflict
	ErrCodeStorageFailure       = shared.CodeStorageFailure
)

// Transport error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeTenantRequired  = "TENANT_REQUIRED"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
	ErrCodeRequestInFlight = "REQUEST_IN_FLIGHT"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Not found -> 404
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodePaymentNotFound: http.StatusNotFound,
	ErrCodeRouteNotFound:   http.StatusNotFound,

	// Invariant violations -> 422 Unprocessable Entity
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeInvalidQuantity:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	ErrCodePaymentAmountInvalid: http.StatusUnprocessableEntity,

	// Lost race on the record version -> 409
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeRequestInFlight:     http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeTenantRequired: http.StatusBadRequest,

	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeStorageFailure: http.StatusInternalServerError,
	ErrCodeInternal:       http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
