package handler

import "github.com/erp/backoffice/internal/interfaces/http/dto"

// APIResponse is the typed form of dto.Response used in the API annotations.
// Handler tests decode bodies through it as well.
// @Description Envelope returned by every /api/v1 endpoint
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope of a failed request
// @Description Failure envelope; error.code is a stable machine-readable code such as INSUFFICIENT_STOCK
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
