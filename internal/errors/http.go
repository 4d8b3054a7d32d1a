package errors

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// NewAPIError creates a new APIError with the given parameters
func NewAPIError(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined API errors for common scenarios
var (
	ErrInvalidRequest     = NewAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed   = NewAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrOperationNotFound  = NewAPIError(http.StatusNotFound, "OPERATION_NOT_FOUND", "operation not found")
	ErrInternalServer     = NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrServiceUnavailable = NewAPIError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
)

// statusByCode maps domain error codes to HTTP status codes
var statusByCode = map[Code]int{
	CodeInvalidFormat:     http.StatusBadRequest,
	CodeArchiveRead:       http.StatusUnprocessableEntity,
	CodeNotFound:          http.StatusNotFound,
	CodeAmbiguousInput:    http.StatusConflict,
	CodeUnsupportedFormat: http.StatusBadRequest,
	CodeTypeMismatch:      http.StatusBadRequest,
	CodeShapeMismatch:     http.StatusBadRequest,
}

// FromDomain converts any error into an APIError, preserving the domain
// classification when one is present.
func FromDomain(err error) *APIError {
	var de *DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return &APIError{
			StatusCode: status,
			ErrorCode:  string(de.Code),
			Message:    de.Message,
			Details:    de.Context,
		}
	}
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL_SERVER_ERROR",
		Message:    err.Error(),
	}
}

// ErrorResponse represents a standard error response envelope
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{Success: false, Error: err}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
