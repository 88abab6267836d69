package errors

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"surveyqc/internal/qc"
)

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios.
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", map[string]string{
		"field":   field,
		"message": message,
	})
}

// FromPipelineError maps a QC build failure onto an API error. Missing
// inputs and schema problems are the caller's fault; everything else is
// a server-side failure.
func FromPipelineError(err error) *APIError {
	var pErr *qc.PipelineError
	if !errors.As(err, &pErr) {
		return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
	}
	switch pErr.Kind {
	case qc.ErrKindMissingInput:
		return NewWithDetails(http.StatusBadRequest, "MISSING_REQUIRED_INPUT", pErr.Message, pErr.Error())
	case qc.ErrKindSchema:
		return NewWithDetails(http.StatusUnprocessableEntity, "SCHEMA_MISMATCH", pErr.Message, pErr.Error())
	case qc.ErrKindEncoding:
		return NewWithDetails(http.StatusInternalServerError, "ENCODING_FAILED", pErr.Message, pErr.Error())
	default:
		return NewWithDetails(http.StatusInternalServerError, "PIPELINE_FAILED", pErr.Message, pErr.Error())
	}
}

// ErrorResponse represents a standard error response envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// WriteError renders an API error to the response.
func WriteError(w http.ResponseWriter, r *http.Request, err *APIError) {
	_ = render.Render(w, r, NewErrorResponse(err))
}
