package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Handlers use these instead of hardcoded strings.
const (
	// Validation (400)
	ErrCodeValidationInvalidLat       ErrorCode = "validation_invalid_latitude"
	ErrCodeValidationInvalidLng       ErrorCode = "validation_invalid_longitude"
	ErrCodeValidationInvalidSpeed     ErrorCode = "validation_invalid_speed"
	ErrCodeValidationInvalidDuration  ErrorCode = "validation_invalid_duration"
	ErrCodeValidationInvalidDirection ErrorCode = "validation_invalid_direction"
	ErrCodeValidationMissingField     ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidArea      ErrorCode = "validation_invalid_area"

	// Not Found (404)
	ErrCodeNotFoundEvent ErrorCode = "not_found_event"
	ErrCodeNotFoundArea  ErrorCode = "not_found_area"

	// State (409)
	ErrCodeStateTransition ErrorCode = "state_transition_rejected"

	// Collaborators (502)
	ErrCodeUpstreamArea     ErrorCode = "upstream_area_unavailable"
	ErrCodeUpstreamPosition ErrorCode = "upstream_position_unavailable"

	// Internal (500)
	ErrCodeInternalStore      ErrorCode = "internal_store_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound
	case c == ErrCodeStateTransition:
		return http.StatusConflict
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the standard application error type. Domain and handler
// errors are expressed as AppError to enable consistent formatting, HTTP
// status mapping and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
