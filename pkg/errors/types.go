package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal server errors
	ErrorTypeInternal ErrorType = "internal"

	// ErrorTypeValidation represents input validation errors
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound represents resource not found errors
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeConflict represents resource conflict errors
	ErrorTypeConflict ErrorType = "conflict"

	// ErrorTypeStore represents an unavailable or failing persistence layer
	ErrorTypeStore ErrorType = "store"

	// ErrorTypeTimeout represents timeout errors
	ErrorTypeTimeout ErrorType = "timeout"
)

// Error codes surfaced to API clients
const (
	CodeInternalError    = "INTERNAL_ERROR"
	CodeValidationFailed = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeStoreFailure     = "STORE_FAILURE"
	CodeTimeout          = "TIMEOUT"
)

// AppError represents an application error with additional context
type AppError struct {
	Type       ErrorType         `json:"type"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Err        error             `json:"-"`
	StatusCode int               `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same type, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Sentinels for errors.Is comparisons
var (
	ErrInternalServer = &AppError{Type: ErrorTypeInternal, Code: CodeInternalError, Message: "An internal server error occurred", StatusCode: http.StatusInternalServerError}
	ErrValidation     = &AppError{Type: ErrorTypeValidation, Code: CodeValidationFailed, Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Type: ErrorTypeNotFound, Code: CodeNotFound, Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConflict       = &AppError{Type: ErrorTypeConflict, Code: CodeConflict, Message: "Resource conflict", StatusCode: http.StatusConflict}
	ErrStoreFailure   = &AppError{Type: ErrorTypeStore, Code: CodeStoreFailure, Message: "Storage unavailable", StatusCode: http.StatusInternalServerError}
)

// New creates a new AppError
func New(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		StatusCode: statusFor(errType),
	}
}

func statusFor(errType ErrorType) int {
	switch errType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetType returns the error type
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetCode returns the error code
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode != 0 {
			return appErr.StatusCode
		}
		return statusFor(appErr.Type)
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsStoreFailure reports whether err is an infrastructure-level storage failure
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreFailure)
}
