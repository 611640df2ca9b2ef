package errors

import (
	"fmt"
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WrapWithType wraps an error with a specific error type
func WrapWithType(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		Err:        err,
		StatusCode: statusFor(errType),
	}
}

// WrapInternal wraps an internal error
func WrapInternal(err error, message string) *AppError {
	return WrapWithType(err, ErrorTypeInternal, CodeInternalError, message)
}

// WrapStore wraps a persistence failure. The operation is kept as a detail.
func WrapStore(err error, operation string) *AppError {
	appErr := WrapWithType(err, ErrorTypeStore, CodeStoreFailure, "storage operation failed")
	appErr.WithDetail("operation", operation)
	return appErr
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, CodeValidationFailed, message)
}

// NewFieldError creates a validation error carrying per-field details
func NewFieldError(message string, fields map[string]string) *AppError {
	appErr := NewValidationError(message)
	for field, reason := range fields {
		appErr.WithDetail(field, reason)
	}
	return appErr
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrorTypeNotFound, CodeNotFound, fmt.Sprintf("%s %v not found", resource, id))
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return New(ErrorTypeConflict, CodeConflict, message)
}

// NewInternalError creates a new internal error
func NewInternalError(message string) *AppError {
	return New(ErrorTypeInternal, CodeInternalError, message)
}
