package errors

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strings"
	"syscall"
)

// ClassifyError classifies an error for circuit breaker and response logic
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}

	// Check if it's already an AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	// Context errors
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorTypeInternal
	}

	// Database errors
	if errors.Is(err, sql.ErrNoRows) {
		return ErrorTypeNotFound
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return ErrorTypeStore
	}

	// Network errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorTypeTimeout
		}
		return ErrorTypeStore
	}

	// System call errors
	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED:
			return ErrorTypeStore
		case syscall.ETIMEDOUT:
			return ErrorTypeTimeout
		}
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "broken pipe") {
		return ErrorTypeStore
	}

	return ErrorTypeInternal
}

// IsCircuitBreakerError determines if an error should trip the circuit breaker.
// Domain outcomes (not found, validation, conflict) never count as failures.
func IsCircuitBreakerError(err error) bool {
	switch ClassifyError(err) {
	case ErrorTypeStore, ErrorTypeTimeout, ErrorTypeInternal:
		return true
	default:
		return false
	}
}
