package errors

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByType(t *testing.T) {
	err := NewNotFoundError("portfolio", 42)
	wrapped := fmt.Errorf("loading summary: %w", err)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsStoreFailure(wrapped))
	assert.Equal(t, http.StatusNotFound, GetStatusCode(wrapped))
	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.Equal(t, "portfolio 42 not found", err.Message)
}

func TestWrapStore(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := WrapStore(cause, "get_portfolio")

	assert.True(t, IsStoreFailure(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get_portfolio", err.Details["operation"])
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(err))
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("invalid investment", map[string]string{"shares": "must be greater than 0"})

	assert.True(t, IsValidation(err))
	assert.Equal(t, http.StatusBadRequest, GetStatusCode(err))
	assert.Equal(t, "must be greater than 0", err.Details["shares"])
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"app error", NewConflictError("dup"), ErrorTypeConflict},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"no rows", sql.ErrNoRows, ErrorTypeNotFound},
		{"conn done", sql.ErrConnDone, ErrorTypeStore},
		{"refused message", stderrors.New("dial tcp: connection refused"), ErrorTypeStore},
		{"unknown", stderrors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestIsCircuitBreakerError(t *testing.T) {
	assert.True(t, IsCircuitBreakerError(WrapStore(stderrors.New("down"), "op")))
	assert.False(t, IsCircuitBreakerError(NewNotFoundError("investment", 1)))
	assert.False(t, IsCircuitBreakerError(NewValidationError("bad")))
	assert.False(t, IsCircuitBreakerError(NewConflictError("dup")))
}

func TestGetType_PlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, GetType(stderrors.New("x")))
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(stderrors.New("x")))
}
