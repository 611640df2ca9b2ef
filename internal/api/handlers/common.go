package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
	"github.com/folio-service/folio_service/pkg/tracing"
)

const dateLayout = "2006-01-02"

// getRequestID extracts request ID from context
func getRequestID(c *gin.Context) string {
	if reqID, exists := c.Get("request_id"); exists {
		if id, ok := reqID.(string); ok {
			return id
		}
	}
	return ""
}

// respondError sends a standardized error response
func respondError(c *gin.Context, status int, code, message string, details map[string]string) {
	c.JSON(status, entities.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// respondBadRequest sends a bad request error
func respondBadRequest(c *gin.Context, message string, details map[string]string) {
	respondError(c, http.StatusBadRequest, apperrors.CodeValidationFailed, message, details)
}

// respondAppError translates a service error into its HTTP status and body.
// Server-side failures are logged and recorded on the request span.
func respondAppError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperrors.GetStatusCode(err)
	code := apperrors.GetCode(err)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.ErrInternalServer
	}

	if status >= http.StatusInternalServerError {
		tracing.RecordError(c, err)
		logger.Error("Request failed",
			zap.String("request_id", getRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	respondError(c, status, code, appErr.Message, appErr.Details)
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+name, map[string]string{name: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// parseEntityID reads the :id path parameter and tags the request span with it
func parseEntityID(c *gin.Context, spanAttr string) (int64, bool) {
	id, ok := parseID(c, "id")
	if ok {
		tracing.AddSpanAttributes(c, attribute.Int64(spanAttr, id))
	}
	return id, ok
}

// bindJSON decodes the request body, answering 400 when it is malformed
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request body", map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// parseTimeQuery reads an optional RFC 3339 timestamp or YYYY-MM-DD date query
// parameter. Missing values yield the zero time. With endOfDay a bare date
// covers the whole day.
func parseTimeQuery(c *gin.Context, name string, endOfDay bool) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Microsecond)
		}
		return t, true
	}
	respondBadRequest(c, "invalid "+name, map[string]string{name: "must be RFC 3339 or YYYY-MM-DD"})
	return time.Time{}, false
}
