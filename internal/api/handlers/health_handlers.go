package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/pkg/health"
	"github.com/folio-service/folio_service/pkg/version"
)

var startTime = time.Now()

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checker *health.HealthChecker
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *health.HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger,
	}
}

// Health reports every registered component
// @Summary Get application health status
// @Description Performs health checks on the store, Redis, the store breaker and the snapshot worker
// @Tags health
// @Produce json
// @Success 200 {object} health.HealthResponse
// @Failure 503 {object} health.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, checks := h.checker.Check(c.Request.Context())

	statusCode := http.StatusOK
	if status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
		h.logger.Warn("Health check failed", zap.Any("checks", checks))
	}

	c.JSON(statusCode, health.HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   version.Version,
		Checks:    checks,
	})
}

// Ready checks if the application is ready to serve traffic
// @Summary Get application readiness status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ready, checks := h.checker.Ready(c.Request.Context())

	status := "ready"
	statusCode := http.StatusOK
	if !ready {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"timestamp": time.Now(),
		"checks":    checks,
	})
}

// Live checks if the application is alive
// @Summary Get application liveness status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
	})
}
