package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
)

// PerformanceHandler serves the append-only snapshot history of a portfolio
type PerformanceHandler struct {
	service *portfolio.Service
	logger  *zap.Logger
}

func NewPerformanceHandler(service *portfolio.Service, logger *zap.Logger) *PerformanceHandler {
	return &PerformanceHandler{service: service, logger: logger}
}

// ListPerformance returns snapshots in chronological order
// @Summary List performance snapshots
// @Tags performance
// @Produce json
// @Param id path int true "Portfolio ID"
// @Param from query string false "Inclusive lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Inclusive upper bound (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {array} entities.PerformanceSnapshot
// @Failure 400 {object} entities.ErrorResponse
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/portfolios/{id}/performance [get]
func (h *PerformanceHandler) ListPerformance(c *gin.Context) {
	portfolioID, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}
	from, ok := parseTimeQuery(c, "from", false)
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to", true)
	if !ok {
		return
	}

	snapshots, err := h.service.ListPerformance(c.Request.Context(), portfolioID, from, to)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, snapshots)
}

// AppendSnapshot stores an explicit snapshot value
// @Summary Append performance snapshot
// @Tags performance
// @Accept json
// @Produce json
// @Param id path int true "Portfolio ID"
// @Param request body portfolio.SnapshotInput true "Snapshot"
// @Success 201 {object} entities.PerformanceSnapshot
// @Failure 404 {object} entities.ErrorResponse
// @Failure 409 {object} entities.ErrorResponse
// @Router /api/v1/portfolios/{id}/performance [post]
func (h *PerformanceHandler) AppendSnapshot(c *gin.Context) {
	portfolioID, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}
	var req portfolio.SnapshotInput
	if !bindJSON(c, &req) {
		return
	}

	snapshot, err := h.service.AppendSnapshot(c.Request.Context(), portfolioID, req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// RecordSnapshot stores the current valuation total as a snapshot
// @Summary Record current value
// @Tags performance
// @Produce json
// @Param id path int true "Portfolio ID"
// @Success 201 {object} entities.PerformanceSnapshot
// @Failure 404 {object} entities.ErrorResponse
// @Failure 409 {object} entities.ErrorResponse
// @Router /api/v1/portfolios/{id}/performance/record [post]
func (h *PerformanceHandler) RecordSnapshot(c *gin.Context) {
	portfolioID, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}

	snapshot, err := h.service.RecordSnapshot(c.Request.Context(), portfolioID, portfolio.SourceAPI)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}
