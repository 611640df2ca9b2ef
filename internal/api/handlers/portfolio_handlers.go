package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
)

// PortfolioHandler serves portfolio CRUD and the dashboard summary
type PortfolioHandler struct {
	service *portfolio.Service
	logger  *zap.Logger
}

func NewPortfolioHandler(service *portfolio.Service, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{service: service, logger: logger}
}

// ListPortfolios returns all portfolios, optionally filtered by owner
// @Summary List portfolios
// @Tags portfolios
// @Produce json
// @Param user_id query int false "Owner filter"
// @Success 200 {array} entities.Portfolio
// @Failure 400 {object} entities.ErrorResponse
// @Router /api/v1/portfolios [get]
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	var userID *int64
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondBadRequest(c, "invalid user_id", map[string]string{"user_id": "must be a positive integer"})
			return
		}
		userID = &id
	}

	portfolios, err := h.service.ListPortfolios(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, portfolios)
}

// GetPortfolio returns a portfolio by id
// @Summary Get portfolio
// @Tags portfolios
// @Produce json
// @Param id path int true "Portfolio ID"
// @Success 200 {object} entities.Portfolio
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/portfolios/{id} [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}

	p, err := h.service.GetPortfolio(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreatePortfolio creates a portfolio for an existing user
// @Summary Create portfolio
// @Tags portfolios
// @Accept json
// @Produce json
// @Param request body portfolio.PortfolioInput true "Portfolio"
// @Success 201 {object} entities.Portfolio
// @Failure 400 {object} entities.ErrorResponse
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/portfolios [post]
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	var req portfolio.PortfolioInput
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.service.CreatePortfolio(c.Request.Context(), req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ReplacePortfolio overwrites every field of a portfolio
// @Summary Replace portfolio
// @Tags portfolios
// @Accept json
// @Produce json
// @Param id path int true "Portfolio ID"
// @Param request body portfolio.PortfolioInput true "Portfolio"
// @Success 200 {object} entities.Portfolio
// @Router /api/v1/portfolios/{id} [put]
func (h *PortfolioHandler) ReplacePortfolio(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}
	var req portfolio.PortfolioInput
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.service.ReplacePortfolio(c.Request.Context(), id, req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdatePortfolio applies the fields present in the body
// @Summary Update portfolio
// @Tags portfolios
// @Accept json
// @Produce json
// @Param id path int true "Portfolio ID"
// @Param request body portfolio.PortfolioPatch true "Fields to change"
// @Success 200 {object} entities.Portfolio
// @Router /api/v1/portfolios/{id} [patch]
func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}
	var req portfolio.PortfolioPatch
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdatePortfolio(c.Request.Context(), id, req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeletePortfolio removes a portfolio with its investments and snapshots
// @Summary Delete portfolio
// @Tags portfolios
// @Param id path int true "Portfolio ID"
// @Success 204
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/portfolios/{id} [delete]
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}

	if err := h.service.DeletePortfolio(c.Request.Context(), id); err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary returns the dashboard summary of a portfolio
// @Summary Portfolio summary
// @Description Totals, daily change, YTD return, allocation and performance history
// @Tags portfolios
// @Produce json
// @Param id path int true "Portfolio ID"
// @Success 200 {object} entities.PortfolioSummary
// @Failure 404 {object} entities.ErrorResponse
// @Failure 500 {object} entities.ErrorResponse
// @Router /api/v1/portfolios/{id}/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
