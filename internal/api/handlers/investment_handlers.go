package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
)

// InvestmentHandler serves investment CRUD. Every investment in a response
// carries its derived performance figures.
type InvestmentHandler struct {
	service *portfolio.Service
	logger  *zap.Logger
}

func NewInvestmentHandler(service *portfolio.Service, logger *zap.Logger) *InvestmentHandler {
	return &InvestmentHandler{service: service, logger: logger}
}

// ListInvestments returns the valued investments of a portfolio
// @Summary List investments of a portfolio
// @Tags investments
// @Produce json
// @Param id path int true "Portfolio ID"
// @Success 200 {array} entities.InvestmentWithPerformance
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/portfolios/{id}/investments [get]
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	portfolioID, ok := parseEntityID(c, "folio.portfolio_id")
	if !ok {
		return
	}

	investments, err := h.service.ListInvestments(c.Request.Context(), portfolioID)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, investments)
}

// GetInvestment returns one valued investment
// @Summary Get investment
// @Tags investments
// @Produce json
// @Param id path int true "Investment ID"
// @Success 200 {object} entities.InvestmentWithPerformance
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.investment_id")
	if !ok {
		return
	}

	inv, err := h.service.GetInvestment(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// CreateInvestment adds a holding to an existing portfolio
// @Summary Create investment
// @Tags investments
// @Accept json
// @Produce json
// @Param request body portfolio.InvestmentInput true "Investment"
// @Success 201 {object} entities.InvestmentWithPerformance
// @Failure 400 {object} entities.ErrorResponse
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	var req portfolio.InvestmentInput
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.service.CreateInvestment(c.Request.Context(), req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// ReplaceInvestment overwrites every field of an investment
// @Summary Replace investment
// @Tags investments
// @Accept json
// @Produce json
// @Param id path int true "Investment ID"
// @Param request body portfolio.InvestmentInput true "Investment"
// @Success 200 {object} entities.InvestmentWithPerformance
// @Router /api/v1/investments/{id} [put]
func (h *InvestmentHandler) ReplaceInvestment(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.investment_id")
	if !ok {
		return
	}
	var req portfolio.InvestmentInput
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.service.ReplaceInvestment(c.Request.Context(), id, req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// UpdateInvestment applies the fields present in the body
// @Summary Update investment
// @Tags investments
// @Accept json
// @Produce json
// @Param id path int true "Investment ID"
// @Param request body portfolio.InvestmentPatch true "Fields to change"
// @Success 200 {object} entities.InvestmentWithPerformance
// @Router /api/v1/investments/{id} [patch]
func (h *InvestmentHandler) UpdateInvestment(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.investment_id")
	if !ok {
		return
	}
	var req portfolio.InvestmentPatch
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.service.UpdateInvestment(c.Request.Context(), id, req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// DeleteInvestment removes an investment
// @Summary Delete investment
// @Tags investments
// @Param id path int true "Investment ID"
// @Success 204
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.investment_id")
	if !ok {
		return
	}

	if err := h.service.DeleteInvestment(c.Request.Context(), id); err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
