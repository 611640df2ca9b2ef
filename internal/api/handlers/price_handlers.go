package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
)

// PriceHandler serves the daily closing prices behind daily change figures
type PriceHandler struct {
	service *portfolio.Service
	logger  *zap.Logger
}

func NewPriceHandler(service *portfolio.Service, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{service: service, logger: logger}
}

// UpsertClose records the close for a symbol on a day
// @Summary Upsert closing price
// @Tags prices
// @Accept json
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Param request body portfolio.PriceCloseInput true "Close"
// @Success 200 {object} entities.PriceClose
// @Failure 400 {object} entities.ErrorResponse
// @Router /api/v1/prices/{symbol}/closes [put]
func (h *PriceHandler) UpsertClose(c *gin.Context) {
	var req portfolio.PriceCloseInput
	if !bindJSON(c, &req) {
		return
	}

	pc, err := h.service.UpsertPriceClose(c.Request.Context(), c.Param("symbol"), req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, pc)
}

// ListCloses returns the recorded closes of a symbol, oldest first
// @Summary List closing prices
// @Tags prices
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Success 200 {array} entities.PriceClose
// @Router /api/v1/prices/{symbol}/closes [get]
func (h *PriceHandler) ListCloses(c *gin.Context) {
	closes, err := h.service.ListPriceCloses(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, closes)
}
