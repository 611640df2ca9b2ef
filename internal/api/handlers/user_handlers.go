package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
)

// UserHandler serves user registration and lookup
type UserHandler struct {
	service *portfolio.Service
	logger  *zap.Logger
}

func NewUserHandler(service *portfolio.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// CreateUser registers a user
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body portfolio.CreateUserInput true "Username and password"
// @Success 201 {object} entities.User
// @Failure 400 {object} entities.ErrorResponse
// @Failure 409 {object} entities.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req portfolio.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser returns a user by id
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} entities.User
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.user_id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user together with everything it owns
// @Summary Delete user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.user_id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUserPortfolios returns the portfolios owned by a user
// @Summary List portfolios of a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} entities.Portfolio
// @Failure 404 {object} entities.ErrorResponse
// @Router /api/v1/users/{id}/portfolios [get]
func (h *UserHandler) ListUserPortfolios(c *gin.Context) {
	id, ok := parseEntityID(c, "folio.user_id")
	if !ok {
		return
	}

	portfolios, err := h.service.ListUserPortfolios(c.Request.Context(), id)
	if err != nil {
		respondAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, portfolios)
}
