package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/folio-service/folio_service/internal/api/handlers"
	"github.com/folio-service/folio_service/internal/api/middleware"
	"github.com/folio-service/folio_service/internal/infrastructure/di"
	"github.com/folio-service/folio_service/pkg/tracing"
)

const maxRequestBytes = 1 << 20

// SetupRoutes configures all application routes
func SetupRoutes(container *di.Container) *gin.Engine {
	router := gin.New()
	cfg := container.Config

	// Global middleware - order matters
	router.Use(tracing.HTTPMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger(container.Logger))
	router.Use(middleware.Recovery(container.Logger))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	healthHandler := handlers.NewHealthHandler(container.Health, container.ZapLog)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/version", handlers.VersionHandler())
	router.GET("/metrics", handlers.Metrics())

	// Swagger documentation (development only)
	if cfg.Environment != "production" {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	service := container.PortfolioService
	userHandler := handlers.NewUserHandler(service, container.ZapLog)
	portfolioHandler := handlers.NewPortfolioHandler(service, container.ZapLog)
	investmentHandler := handlers.NewInvestmentHandler(service, container.ZapLog)
	performanceHandler := handlers.NewPerformanceHandler(service, container.ZapLog)
	priceHandler := handlers.NewPriceHandler(service, container.ZapLog)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.RateLimit, container.Redis, container.ZapLog))
	v1.Use(middleware.RequestSizeLimit(maxRequestBytes))
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.GET("/:id/portfolios", userHandler.ListUserPortfolios)
		}

		portfolios := v1.Group("/portfolios")
		{
			portfolios.GET("", portfolioHandler.ListPortfolios)
			portfolios.POST("", portfolioHandler.CreatePortfolio)
			portfolios.GET("/:id", portfolioHandler.GetPortfolio)
			portfolios.PUT("/:id", portfolioHandler.ReplacePortfolio)
			portfolios.PATCH("/:id", portfolioHandler.UpdatePortfolio)
			portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)
			portfolios.GET("/:id/summary", portfolioHandler.GetSummary)
			portfolios.GET("/:id/investments", investmentHandler.ListInvestments)
			portfolios.GET("/:id/performance", performanceHandler.ListPerformance)
			portfolios.POST("/:id/performance", performanceHandler.AppendSnapshot)
			portfolios.POST("/:id/performance/record", performanceHandler.RecordSnapshot)
		}

		investments := v1.Group("/investments")
		{
			investments.POST("", investmentHandler.CreateInvestment)
			investments.GET("/:id", investmentHandler.GetInvestment)
			investments.PUT("/:id", investmentHandler.ReplaceInvestment)
			investments.PATCH("/:id", investmentHandler.UpdateInvestment)
			investments.DELETE("/:id", investmentHandler.DeleteInvestment)
		}

		prices := v1.Group("/prices")
		{
			prices.GET("/:symbol/closes", priceHandler.ListCloses)
			prices.PUT("/:symbol/closes", priceHandler.UpsertClose)
		}
	}

	return router
}
