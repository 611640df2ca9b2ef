package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/folio-service/folio_service/docs"
	"github.com/folio-service/folio_service/internal/api/routes"
	"github.com/folio-service/folio_service/internal/infrastructure/config"
	"github.com/folio-service/folio_service/internal/infrastructure/di"
	"github.com/folio-service/folio_service/pkg/logger"
	"github.com/folio-service/folio_service/pkg/tracing"
	"github.com/folio-service/folio_service/pkg/version"
)

// @title Folio Service API
// @version 1.0
// @description Personal investment portfolio dashboard API

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	defer log.Sync()

	shutdownTracing, err := tracing.Init(context.Background(), tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version.Version,
		Environment:    cfg.Environment,
		SampleRate:     cfg.Tracing.SampleRate,
		Insecure:       cfg.Tracing.Insecure,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing", "error", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	container, err := di.NewContainer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create DI container", "error", err)
	}

	router := routes.SetupRoutes(container)

	if container.SnapshotScheduler != nil {
		if err := container.SnapshotScheduler.Start(); err != nil {
			log.Fatal("Failed to start performance snapshot scheduler", "error", err)
		}
	}

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Environment,
			"store", cfg.Database.Driver,
			"version", version.Get().String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if container.SnapshotScheduler != nil {
		if err := container.SnapshotScheduler.Stop(); err != nil {
			log.Warnw("Error stopping scheduler", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	if err := container.Close(); err != nil {
		log.Warnw("Error closing resources", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Warnw("Error flushing traces", "error", err)
	}

	log.Info("Server exited")
}
