package di

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	domainrepos "github.com/folio-service/folio_service/internal/domain/repositories"
	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
	"github.com/folio-service/folio_service/internal/domain/services/summary"
	"github.com/folio-service/folio_service/internal/infrastructure/config"
	"github.com/folio-service/folio_service/internal/infrastructure/database"
	"github.com/folio-service/folio_service/internal/infrastructure/repositories"
	"github.com/folio-service/folio_service/internal/infrastructure/repositories/memory"
	"github.com/folio-service/folio_service/internal/infrastructure/repositories/postgres"
	"github.com/folio-service/folio_service/internal/workers/performance_snapshots"
	"github.com/folio-service/folio_service/pkg/circuitbreaker"
	"github.com/folio-service/folio_service/pkg/health"
	"github.com/folio-service/folio_service/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB // nil with the memory driver
	Redis  redis.UniversalClient
	Logger *logger.Logger
	ZapLog *zap.Logger

	Store   domainrepos.Store
	Breaker *repositories.BreakerStore // nil when the breaker is disabled

	Engine            *summary.Engine
	PortfolioService  *portfolio.Service
	SnapshotScheduler *performance_snapshots.Scheduler // nil when snapshots are disabled

	Health *health.HealthChecker
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, log *logger.Logger) (*Container, error) {
	zapLog := log.Zap()

	c := &Container{
		Config: cfg,
		Logger: log,
		ZapLog: zapLog,
	}

	if err := c.initializeStore(); err != nil {
		return nil, err
	}

	if cfg.RateLimit.RedisEnabled {
		c.Redis = newRedisClient(cfg.Redis)
	}

	if err := c.initializeDomainServices(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize domain services: %w", err)
	}

	c.initializeHealthChecks()

	return c, nil
}

// initializeStore selects the backend and wraps it with the circuit breaker
func (c *Container) initializeStore() error {
	var store domainrepos.Store

	switch c.Config.Database.Driver {
	case config.DriverMemory:
		c.ZapLog.Warn("Using in-memory store; data is lost on restart")
		store = memory.NewStore(c.ZapLog)
	default:
		db, err := database.NewConnection(c.Config.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.DB = db
		slowQuery := time.Duration(c.Config.Database.SlowQueryMs) * time.Millisecond
		store = postgres.NewStore(db, c.ZapLog, slowQuery)
	}

	if c.Config.Breaker.Enabled {
		c.Breaker = repositories.NewBreakerStore(store, "entity_store", circuitbreaker.Config{
			MaxRequests: uint32(c.Config.Breaker.MaxRequests),
			Interval:    time.Duration(c.Config.Breaker.Interval) * time.Second,
			Timeout:     time.Duration(c.Config.Breaker.Timeout) * time.Second,
		}, c.ZapLog)
		store = c.Breaker
	}

	c.Store = store
	return nil
}

// initializeDomainServices builds the engine, the use-case service and the snapshot worker
func (c *Container) initializeDomainServices() error {
	c.Engine = summary.NewEngine(c.Store, c.Store, c.ZapLog)
	c.PortfolioService = portfolio.NewService(c.Store, c.Engine, c.ZapLog)

	if !c.Config.Snapshots.Enabled {
		return nil
	}

	schedulerConfig := performance_snapshots.DefaultConfig()
	if c.Config.Snapshots.Schedule != "" {
		schedulerConfig.Schedule = c.Config.Snapshots.Schedule
	}
	scheduler, err := performance_snapshots.NewScheduler(c.PortfolioService, schedulerConfig, c.ZapLog)
	if err != nil {
		return fmt.Errorf("failed to create snapshot scheduler: %w", err)
	}
	c.SnapshotScheduler = scheduler
	return nil
}

func (c *Container) initializeHealthChecks() {
	c.Health = health.NewHealthChecker(5 * time.Second)

	if c.DB != nil {
		c.Health.Register(health.NewDatabaseChecker(c.DB.DB, 5*time.Second))
	} else {
		c.Health.Register(health.NewStoreChecker("store", c.Store, 5*time.Second))
	}
	if c.Redis != nil {
		c.Health.Register(health.NewRedisChecker(c.Redis, 3*time.Second))
	}
	if c.Breaker != nil {
		c.Health.Register(health.NewCircuitBreakerChecker("store_breaker", c.Breaker.State, c.Breaker.Counts))
	}
	if c.SnapshotScheduler != nil {
		c.Health.Register(health.NewWorkerChecker("performance_snapshots", c.SnapshotScheduler.IsRunning, c.SnapshotScheduler.Status))
	}

	c.ZapLog.Info("Health checks registered", zap.Strings("components", c.Health.Components()))
}

func newRedisClient(cfg config.RedisConfig) redis.UniversalClient {
	if cfg.URL != "" {
		if opts, err := redis.ParseURL(cfg.URL); err == nil {
			return redis.NewClient(opts)
		}
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Close releases the store and the Redis client
func (c *Container) Close() error {
	var firstErr error
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ping verifies the store is reachable at startup
func (c *Container) Ping(ctx context.Context) error {
	return c.Store.Ping(ctx)
}
