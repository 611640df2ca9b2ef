// Package repositories holds the Entity Store backends and the decorators shared by them.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	domainrepos "github.com/folio-service/folio_service/internal/domain/repositories"
	"github.com/folio-service/folio_service/pkg/circuitbreaker"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

var _ domainrepos.Store = (*BreakerStore)(nil)

// BreakerStore guards a Store with a circuit breaker. Once the breaker opens, calls fail
// fast with a store failure instead of reaching the backend. Domain outcomes such as
// not found or conflict do not count as failures.
type BreakerStore struct {
	next    domainrepos.Store
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewBreakerStore wraps next with a breaker named name
func NewBreakerStore(next domainrepos.Store, name string, cfg circuitbreaker.Config, logger *zap.Logger) *BreakerStore {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || !apperrors.IsCircuitBreakerError(err)
	}
	return &BreakerStore{
		next:    next,
		breaker: circuitbreaker.New(name, cfg),
		logger:  logger,
	}
}

// State reports the breaker state for health checks
func (b *BreakerStore) State() string {
	return b.breaker.State().String()
}

// Counts reports the breaker counters for health checks
func (b *BreakerStore) Counts() map[string]interface{} {
	c := b.breaker.Counts()
	return map[string]interface{}{
		"requests":              c.Requests,
		"total_failures":        c.TotalFailures,
		"consecutive_failures":  c.ConsecutiveFailures,
		"consecutive_successes": c.ConsecutiveSuccesses,
	}
}

func guard[T any](b *BreakerStore, operation string, fn func() (T, error)) (T, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.logger.Warn("Store circuit breaker rejected call",
				zap.String("operation", operation),
				zap.String("state", b.State()))
			return zero, apperrors.WrapStore(err, operation)
		}
		return zero, err
	}
	return out.(T), nil
}

func guardErr(b *BreakerStore, operation string, fn func() error) error {
	_, err := guard(b, operation, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (b *BreakerStore) Ping(ctx context.Context) error {
	return guardErr(b, "ping", func() error { return b.next.Ping(ctx) })
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}

func (b *BreakerStore) CreateUser(ctx context.Context, user *entities.User) error {
	return guardErr(b, "create_user", func() error { return b.next.CreateUser(ctx, user) })
}

func (b *BreakerStore) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	return guard(b, "get_user", func() (*entities.User, error) { return b.next.GetUser(ctx, id) })
}

func (b *BreakerStore) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return guard(b, "get_user_by_username", func() (*entities.User, error) { return b.next.GetUserByUsername(ctx, username) })
}

func (b *BreakerStore) DeleteUser(ctx context.Context, id int64) error {
	return guardErr(b, "delete_user", func() error { return b.next.DeleteUser(ctx, id) })
}

func (b *BreakerStore) ListPortfolios(ctx context.Context) ([]*entities.Portfolio, error) {
	return guard(b, "list_portfolios", func() ([]*entities.Portfolio, error) { return b.next.ListPortfolios(ctx) })
}

func (b *BreakerStore) ListPortfoliosByUser(ctx context.Context, userID int64) ([]*entities.Portfolio, error) {
	return guard(b, "list_portfolios_by_user", func() ([]*entities.Portfolio, error) { return b.next.ListPortfoliosByUser(ctx, userID) })
}

func (b *BreakerStore) GetPortfolio(ctx context.Context, id int64) (*entities.Portfolio, error) {
	return guard(b, "get_portfolio", func() (*entities.Portfolio, error) { return b.next.GetPortfolio(ctx, id) })
}

func (b *BreakerStore) CreatePortfolio(ctx context.Context, portfolio *entities.Portfolio) error {
	return guardErr(b, "create_portfolio", func() error { return b.next.CreatePortfolio(ctx, portfolio) })
}

func (b *BreakerStore) UpdatePortfolio(ctx context.Context, portfolio *entities.Portfolio) error {
	return guardErr(b, "update_portfolio", func() error { return b.next.UpdatePortfolio(ctx, portfolio) })
}

func (b *BreakerStore) DeletePortfolio(ctx context.Context, id int64) error {
	return guardErr(b, "delete_portfolio", func() error { return b.next.DeletePortfolio(ctx, id) })
}

func (b *BreakerStore) GetInvestments(ctx context.Context, portfolioID int64) ([]*entities.Investment, error) {
	return guard(b, "get_investments", func() ([]*entities.Investment, error) { return b.next.GetInvestments(ctx, portfolioID) })
}

func (b *BreakerStore) GetInvestment(ctx context.Context, id int64) (*entities.Investment, error) {
	return guard(b, "get_investment", func() (*entities.Investment, error) { return b.next.GetInvestment(ctx, id) })
}

func (b *BreakerStore) CreateInvestment(ctx context.Context, investment *entities.Investment) error {
	return guardErr(b, "create_investment", func() error { return b.next.CreateInvestment(ctx, investment) })
}

func (b *BreakerStore) UpdateInvestment(ctx context.Context, investment *entities.Investment) error {
	return guardErr(b, "update_investment", func() error { return b.next.UpdateInvestment(ctx, investment) })
}

func (b *BreakerStore) DeleteInvestment(ctx context.Context, id int64) error {
	return guardErr(b, "delete_investment", func() error { return b.next.DeleteInvestment(ctx, id) })
}

func (b *BreakerStore) GetPerformanceSnapshots(ctx context.Context, portfolioID int64) ([]*entities.PerformanceSnapshot, error) {
	return guard(b, "get_performance_snapshots", func() ([]*entities.PerformanceSnapshot, error) {
		return b.next.GetPerformanceSnapshots(ctx, portfolioID)
	})
}

func (b *BreakerStore) GetPerformanceSnapshotsBetween(ctx context.Context, portfolioID int64, from, to time.Time) ([]*entities.PerformanceSnapshot, error) {
	return guard(b, "get_performance_snapshots_between", func() ([]*entities.PerformanceSnapshot, error) {
		return b.next.GetPerformanceSnapshotsBetween(ctx, portfolioID, from, to)
	})
}

func (b *BreakerStore) AppendPerformanceSnapshot(ctx context.Context, snapshot *entities.PerformanceSnapshot) error {
	return guardErr(b, "append_performance_snapshot", func() error { return b.next.AppendPerformanceSnapshot(ctx, snapshot) })
}

func (b *BreakerStore) UpsertPriceClose(ctx context.Context, close *entities.PriceClose) error {
	return guardErr(b, "upsert_price_close", func() error { return b.next.UpsertPriceClose(ctx, close) })
}

func (b *BreakerStore) GetPriceCloses(ctx context.Context, symbol string) ([]*entities.PriceClose, error) {
	return guard(b, "get_price_closes", func() ([]*entities.PriceClose, error) { return b.next.GetPriceCloses(ctx, symbol) })
}

func (b *BreakerStore) PreviousCloses(ctx context.Context, symbols []string, before time.Time) (map[string]entities.PriceClose, error) {
	return guard(b, "previous_closes", func() (map[string]entities.PriceClose, error) {
		return b.next.PreviousCloses(ctx, symbols, before)
	})
}
