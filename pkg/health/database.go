package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/folio-service/folio_service/pkg/metrics"
)

// DatabaseChecker checks database connectivity and pool pressure
type DatabaseChecker struct {
	db      *sql.DB
	timeout time.Duration
}

// NewDatabaseChecker creates a new database health checker
func NewDatabaseChecker(db *sql.DB, timeout time.Duration) *DatabaseChecker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &DatabaseChecker{
		db:      db,
		timeout: timeout,
	}
}

// Check performs the database health check
func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return NewUnhealthyResult(c.Name(), err).WithDuration(time.Since(start))
	}

	stats := c.db.Stats()
	metrics.UpdateDatabaseConnections(stats.OpenConnections, stats.Idle, stats.InUse)

	checkResult := NewHealthyResult(c.Name(), "connected").
		WithDuration(time.Since(start)).
		WithMetadata("open_connections", stats.OpenConnections).
		WithMetadata("in_use", stats.InUse).
		WithMetadata("idle", stats.Idle).
		WithMetadata("max_open_connections", stats.MaxOpenConnections)

	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections)
		checkResult = checkResult.WithMetadata("pool_utilization", utilization)

		if utilization > 0.8 {
			checkResult.Status = StatusDegraded
			checkResult.Message = "high connection pool utilization"
		}
	}

	return checkResult
}

// Name returns the checker name
func (c *DatabaseChecker) Name() string {
	return "database"
}

// Pinger is anything that can confirm it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker checks the entity store through its Ping method. It covers
// backends that have no connection pool to inspect.
type StoreChecker struct {
	name    string
	store   Pinger
	timeout time.Duration
}

// NewStoreChecker creates a store health checker
func NewStoreChecker(name string, store Pinger, timeout time.Duration) *StoreChecker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &StoreChecker{name: name, store: store, timeout: timeout}
}

// Check pings the store
func (c *StoreChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		return NewUnhealthyResult(c.name, err).WithDuration(time.Since(start))
	}
	return NewHealthyResult(c.name, "reachable").WithDuration(time.Since(start))
}

// Name returns the checker name
func (c *StoreChecker) Name() string {
	return c.name
}
