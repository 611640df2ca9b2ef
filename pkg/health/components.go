package health

import (
	"context"
	"time"
)

// CircuitBreakerChecker checks circuit breaker state
type CircuitBreakerChecker struct {
	name         string
	stateGetter  func() string
	countsGetter func() map[string]interface{}
}

// NewCircuitBreakerChecker creates a circuit breaker health checker
func NewCircuitBreakerChecker(name string, stateGetter func() string, countsGetter func() map[string]interface{}) *CircuitBreakerChecker {
	return &CircuitBreakerChecker{
		name:         name,
		stateGetter:  stateGetter,
		countsGetter: countsGetter,
	}
}

// Check maps the breaker state onto a health status
func (c *CircuitBreakerChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	state := c.stateGetter()
	result := CheckResult{
		Component: c.name,
		Timestamp: time.Now(),
		Metadata:  c.countsGetter(),
	}
	result = result.WithMetadata("circuit_state", state)

	switch state {
	case "closed":
		result.Status = StatusHealthy
		result.Message = "circuit closed"
	case "half-open":
		result.Status = StatusDegraded
		result.Message = "circuit half-open"
	case "open":
		result.Status = StatusUnhealthy
		result.Message = "circuit open"
	default:
		result.Status = StatusUnhealthy
		result.Message = "unknown circuit state"
	}

	return result.WithDuration(time.Since(start))
}

// Name returns the checker name
func (c *CircuitBreakerChecker) Name() string {
	return c.name
}

// WorkerChecker checks background worker health. A stopped optional worker
// is reported as degraded.
type WorkerChecker struct {
	name      string
	isRunning func() bool
	getStatus func() map[string]interface{}
}

// NewWorkerChecker creates a worker health checker
func NewWorkerChecker(name string, isRunning func() bool, getStatus func() map[string]interface{}) *WorkerChecker {
	return &WorkerChecker{
		name:      name,
		isRunning: isRunning,
		getStatus: getStatus,
	}
}

// Check performs the worker health check
func (c *WorkerChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	running := c.isRunning()
	result := CheckResult{
		Component: c.name,
		Timestamp: time.Now(),
		Metadata:  c.getStatus(),
	}
	result = result.WithMetadata("running", running)

	if running {
		result.Status = StatusHealthy
		result.Message = "worker running"
	} else {
		result.Status = StatusDegraded
		result.Message = "worker not running"
	}

	return result.WithDuration(time.Since(start))
}

// Name returns the checker name
func (c *WorkerChecker) Name() string {
	return c.name
}
