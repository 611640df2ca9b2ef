package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/folio-service/folio_service/pkg/metrics"
)

// Status is the outcome of a component check
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// gaugeValue maps a status onto folio_component_health
func (s Status) gaugeValue() float64 {
	switch s {
	case StatusHealthy:
		return 1
	case StatusDegraded:
		return 0.5
	default:
		return 0
	}
}

// CheckResult is what one component reports
type CheckResult struct {
	Status    Status                 `json:"status"`
	Component string                 `json:"component"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Checker probes a single dependency of the service
type Checker interface {
	Check(ctx context.Context) CheckResult
	Name() string
}

// HealthChecker runs the registered component checks behind /health and /ready.
// Each check gets its own deadline; a check that does not return in time is
// reported unhealthy without holding up the others.
type HealthChecker struct {
	mu       sync.RWMutex
	checkers []Checker
	timeout  time.Duration
}

// NewHealthChecker creates a checker whose per-component deadline is timeout (10s when zero)
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HealthChecker{timeout: timeout}
}

// Register adds a component check
func (h *HealthChecker) Register(checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, checker)
}

// Components lists the registered component names in registration order
func (h *HealthChecker) Components() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.checkers))
	for _, c := range h.checkers {
		names = append(names, c.Name())
	}
	return names
}

// CheckAll runs every component check concurrently and records each outcome
// on the component health gauge.
func (h *HealthChecker) CheckAll(ctx context.Context) map[string]CheckResult {
	h.mu.RLock()
	checkers := append([]Checker(nil), h.checkers...)
	h.mu.RUnlock()

	results := make(map[string]CheckResult, len(checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			result := h.runWithDeadline(ctx, c)
			metrics.UpdateComponentHealth(c.Name(), result.Status.gaugeValue())

			mu.Lock()
			results[c.Name()] = result
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

func (h *HealthChecker) runWithDeadline(ctx context.Context, c Checker) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan CheckResult, 1)
	go func() { done <- c.Check(ctx) }()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		return NewUnhealthyResult(c.Name(), fmt.Errorf("check timed out after %v", h.timeout)).
			WithDuration(time.Since(start))
	}
}

// Check returns the worst component status together with every result
func (h *HealthChecker) Check(ctx context.Context) (Status, map[string]CheckResult) {
	results := h.CheckAll(ctx)

	overall := StatusHealthy
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy, results
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall, results
}

// Ready reports whether the service can take traffic. Degraded components still serve requests.
func (h *HealthChecker) Ready(ctx context.Context) (bool, map[string]CheckResult) {
	status, results := h.Check(ctx)
	return status != StatusUnhealthy, results
}

// HealthResponse is the /health body
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
	Checks    map[string]CheckResult `json:"checks"`
}

// NewCheckResult builds a result; a non-nil err forces StatusUnhealthy
func NewCheckResult(component string, status Status, message string, err error) CheckResult {
	result := CheckResult{
		Component: component,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		result.Status = StatusUnhealthy
	}
	return result
}

func NewHealthyResult(component, message string) CheckResult {
	return NewCheckResult(component, StatusHealthy, message, nil)
}

func NewUnhealthyResult(component string, err error) CheckResult {
	return NewCheckResult(component, StatusUnhealthy, "", err)
}

func NewDegradedResult(component, message string) CheckResult {
	return NewCheckResult(component, StatusDegraded, message, nil)
}

// WithMetadata returns a copy of r with key set in its metadata
func (r CheckResult) WithMetadata(key string, value interface{}) CheckResult {
	metadata := make(map[string]interface{}, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		metadata[k] = v
	}
	metadata[key] = value
	r.Metadata = metadata
	return r
}

func (r CheckResult) WithDuration(d time.Duration) CheckResult {
	r.Duration = d
	return r
}
