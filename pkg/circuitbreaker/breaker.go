package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/folio-service/folio_service/pkg/metrics"
)

type Config struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// IsSuccessful decides which errors count as failures; nil counts every error
	IsSuccessful func(err error) bool
}

func DefaultConfig() Config {
	return Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
	}
}

func New(name string, cfg Config) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:         name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateCircuitBreakerState(name, StateValue(to))
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// StateValue maps a breaker state to the gauge encoding (0=closed, 1=open, 2=half-open)
func StateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
