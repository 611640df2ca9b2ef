package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrMaxRetriesExceeded wraps the last error once a policy is exhausted
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// Policy defines retry behavior
type Policy struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	Jitter         float64
	// RetryableFunc decides whether an error is worth another attempt; nil retries everything
	RetryableFunc func(error) bool
}

var (
	// PolicyDatabaseConnect is used while waiting for the database at startup
	PolicyDatabaseConnect = Policy{
		MaxRetries:     5,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		Jitter:         0.1,
	}

	// PolicyNoRetry runs the function exactly once
	PolicyNoRetry = Policy{}
)

// Backoff returns the delay before the given retry attempt (1-based)
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt <= 0 || p.InitialBackoff <= 0 {
		return 0
	}

	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	backoff := float64(p.InitialBackoff) * math.Pow(multiplier, float64(attempt-1))
	if p.MaxBackoff > 0 && backoff > float64(p.MaxBackoff) {
		backoff = float64(p.MaxBackoff)
	}

	if p.Jitter > 0 {
		jitter := backoff * p.Jitter
		backoff = backoff - jitter + rand.Float64()*2*jitter
	}

	return time.Duration(backoff)
}

func (p Policy) retryable(err error) bool {
	if p.RetryableFunc == nil {
		return true
	}
	return p.RetryableFunc(err)
}

// Do runs fn until it succeeds, returns a non-retryable error, the policy is exhausted
// or ctx is done.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(p.Backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, errors.Join(ctx.Err(), lastErr))
			case <-timer.C:
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !p.retryable(lastErr) {
			return lastErr
		}
	}

	if p.MaxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetriesExceeded, p.MaxRetries+1, lastErr)
}
