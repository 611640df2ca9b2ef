package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalLimiter is an in-process token bucket per key
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows requestsPerMinute per key with the given burst
func NewLocalLimiter(requestsPerMinute, burst int) *LocalLimiter {
	if burst <= 0 {
		burst = requestsPerMinute
	}
	return &LocalLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// Allow takes one token from the key's bucket
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdleLocked(now)
	return l.bucketLocked(key, now).AllowN(now, 1), nil
}

// GetRemaining reports the whole tokens left in the key's bucket
func (l *LocalLimiter) GetRemaining(_ context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tokens := l.bucketLocked(key, l.now()).TokensAt(l.now())
	if tokens < 0 {
		return 0, nil
	}
	return int64(tokens), nil
}

func (l *LocalLimiter) bucketLocked(key string, now time.Time) *rate.Limiter {
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (l *LocalLimiter) evictIdleLocked(now time.Time) {
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
}
