package health

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/folio-service/folio_service/pkg/metrics"
)

// RedisChecker checks Redis connectivity. Redis only backs rate limiting,
// so a failure degrades the service instead of taking it down.
type RedisChecker struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewRedisChecker creates a new Redis health checker
func NewRedisChecker(client redis.UniversalClient, timeout time.Duration) *RedisChecker {
	if timeout == 0 {
		timeout = 3 * time.Second
	}

	return &RedisChecker{
		client:  client,
		timeout: timeout,
	}
}

// Check performs the Redis health check
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pong, err := c.client.Ping(ctx).Result()
	metrics.RecordRedisOperation("ping", time.Since(start).Seconds())
	if err != nil {
		return NewDegradedResult(c.Name(), "ping failed").
			WithDuration(time.Since(start)).
			WithMetadata("error", err.Error())
	}
	if pong != "PONG" {
		return NewDegradedResult(c.Name(), "unexpected ping response").
			WithDuration(time.Since(start))
	}

	result := NewHealthyResult(c.Name(), "connected").
		WithDuration(time.Since(start))

	if stats := c.client.PoolStats(); stats != nil {
		result = result.
			WithMetadata("total_conns", stats.TotalConns).
			WithMetadata("idle_conns", stats.IdleConns).
			WithMetadata("timeouts", stats.Timeouts)
	}

	return result
}

// Name returns the checker name
func (c *RedisChecker) Name() string {
	return "redis"
}
