package database

import (
	"time"

	"go.uber.org/zap"

	"github.com/folio-service/folio_service/pkg/metrics"
)

// QueryObserver records query latency and logs queries slower than a threshold
type QueryObserver struct {
	logger    *zap.Logger
	threshold time.Duration
}

func NewQueryObserver(logger *zap.Logger, threshold time.Duration) *QueryObserver {
	return &QueryObserver{
		logger:    logger,
		threshold: threshold,
	}
}

// Observe is meant to be deferred: defer o.Observe("select", "portfolios", time.Now())
func (o *QueryObserver) Observe(operation, table string, start time.Time) {
	duration := time.Since(start)
	metrics.RecordDatabaseQuery(operation, table, duration.Seconds())

	if o.threshold > 0 && duration > o.threshold {
		o.logger.Warn("Slow query detected",
			zap.String("operation", operation),
			zap.String("table", table),
			zap.Duration("duration", duration),
			zap.Duration("threshold", o.threshold),
		)
	}
}
