package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

var (
	// EntityMutationsTotal counts store writes by entity and action
	EntityMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_entity_mutations_total",
			Help: "Total number of entity create, update and delete operations",
		},
		[]string{"entity", "action", "outcome"},
	)

	// SnapshotsRecordedTotal counts performance snapshots written by the recorder
	SnapshotsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_snapshots_recorded_total",
			Help: "Total number of performance snapshots recorded",
		},
		[]string{"source", "outcome"}, // source: api, scheduler
	)

	// SnapshotRunDuration tracks how long a full scheduled snapshot run takes
	SnapshotRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_snapshot_run_duration_seconds",
			Help:    "Duration of a scheduled snapshot run across all portfolios",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	// PriceClosesUpserted counts closing prices written
	PriceClosesUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_price_closes_upserted_total",
			Help: "Total number of closing prices written",
		},
	)
)

// RecordMutation records an entity write
func RecordMutation(entity, action string, err error) {
	EntityMutationsTotal.WithLabelValues(entity, action, outcome(err)).Inc()
}

// RecordSnapshot records one snapshot write
func RecordSnapshot(source string, err error) {
	SnapshotsRecordedTotal.WithLabelValues(source, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.IsNotFound(err):
		return "not_found"
	case apperrors.IsValidation(err):
		return "invalid"
	case apperrors.IsConflict(err):
		return "conflict"
	default:
		return "error"
	}
}
