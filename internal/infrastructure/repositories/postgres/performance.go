package postgres

import (
	"context"
	"time"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

const snapshotColumns = `id, portfolio_id, recorded_at, total_value`

func (s *Store) GetPerformanceSnapshots(ctx context.Context, portfolioID int64) ([]*entities.PerformanceSnapshot, error) {
	return s.GetPerformanceSnapshotsBetween(ctx, portfolioID, time.Time{}, time.Time{})
}

// GetPerformanceSnapshotsBetween returns snapshots in [from, to]; a zero bound is open
func (s *Store) GetPerformanceSnapshotsBetween(ctx context.Context, portfolioID int64, from, to time.Time) (_ []*entities.PerformanceSnapshot, err error) {
	ctx, done := s.trace(ctx, "SELECT", "performance_snapshots")
	defer func() { done(err) }()

	query := `
		SELECT ` + snapshotColumns + `
		FROM performance_snapshots
		WHERE portfolio_id = $1
		  AND ($2::timestamptz IS NULL OR recorded_at >= $2)
		  AND ($3::timestamptz IS NULL OR recorded_at <= $3)
		ORDER BY recorded_at, id`

	snapshots := []*entities.PerformanceSnapshot{}
	if err = s.db.SelectContext(ctx, &snapshots, query, portfolioID, nullableTime(from), nullableTime(to)); err != nil {
		return nil, s.storeError(err, "get_performance_snapshots")
	}
	return snapshots, nil
}

func (s *Store) AppendPerformanceSnapshot(ctx context.Context, snapshot *entities.PerformanceSnapshot) (err error) {
	ctx, done := s.trace(ctx, "INSERT", "performance_snapshots")
	defer func() { done(err) }()

	query := `
		INSERT INTO performance_snapshots (portfolio_id, recorded_at, total_value)
		VALUES ($1, $2, $3)
		RETURNING id`

	err = s.db.QueryRowxContext(ctx, query, snapshot.PortfolioID, snapshot.RecordedAt, snapshot.TotalValue).
		Scan(&snapshot.ID)
	switch {
	case isUniqueViolation(err):
		return apperrors.NewConflictError("performance snapshot already recorded at this time").
			WithDetail("recorded_at", snapshot.RecordedAt.UTC().Format(time.RFC3339Nano))
	case isForeignKeyViolation(err):
		return apperrors.NewNotFoundError("portfolio", snapshot.PortfolioID)
	case err != nil:
		return s.storeError(err, "append_performance_snapshot")
	}
	return nil
}
