// Package postgres is the PostgreSQL Entity Store. The schema lives in the embedded
// migrations of the database package.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/repositories"
	"github.com/folio-service/folio_service/internal/infrastructure/database"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
	"github.com/folio-service/folio_service/pkg/tracing"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"

	dayLayout = "2006-01-02"
)

var _ repositories.Store = (*Store)(nil)

// Store implements repositories.Store on PostgreSQL
type Store struct {
	db       *sqlx.DB
	logger   *zap.Logger
	observer *database.QueryObserver
}

// NewStore creates a new PostgreSQL store
func NewStore(db *sqlx.DB, logger *zap.Logger, slowQuery time.Duration) *Store {
	return &Store{
		db:       db,
		logger:   logger,
		observer: database.NewQueryObserver(logger, slowQuery),
	}
}

// Ping verifies the connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.WrapStore(err, "ping")
	}
	return nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying pool for health checks
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// trace opens a DB span and returns the function that closes it and records latency
func (s *Store) trace(ctx context.Context, operation, table string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracing.StartDBSpan(ctx, tracing.DBSpanConfig{Operation: operation, Table: table})
	return ctx, func(err error) {
		tracing.EndDBSpan(span, err, -1)
		s.observer.Observe(strings.ToLower(operation), table, start)
	}
}

// inTx runs fn in a transaction, rolling back on any error
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// storeError converts driver errors into the application taxonomy. AppErrors pass through.
func (s *Store) storeError(err error, operation string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperrors.NewConflictError("resource already exists").WithDetail("constraint", pqErr.Constraint)
		case pqCheckViolation:
			return apperrors.NewValidationError("value violates a constraint").WithDetail("constraint", pqErr.Constraint)
		}
	}

	s.logger.Error("Store operation failed", zap.String("operation", operation), zap.Error(err))
	return apperrors.WrapStore(err, operation)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// requireAffected turns a zero-row write into a not-found error
func requireAffected(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewNotFoundError(resource, id)
	}
	return nil
}

// nullableTime maps the zero time to NULL so open-ended ranges need no extra query
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
