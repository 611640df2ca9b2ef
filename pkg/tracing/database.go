package tracing

import (
	"context"
	"database/sql"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

const (
	dbTracerName = "database"
)

// DBSpanConfig holds configuration for database span creation
type DBSpanConfig struct {
	Operation    string // SELECT, INSERT, UPDATE, DELETE
	Table        string
	Query        string
	IncludeQuery bool // Whether to include full query in span (may contain sensitive data)
}

// StartDBSpan creates a new span for database operations
func StartDBSpan(ctx context.Context, cfg DBSpanConfig) (context.Context, trace.Span) {
	tracer := otel.Tracer(dbTracerName)

	spanName := cfg.Operation
	if cfg.Table != "" {
		spanName = cfg.Operation + " " + cfg.Table
	}

	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", cfg.Operation),
	}

	if cfg.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", cfg.Table))
	}

	if cfg.IncludeQuery && cfg.Query != "" {
		attrs = append(attrs, attribute.String("db.statement", cfg.Query))
	}

	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, span
}

// EndDBSpan ends a database span. Missing rows and other domain outcomes keep an Ok status.
func EndDBSpan(span trace.Span, err error, rowsAffected int64) {
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, sql.ErrNoRows) || !apperrors.IsCircuitBreakerError(err) {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, err.Error())
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if rowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", rowsAffected))
	}

	span.End()
}
