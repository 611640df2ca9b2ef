package performance_snapshots

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
	"github.com/folio-service/folio_service/pkg/metrics"
)

// SnapshotService is the subset of the portfolio service the scheduler drives
type SnapshotService interface {
	ListPortfolios(ctx context.Context, userID *int64) ([]*entities.Portfolio, error)
	RecordSnapshot(ctx context.Context, portfolioID int64, source string) (*entities.PerformanceSnapshot, error)
}

// Config controls when and how snapshots are recorded
type Config struct {
	// Cron expression for when to run (default: daily at midnight UTC)
	Schedule string

	MaxConcurrentJobs int
	RunTimeout        time.Duration
	Timezone          string
}

// JobStatistics tracks scheduler runs
type JobStatistics struct {
	TotalRuns         int64         `json:"total_runs"`
	LastRunTime       time.Time     `json:"last_run_time"`
	LastRunDuration   time.Duration `json:"last_run_duration"`
	SnapshotsRecorded int64         `json:"snapshots_recorded"`
	SnapshotsFailed   int64         `json:"snapshots_failed"`
	PortfoliosSkipped int64         `json:"portfolios_skipped"`
	Errors            []JobError    `json:"recent_errors"`
}

// JobError is a failure recorded for one portfolio
type JobError struct {
	Timestamp   time.Time `json:"timestamp"`
	PortfolioID int64     `json:"portfolio_id,omitempty"`
	Error       string    `json:"error"`
}

// RunResult summarizes one pass over all portfolios
type RunResult struct {
	Recorded int
	Skipped  int
	Failed   int
}

// zapCronLogger wraps zap.Logger to implement cron's logger interface
type zapCronLogger struct {
	logger *zap.Logger
}

func (l *zapCronLogger) Printf(format string, args ...interface{}) {
	l.logger.Sugar().Infof(format, args...)
}

// Scheduler records a performance snapshot for every portfolio on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	service SnapshotService
	config  *Config
	logger  *zap.Logger
	tracer  trace.Tracer

	mu       sync.RWMutex
	running  bool
	nextRun  time.Time
	jobStats *JobStatistics
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Schedule:          "0 0 * * *",
		MaxConcurrentJobs: 8,
		RunTimeout:        10 * time.Minute,
		Timezone:          "UTC",
	}
}

// NewScheduler creates a new snapshot scheduler
func NewScheduler(service SnapshotService, config *Config, logger *zap.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", config.Timezone, err)
	}
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = 1
	}

	cronLogger := &zapCronLogger{logger: logger}
	c := cron.New(cron.WithLocation(location), cron.WithLogger(cron.PrintfLogger(cronLogger)))

	return &Scheduler{
		cron:     c,
		service:  service,
		config:   config,
		logger:   logger,
		tracer:   otel.Tracer("performance-snapshot-scheduler"),
		jobStats: &JobStatistics{Errors: make([]JobError, 0)},
	}, nil
}

// Start begins the scheduled job execution
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.RunTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	entries := s.cron.Entries()
	if len(entries) > 0 {
		s.nextRun = entries[0].Next
	}

	s.logger.Info("Performance snapshot scheduler started",
		zap.String("schedule", s.config.Schedule),
		zap.Time("next_run", s.nextRun),
	)
	return nil
}

// Stop halts scheduling and waits for a running job to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("scheduler is not running")
	}

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		s.logger.Info("Performance snapshot scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		s.logger.Warn("Performance snapshot scheduler stop timed out")
	}

	s.running = false
	return nil
}

// IsRunning reports whether the cron loop is active
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status returns the job statistics for health reporting
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"schedule":           s.config.Schedule,
		"next_run":           s.nextRun,
		"total_runs":         s.jobStats.TotalRuns,
		"last_run_time":      s.jobStats.LastRunTime,
		"snapshots_recorded": s.jobStats.SnapshotsRecorded,
		"snapshots_failed":   s.jobStats.SnapshotsFailed,
	}
}

// Stats returns a copy of the job statistics
func (s *Scheduler) Stats() JobStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := *s.jobStats
	stats.Errors = append([]JobError(nil), s.jobStats.Errors...)
	return stats
}

// RunOnce records a snapshot for every portfolio. A failure on one portfolio is logged
// and counted without stopping the others. A portfolio that already has a snapshot at
// this instant, or was deleted mid-run, is skipped.
func (s *Scheduler) RunOnce(ctx context.Context) RunResult {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "scheduler.record_performance_snapshots", trace.WithAttributes(
		attribute.String("schedule", s.config.Schedule),
	))
	defer span.End()

	var result RunResult
	var jobErrors []JobError

	portfolios, err := s.service.ListPortfolios(ctx, nil)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("Failed to list portfolios for snapshot run", zap.Error(err))
		jobErrors = append(jobErrors, JobError{Timestamp: time.Now(), Error: err.Error()})
		s.finishRun(start, result, jobErrors)
		return result
	}

	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, p := range portfolios {
		wg.Add(1)
		go func(portfolioID int64) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			_, err := s.service.RecordSnapshot(ctx, portfolioID, portfolio.SourceScheduler)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Recorded++
			case apperrors.IsConflict(err) || apperrors.IsNotFound(err):
				result.Skipped++
				s.logger.Debug("Skipped portfolio snapshot",
					zap.Int64("portfolio_id", portfolioID),
					zap.Error(err))
			default:
				result.Failed++
				jobErrors = append(jobErrors, JobError{
					Timestamp:   time.Now(),
					PortfolioID: portfolioID,
					Error:       err.Error(),
				})
				s.logger.Error("Failed to record portfolio snapshot",
					zap.Int64("portfolio_id", portfolioID),
					zap.Error(err))
			}
		}(p.ID)
	}
	wg.Wait()

	span.SetAttributes(
		attribute.Int("snapshots.recorded", result.Recorded),
		attribute.Int("snapshots.failed", result.Failed),
	)
	s.finishRun(start, result, jobErrors)

	s.logger.Info("Performance snapshot run completed",
		zap.Int("portfolios", len(portfolios)),
		zap.Int("recorded", result.Recorded),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

func (s *Scheduler) finishRun(start time.Time, result RunResult, jobErrors []JobError) {
	duration := time.Since(start)
	metrics.SnapshotRunDuration.Observe(duration.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobStats.TotalRuns++
	s.jobStats.LastRunTime = start
	s.jobStats.LastRunDuration = duration
	s.jobStats.SnapshotsRecorded += int64(result.Recorded)
	s.jobStats.SnapshotsFailed += int64(result.Failed)
	s.jobStats.PortfoliosSkipped += int64(result.Skipped)
	s.jobStats.Errors = append(s.jobStats.Errors, jobErrors...)
	// Keep only the last 100 errors
	if len(s.jobStats.Errors) > 100 {
		s.jobStats.Errors = s.jobStats.Errors[len(s.jobStats.Errors)-100:]
	}

	if s.running {
		entries := s.cron.Entries()
		if len(entries) > 0 {
			s.nextRun = entries[0].Next
		}
	}
}
