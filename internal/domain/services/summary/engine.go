// Package summary builds the dashboard PortfolioSummary from stored investments
// and performance history. Results are recomputed on every call and never cached.
package summary

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/repositories"
	"github.com/folio-service/folio_service/internal/domain/services/valuation"
	"github.com/folio-service/folio_service/pkg/metrics"
)

const (
	dateLayout  = "2006-01-02"
	labelLayout = "Jan"
)

// Engine computes portfolio summaries
type Engine struct {
	reader repositories.SummaryReader
	prices repositories.PriceReader
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the clock used for the valuation day and the YTD year
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new summary engine
func NewEngine(reader repositories.SummaryReader, prices repositories.PriceReader, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		reader: reader,
		prices: prices,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summarize derives the summary of a portfolio. Store errors, including not found,
// are returned unchanged.
func (e *Engine) Summarize(ctx context.Context, portfolioID int64) (*entities.PortfolioSummary, error) {
	start := time.Now()
	summary, err := e.summarize(ctx, portfolioID)
	metrics.RecordSummary(time.Since(start), err)
	if err != nil {
		e.logger.Debug("portfolio summary failed",
			zap.Int64("portfolio_id", portfolioID),
			zap.Error(err))
		return nil, err
	}
	return summary, nil
}

func (e *Engine) summarize(ctx context.Context, portfolioID int64) (*entities.PortfolioSummary, error) {
	portfolio, err := e.reader.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	holdings, err := e.Holdings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	totalValue := TotalValue(holdings)

	snapshots, err := e.reader.GetPerformanceSnapshots(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	SortSnapshots(snapshots)

	dailyChange, dailyChangePercent := DailyChange(snapshots)
	ytdReturnValue, ytdReturn := YTDReturn(snapshots, e.now())

	return &entities.PortfolioSummary{
		ID:                 portfolio.ID,
		Name:               portfolio.Name,
		RiskLevel:          portfolio.RiskLevel,
		TotalValue:         totalValue,
		DailyChange:        dailyChange,
		DailyChangePercent: dailyChangePercent,
		YTDReturn:          ytdReturn,
		YTDReturnValue:     ytdReturnValue,
		PerformanceData:    PerformanceSeries(snapshots),
		AssetAllocation:    Allocation(holdings, totalValue),
	}, nil
}

// Holdings loads and values every investment of a portfolio. It does not check
// that the portfolio exists.
func (e *Engine) Holdings(ctx context.Context, portfolioID int64) ([]entities.InvestmentWithPerformance, error) {
	investments, err := e.reader.GetInvestments(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return e.Value(ctx, investments)
}

// Value enriches investments with previous closes taken before the engine's current day
func (e *Engine) Value(ctx context.Context, investments []*entities.Investment) ([]entities.InvestmentWithPerformance, error) {
	if len(investments) == 0 {
		return []entities.InvestmentWithPerformance{}, nil
	}
	closes, err := e.prices.PreviousCloses(ctx, valuation.Symbols(investments), valuation.StartOfDay(e.now()))
	if err != nil {
		return nil, err
	}
	return valuation.EvaluateAll(investments, closes), nil
}

// TotalValue sums the current value of the holdings
func TotalValue(holdings []entities.InvestmentWithPerformance) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Value)
	}
	return total
}

// SortSnapshots orders snapshots chronologically; equal timestamps fall back to id
func SortSnapshots(snapshots []*entities.PerformanceSnapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := snapshots[i], snapshots[j]
		if a.RecordedAt.Equal(b.RecordedAt) {
			return a.ID < b.ID
		}
		return a.RecordedAt.Before(b.RecordedAt)
	})
}

// DailyChange compares the two most recent snapshots. snapshots must be sorted ascending.
func DailyChange(snapshots []*entities.PerformanceSnapshot) (change, percent decimal.Decimal) {
	if len(snapshots) < 2 {
		return decimal.Zero, decimal.Zero
	}
	latest := snapshots[len(snapshots)-1].TotalValue
	previous := snapshots[len(snapshots)-2].TotalValue
	change = latest.Sub(previous)
	return change, valuation.Percent(change, previous)
}

// YTDReturn measures the latest snapshot against the first one on or after January 1
// (UTC) of now's year. snapshots must be sorted ascending.
func YTDReturn(snapshots []*entities.PerformanceSnapshot, now time.Time) (value, percent decimal.Decimal) {
	if len(snapshots) == 0 {
		return decimal.Zero, decimal.Zero
	}
	startOfYear := time.Date(now.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	var ytdStart *entities.PerformanceSnapshot
	for _, s := range snapshots {
		if !s.RecordedAt.Before(startOfYear) {
			ytdStart = s
			break
		}
	}
	if ytdStart == nil {
		return decimal.Zero, decimal.Zero
	}

	latest := snapshots[len(snapshots)-1]
	value = latest.TotalValue.Sub(ytdStart.TotalValue)
	return value, valuation.Percent(value, ytdStart.TotalValue)
}

// Allocation groups holdings by type. Entries are ordered by value descending, ties
// by the canonical type order. Percentages are zero when totalValue is zero.
func Allocation(holdings []entities.InvestmentWithPerformance, totalValue decimal.Decimal) []entities.AssetAllocation {
	byType := make(map[entities.InvestmentType]decimal.Decimal)
	for _, h := range holdings {
		byType[h.Type] = byType[h.Type].Add(h.Value)
	}

	out := make([]entities.AssetAllocation, 0, len(byType))
	for t, v := range byType {
		out = append(out, entities.AssetAllocation{
			Type:       t,
			Value:      v,
			Percentage: valuation.Percent(v, totalValue),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Value.Cmp(out[j].Value); c != 0 {
			return c > 0
		}
		ri, rj := out[i].Type.Rank(), out[j].Type.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// PerformanceSeries maps sorted snapshots to chart points
func PerformanceSeries(snapshots []*entities.PerformanceSnapshot) []entities.PerformancePoint {
	points := make([]entities.PerformancePoint, 0, len(snapshots))
	for _, s := range snapshots {
		ts := s.RecordedAt.UTC()
		points = append(points, entities.PerformancePoint{
			Date:  ts.Format(dateLayout),
			Label: ts.Format(labelLayout),
			Value: s.TotalValue,
		})
	}
	return points
}
