// Package portfolio implements the use-cases behind the HTTP API: validated CRUD over
// users, portfolios, investments, performance history and closing prices, plus the
// summary read through the aggregation engine.
package portfolio

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/repositories"
	"github.com/folio-service/folio_service/internal/domain/services/summary"
	"github.com/folio-service/folio_service/pkg/crypto"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
	"github.com/folio-service/folio_service/pkg/metrics"
)

// Snapshot sources for metrics
const (
	SourceAPI       = "api"
	SourceScheduler = "scheduler"
)

// Service orchestrates the entity store and the summary engine
type Service struct {
	store    repositories.Store
	engine   *summary.Engine
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used for default snapshot timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new portfolio service
func NewService(store repositories.Store, engine *summary.Engine, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		engine:   engine,
		logger:   logger,
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Users

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*entities.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "failed to hash password")
	}

	user := &entities.User{Username: in.Username, PasswordHash: hash}
	err = s.store.CreateUser(ctx, user)
	metrics.RecordMutation("user", "create", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	err := s.store.DeleteUser(ctx, id)
	metrics.RecordMutation("user", "delete", err)
	return err
}

// ListUserPortfolios returns the portfolios owned by a user; the user must exist
func (s *Service) ListUserPortfolios(ctx context.Context, userID int64) ([]*entities.Portfolio, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListPortfoliosByUser(ctx, userID)
}

// Portfolios

// ListPortfolios returns every portfolio, or only those of userID when it is set
func (s *Service) ListPortfolios(ctx context.Context, userID *int64) ([]*entities.Portfolio, error) {
	if userID != nil {
		return s.store.ListPortfoliosByUser(ctx, *userID)
	}
	return s.store.ListPortfolios(ctx)
}

func (s *Service) GetPortfolio(ctx context.Context, id int64) (*entities.Portfolio, error) {
	return s.store.GetPortfolio(ctx, id)
}

func (s *Service) CreatePortfolio(ctx context.Context, in PortfolioInput) (*entities.Portfolio, error) {
	portfolio, err := s.buildPortfolio(ctx, in)
	if err != nil {
		return nil, err
	}

	err = s.store.CreatePortfolio(ctx, portfolio)
	metrics.RecordMutation("portfolio", "create", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Portfolio created",
		zap.Int64("portfolio_id", portfolio.ID),
		zap.Int64("user_id", portfolio.UserID))
	return portfolio, nil
}

// ReplacePortfolio overwrites every mutable field of a portfolio
func (s *Service) ReplacePortfolio(ctx context.Context, id int64, in PortfolioInput) (*entities.Portfolio, error) {
	if _, err := s.store.GetPortfolio(ctx, id); err != nil {
		return nil, err
	}
	portfolio, err := s.buildPortfolio(ctx, in)
	if err != nil {
		return nil, err
	}
	portfolio.ID = id

	err = s.store.UpdatePortfolio(ctx, portfolio)
	metrics.RecordMutation("portfolio", "update", err)
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

// UpdatePortfolio applies a partial update
func (s *Service) UpdatePortfolio(ctx context.Context, id int64, patch PortfolioPatch) (*entities.Portfolio, error) {
	if err := s.validateStruct(patch); err != nil {
		return nil, err
	}

	portfolio, err := s.store.GetPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}

	var update entities.PortfolioUpdate
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := requireNonBlank("name", name); err != nil {
			return nil, err
		}
		update.Name = &name
	}
	if patch.RiskLevel != nil {
		level, err := parseRiskLevel(*patch.RiskLevel)
		if err != nil {
			return nil, err
		}
		update.RiskLevel = &level
	}
	if patch.UserID != nil {
		if _, err := s.store.GetUser(ctx, *patch.UserID); err != nil {
			return nil, err
		}
		update.UserID = patch.UserID
	}
	update.Apply(portfolio)

	err = s.store.UpdatePortfolio(ctx, portfolio)
	metrics.RecordMutation("portfolio", "update", err)
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

// DeletePortfolio removes a portfolio with its investments and history
func (s *Service) DeletePortfolio(ctx context.Context, id int64) error {
	err := s.store.DeletePortfolio(ctx, id)
	metrics.RecordMutation("portfolio", "delete", err)
	if err == nil {
		s.logger.Info("Portfolio deleted", zap.Int64("portfolio_id", id))
	}
	return err
}

func (s *Service) buildPortfolio(ctx context.Context, in PortfolioInput) (*entities.Portfolio, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	level, err := parseRiskLevel(in.RiskLevel)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	return &entities.Portfolio{UserID: in.UserID, Name: in.Name, RiskLevel: level}, nil
}

// Summary

// GetSummary derives the dashboard summary of a portfolio
func (s *Service) GetSummary(ctx context.Context, id int64) (*entities.PortfolioSummary, error) {
	return s.engine.Summarize(ctx, id)
}

// Investments

// ListInvestments returns the valued investments of a portfolio; the portfolio must exist
func (s *Service) ListInvestments(ctx context.Context, portfolioID int64) ([]entities.InvestmentWithPerformance, error) {
	if _, err := s.store.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.engine.Holdings(ctx, portfolioID)
}

func (s *Service) GetInvestment(ctx context.Context, id int64) (*entities.InvestmentWithPerformance, error) {
	inv, err := s.store.GetInvestment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.value(ctx, inv)
}

func (s *Service) CreateInvestment(ctx context.Context, in InvestmentInput) (*entities.InvestmentWithPerformance, error) {
	inv, err := s.buildInvestment(ctx, in)
	if err != nil {
		return nil, err
	}

	err = s.store.CreateInvestment(ctx, inv)
	metrics.RecordMutation("investment", "create", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Investment created",
		zap.Int64("investment_id", inv.ID),
		zap.Int64("portfolio_id", inv.PortfolioID),
		zap.String("symbol", inv.Symbol))
	return s.value(ctx, inv)
}

// ReplaceInvestment overwrites every mutable field of an investment
func (s *Service) ReplaceInvestment(ctx context.Context, id int64, in InvestmentInput) (*entities.InvestmentWithPerformance, error) {
	if _, err := s.store.GetInvestment(ctx, id); err != nil {
		return nil, err
	}
	inv, err := s.buildInvestment(ctx, in)
	if err != nil {
		return nil, err
	}
	inv.ID = id

	err = s.store.UpdateInvestment(ctx, inv)
	metrics.RecordMutation("investment", "update", err)
	if err != nil {
		return nil, err
	}
	return s.value(ctx, inv)
}

// UpdateInvestment applies a partial update
func (s *Service) UpdateInvestment(ctx context.Context, id int64, patch InvestmentPatch) (*entities.InvestmentWithPerformance, error) {
	if err := s.validateStruct(patch); err != nil {
		return nil, err
	}

	inv, err := s.store.GetInvestment(ctx, id)
	if err != nil {
		return nil, err
	}

	update := entities.InvestmentUpdate{
		Shares:        patch.Shares,
		PurchasePrice: patch.PurchasePrice,
		CurrentPrice:  patch.CurrentPrice,
		PurchaseDate:  patch.PurchaseDate.ptr(),
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := requireNonBlank("name", name); err != nil {
			return nil, err
		}
		update.Name = &name
	}
	if patch.Symbol != nil {
		symbol := normalizeSymbol(*patch.Symbol)
		if err := requireNonBlank("symbol", symbol); err != nil {
			return nil, err
		}
		update.Symbol = &symbol
	}
	if patch.Type != nil {
		t, err := parseInvestmentType(*patch.Type)
		if err != nil {
			return nil, err
		}
		update.Type = &t
	}
	if patch.PortfolioID != nil {
		if _, err := s.store.GetPortfolio(ctx, *patch.PortfolioID); err != nil {
			return nil, err
		}
		update.PortfolioID = patch.PortfolioID
	}
	update.Apply(inv)

	err = s.store.UpdateInvestment(ctx, inv)
	metrics.RecordMutation("investment", "update", err)
	if err != nil {
		return nil, err
	}
	return s.value(ctx, inv)
}

func (s *Service) DeleteInvestment(ctx context.Context, id int64) error {
	err := s.store.DeleteInvestment(ctx, id)
	metrics.RecordMutation("investment", "delete", err)
	return err
}

func (s *Service) buildInvestment(ctx context.Context, in InvestmentInput) (*entities.Investment, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Symbol = normalizeSymbol(in.Symbol)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	t, err := parseInvestmentType(in.Type)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetPortfolio(ctx, in.PortfolioID); err != nil {
		return nil, err
	}
	return &entities.Investment{
		PortfolioID:   in.PortfolioID,
		Name:          in.Name,
		Symbol:        in.Symbol,
		Type:          t,
		Shares:        in.Shares,
		PurchasePrice: in.PurchasePrice,
		CurrentPrice:  in.CurrentPrice,
		PurchaseDate:  in.PurchaseDate.UTC(),
	}, nil
}

func (s *Service) value(ctx context.Context, inv *entities.Investment) (*entities.InvestmentWithPerformance, error) {
	valued, err := s.engine.Value(ctx, []*entities.Investment{inv})
	if err != nil {
		return nil, err
	}
	return &valued[0], nil
}

// Performance

// ListPerformance returns snapshots in [from, to]; zero bounds are open
func (s *Service) ListPerformance(ctx context.Context, portfolioID int64, from, to time.Time) ([]*entities.PerformanceSnapshot, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperrors.NewFieldError("invalid range", map[string]string{"to": "must not be before from"})
	}
	if _, err := s.store.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.store.GetPerformanceSnapshotsBetween(ctx, portfolioID, from, to)
}

// AppendSnapshot stores an explicit snapshot value
func (s *Service) AppendSnapshot(ctx context.Context, portfolioID int64, in SnapshotInput) (*entities.PerformanceSnapshot, error) {
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	recordedAt := s.timestamp()
	if in.RecordedAt != nil {
		recordedAt = in.RecordedAt.UTC().Truncate(time.Microsecond)
	}
	return s.appendSnapshot(ctx, portfolioID, recordedAt, in.TotalValue, SourceAPI)
}

// RecordSnapshot stores the current valuation total of a portfolio as a snapshot
func (s *Service) RecordSnapshot(ctx context.Context, portfolioID int64, source string) (*entities.PerformanceSnapshot, error) {
	if _, err := s.store.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	holdings, err := s.engine.Holdings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return s.appendSnapshot(ctx, portfolioID, s.timestamp(), summary.TotalValue(holdings), source)
}

func (s *Service) appendSnapshot(ctx context.Context, portfolioID int64, at time.Time, total decimal.Decimal, source string) (*entities.PerformanceSnapshot, error) {
	snapshot := &entities.PerformanceSnapshot{
		PortfolioID: portfolioID,
		RecordedAt:  at,
		TotalValue:  total,
	}
	err := s.store.AppendPerformanceSnapshot(ctx, snapshot)
	metrics.RecordSnapshot(source, err)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// timestamp is the current time at the precision PostgreSQL keeps
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Prices

// UpsertPriceClose records the close of symbol on a day, replacing any earlier value
func (s *Service) UpsertPriceClose(ctx context.Context, symbol string, in PriceCloseInput) (*entities.PriceClose, error) {
	symbol = normalizeSymbol(symbol)
	if err := requireNonBlank("symbol", symbol); err != nil {
		return nil, err
	}
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}

	pc := &entities.PriceClose{Symbol: symbol, TradeDate: in.Date.Time, Close: in.Close}
	if err := s.store.UpsertPriceClose(ctx, pc); err != nil {
		return nil, err
	}
	metrics.PriceClosesUpserted.Inc()
	return pc, nil
}

func (s *Service) ListPriceCloses(ctx context.Context, symbol string) ([]*entities.PriceClose, error) {
	symbol = normalizeSymbol(symbol)
	if err := requireNonBlank("symbol", symbol); err != nil {
		return nil, err
	}
	return s.store.GetPriceCloses(ctx, symbol)
}
