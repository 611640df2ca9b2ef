// Package memory is an in-process Entity Store used for local development and tests.
// It keeps no data across restarts.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/repositories"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

var _ repositories.Store = (*Store)(nil)

type priceKey struct {
	symbol string
	day    time.Time
}

// Store implements repositories.Store with maps guarded by a single RWMutex
type Store struct {
	mu     sync.RWMutex
	logger *zap.Logger

	users       map[int64]*entities.User
	portfolios  map[int64]*entities.Portfolio
	investments map[int64]*entities.Investment
	snapshots   map[int64]*entities.PerformanceSnapshot
	prices      map[priceKey]*entities.PriceClose

	nextUserID       int64
	nextPortfolioID  int64
	nextInvestmentID int64
	nextSnapshotID   int64
}

// NewStore creates an empty memory store
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		logger:      logger,
		users:       make(map[int64]*entities.User),
		portfolios:  make(map[int64]*entities.Portfolio),
		investments: make(map[int64]*entities.Investment),
		snapshots:   make(map[int64]*entities.PerformanceSnapshot),
		prices:      make(map[priceKey]*entities.PriceClose),
	}
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) {
			return apperrors.NewConflictError("username already taken").WithDetail("username", user.Username)
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	cp := *user
	s.users[user.ID] = &cp

	s.logger.Debug("user created", zap.Int64("user_id", user.ID))
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", id)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user", username)
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperrors.NewNotFoundError("user", id)
	}
	for pid, p := range s.portfolios {
		if p.UserID == id {
			s.deletePortfolioLocked(pid)
		}
	}
	delete(s.users, id)
	return nil
}

// Portfolios

func (s *Store) ListPortfolios(ctx context.Context) ([]*entities.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Portfolio, 0, len(s.portfolios))
	for _, p := range s.portfolios {
		cp := *p
		out = append(out, &cp)
	}
	sortPortfolios(out)
	return out, nil
}

func (s *Store) ListPortfoliosByUser(ctx context.Context, userID int64) ([]*entities.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Portfolio, 0)
	for _, p := range s.portfolios {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortPortfolios(out)
	return out, nil
}

func (s *Store) GetPortfolio(ctx context.Context, id int64) (*entities.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.portfolios[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("portfolio", id)
	}
	cp := *p
	return &cp, nil
}

func (s *Store) CreatePortfolio(ctx context.Context, portfolio *entities.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[portfolio.UserID]; !ok {
		return apperrors.NewNotFoundError("user", portfolio.UserID)
	}

	s.nextPortfolioID++
	portfolio.ID = s.nextPortfolioID
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = time.Now().UTC()
	}
	cp := *portfolio
	s.portfolios[portfolio.ID] = &cp
	return nil
}

func (s *Store) UpdatePortfolio(ctx context.Context, portfolio *entities.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.portfolios[portfolio.ID]
	if !ok {
		return apperrors.NewNotFoundError("portfolio", portfolio.ID)
	}
	if _, ok := s.users[portfolio.UserID]; !ok {
		return apperrors.NewNotFoundError("user", portfolio.UserID)
	}
	cp := *portfolio
	cp.CreatedAt = existing.CreatedAt
	s.portfolios[portfolio.ID] = &cp
	portfolio.CreatedAt = existing.CreatedAt
	return nil
}

func (s *Store) DeletePortfolio(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.portfolios[id]; !ok {
		return apperrors.NewNotFoundError("portfolio", id)
	}
	s.deletePortfolioLocked(id)
	return nil
}

// deletePortfolioLocked removes a portfolio and everything it owns. Caller holds mu.
func (s *Store) deletePortfolioLocked(id int64) {
	for iid, inv := range s.investments {
		if inv.PortfolioID == id {
			delete(s.investments, iid)
		}
	}
	for sid, snap := range s.snapshots {
		if snap.PortfolioID == id {
			delete(s.snapshots, sid)
		}
	}
	delete(s.portfolios, id)
}

// Investments

func (s *Store) GetInvestments(ctx context.Context, portfolioID int64) ([]*entities.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Investment, 0)
	for _, inv := range s.investments {
		if inv.PortfolioID == portfolioID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetInvestment(ctx context.Context, id int64) (*entities.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.investments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("investment", id)
	}
	cp := *inv
	return &cp, nil
}

func (s *Store) CreateInvestment(ctx context.Context, investment *entities.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.portfolios[investment.PortfolioID]; !ok {
		return apperrors.NewNotFoundError("portfolio", investment.PortfolioID)
	}

	s.nextInvestmentID++
	investment.ID = s.nextInvestmentID
	cp := *investment
	s.investments[investment.ID] = &cp
	return nil
}

func (s *Store) UpdateInvestment(ctx context.Context, investment *entities.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.investments[investment.ID]; !ok {
		return apperrors.NewNotFoundError("investment", investment.ID)
	}
	if _, ok := s.portfolios[investment.PortfolioID]; !ok {
		return apperrors.NewNotFoundError("portfolio", investment.PortfolioID)
	}
	cp := *investment
	s.investments[investment.ID] = &cp
	return nil
}

func (s *Store) DeleteInvestment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.investments[id]; !ok {
		return apperrors.NewNotFoundError("investment", id)
	}
	delete(s.investments, id)
	return nil
}

// Performance snapshots

func (s *Store) GetPerformanceSnapshots(ctx context.Context, portfolioID int64) ([]*entities.PerformanceSnapshot, error) {
	return s.snapshotsMatching(portfolioID, func(*entities.PerformanceSnapshot) bool { return true }), nil
}

func (s *Store) GetPerformanceSnapshotsBetween(ctx context.Context, portfolioID int64, from, to time.Time) ([]*entities.PerformanceSnapshot, error) {
	return s.snapshotsMatching(portfolioID, func(snap *entities.PerformanceSnapshot) bool {
		if !from.IsZero() && snap.RecordedAt.Before(from) {
			return false
		}
		if !to.IsZero() && snap.RecordedAt.After(to) {
			return false
		}
		return true
	}), nil
}

func (s *Store) snapshotsMatching(portfolioID int64, keep func(*entities.PerformanceSnapshot) bool) []*entities.PerformanceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.PerformanceSnapshot, 0)
	for _, snap := range s.snapshots {
		if snap.PortfolioID == portfolioID && keep(snap) {
			cp := *snap
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out
}

func (s *Store) AppendPerformanceSnapshot(ctx context.Context, snapshot *entities.PerformanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.portfolios[snapshot.PortfolioID]; !ok {
		return apperrors.NewNotFoundError("portfolio", snapshot.PortfolioID)
	}
	for _, existing := range s.snapshots {
		if existing.PortfolioID == snapshot.PortfolioID && existing.RecordedAt.Equal(snapshot.RecordedAt) {
			return apperrors.NewConflictError("performance snapshot already recorded at this time").
				WithDetail("recorded_at", snapshot.RecordedAt.UTC().Format(time.RFC3339Nano))
		}
	}

	s.nextSnapshotID++
	snapshot.ID = s.nextSnapshotID
	cp := *snapshot
	s.snapshots[snapshot.ID] = &cp
	return nil
}

// Prices

func (s *Store) UpsertPriceClose(ctx context.Context, close *entities.PriceClose) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := truncateDay(close.TradeDate)
	cp := *close
	cp.TradeDate = day
	s.prices[priceKey{symbol: close.Symbol, day: day}] = &cp
	close.TradeDate = day
	return nil
}

func (s *Store) GetPriceCloses(ctx context.Context, symbol string) ([]*entities.PriceClose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.PriceClose, 0)
	for k, pc := range s.prices {
		if k.symbol == symbol {
			cp := *pc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TradeDate.Before(out[j].TradeDate) })
	return out, nil
}

func (s *Store) PreviousCloses(ctx context.Context, symbols []string, before time.Time) (map[string]entities.PriceClose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		wanted[sym] = struct{}{}
	}

	out := make(map[string]entities.PriceClose)
	for k, pc := range s.prices {
		if _, ok := wanted[k.symbol]; !ok || !k.day.Before(before) {
			continue
		}
		if cur, ok := out[k.symbol]; !ok || k.day.After(cur.TradeDate) {
			out[k.symbol] = *pc
		}
	}
	return out, nil
}

func sortPortfolios(p []*entities.Portfolio) {
	sort.Slice(p, func(i, j int) bool { return p[i].ID < p[j].ID })
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
