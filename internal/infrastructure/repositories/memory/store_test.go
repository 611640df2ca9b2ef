package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

func seed(t *testing.T) (*Store, *entities.User, *entities.Portfolio) {
	t.Helper()
	s := NewStore(zaptest.NewLogger(t))
	ctx := context.Background()

	user := &entities.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, user))

	p := &entities.Portfolio{UserID: user.ID, Name: "Growth", RiskLevel: entities.RiskLevelHigh}
	require.NoError(t, s.CreatePortfolio(ctx, p))
	return s, user, p
}

func newInvestment(portfolioID int64, symbol string) *entities.Investment {
	return &entities.Investment{
		PortfolioID:   portfolioID,
		Name:          symbol,
		Symbol:        symbol,
		Type:          entities.InvestmentTypeStock,
		Shares:        decimal.NewFromInt(1),
		PurchasePrice: decimal.NewFromInt(10),
		CurrentPrice:  decimal.NewFromInt(12),
		PurchaseDate:  time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore_CreateAssignsIncreasingIDs(t *testing.T) {
	s, _, p := seed(t)
	ctx := context.Background()

	a := newInvestment(p.ID, "AAA")
	b := newInvestment(p.ID, "BBB")
	require.NoError(t, s.CreateInvestment(ctx, a))
	require.NoError(t, s.CreateInvestment(ctx, b))

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}

func TestStore_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	s, _, p := seed(t)
	ctx := context.Background()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv := newInvestment(p.ID, "AAA")
			if err := s.CreateInvestment(ctx, inv); err == nil {
				ids <- inv.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s, _, p := seed(t)
	ctx := context.Background()

	got, err := s.GetPortfolio(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.GetPortfolio(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Growth", again.Name)
}

func TestStore_NotFound(t *testing.T) {
	s := NewStore(zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := s.GetPortfolio(ctx, 42)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = s.GetInvestment(ctx, 42)
	assert.True(t, apperrors.IsNotFound(err))

	assert.True(t, apperrors.IsNotFound(s.DeletePortfolio(ctx, 42)))
	assert.True(t, apperrors.IsNotFound(s.DeleteUser(ctx, 42)))
	assert.True(t, apperrors.IsNotFound(s.CreatePortfolio(ctx, &entities.Portfolio{UserID: 42, Name: "x", RiskLevel: entities.RiskLevelLow})))
	assert.True(t, apperrors.IsNotFound(s.CreateInvestment(ctx, newInvestment(42, "AAA"))))
}

func TestStore_DeletePortfolioCascades(t *testing.T) {
	s, user, p := seed(t)
	ctx := context.Background()

	other := &entities.Portfolio{UserID: user.ID, Name: "Income", RiskLevel: entities.RiskLevelLow}
	require.NoError(t, s.CreatePortfolio(ctx, other))

	require.NoError(t, s.CreateInvestment(ctx, newInvestment(p.ID, "AAA")))
	require.NoError(t, s.CreateInvestment(ctx, newInvestment(other.ID, "BBB")))
	require.NoError(t, s.AppendPerformanceSnapshot(ctx, &entities.PerformanceSnapshot{
		PortfolioID: p.ID, RecordedAt: time.Now(), TotalValue: decimal.NewFromInt(12),
	}))

	require.NoError(t, s.DeletePortfolio(ctx, p.ID))

	invs, err := s.GetInvestments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, invs)

	snaps, err := s.GetPerformanceSnapshots(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	remaining, err := s.GetInvestments(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestStore_DeleteUserCascades(t *testing.T) {
	s, user, p := seed(t)
	ctx := context.Background()
	require.NoError(t, s.CreateInvestment(ctx, newInvestment(p.ID, "AAA")))

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	_, err := s.GetPortfolio(ctx, p.ID)
	assert.True(t, apperrors.IsNotFound(err))
	invs, err := s.GetInvestments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestStore_DuplicateUsernameConflicts(t *testing.T) {
	s, _, _ := seed(t)
	err := s.CreateUser(context.Background(), &entities.User{Username: "ALICE"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestStore_DuplicateSnapshotTimestampConflicts(t *testing.T) {
	s, _, p := seed(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AppendPerformanceSnapshot(ctx, &entities.PerformanceSnapshot{
		PortfolioID: p.ID, RecordedAt: at, TotalValue: decimal.NewFromInt(100),
	}))
	err := s.AppendPerformanceSnapshot(ctx, &entities.PerformanceSnapshot{
		PortfolioID: p.ID, RecordedAt: at, TotalValue: decimal.NewFromInt(200),
	})
	assert.True(t, apperrors.IsConflict(err))

	snaps, err := s.GetPerformanceSnapshots(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(snaps[0].TotalValue))
}

func TestStore_SnapshotsBetween(t *testing.T) {
	s, _, p := seed(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendPerformanceSnapshot(ctx, &entities.PerformanceSnapshot{
			PortfolioID: p.ID,
			RecordedAt:  base.AddDate(0, 0, 4-i),
			TotalValue:  decimal.NewFromInt(int64(i)),
		}))
	}

	got, err := s.GetPerformanceSnapshotsBetween(ctx, p.ID, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].RecordedAt.Equal(base.AddDate(0, 0, 1)))
	assert.True(t, got[2].RecordedAt.Equal(base.AddDate(0, 0, 3)))

	all, err := s.GetPerformanceSnapshotsBetween(ctx, p.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStore_PreviousCloses(t *testing.T) {
	s := NewStore(zaptest.NewLogger(t))
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2026, 6, d, 15, 30, 0, 0, time.UTC) }
	for d, price := range map[int]int64{10: 100, 11: 101, 12: 102} {
		require.NoError(t, s.UpsertPriceClose(ctx, &entities.PriceClose{
			Symbol: "AAA", TradeDate: day(d), Close: decimal.NewFromInt(price),
		}))
	}
	// Upsert replaces the close for the same day.
	require.NoError(t, s.UpsertPriceClose(ctx, &entities.PriceClose{
		Symbol: "AAA", TradeDate: day(11), Close: decimal.NewFromInt(111),
	}))

	closes, err := s.PreviousCloses(ctx, []string{"AAA", "ZZZ"}, time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Contains(t, closes, "AAA")
	assert.NotContains(t, closes, "ZZZ")
	assert.True(t, decimal.NewFromInt(111).Equal(closes["AAA"].Close))
	assert.Equal(t, time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC), closes["AAA"].TradeDate)

	history, err := s.GetPriceCloses(ctx, "AAA")
	require.NoError(t, err)
	assert.Len(t, history, 3)
}
