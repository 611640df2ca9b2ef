//go:build integration
// +build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/infrastructure/config"
	"github.com/folio-service/folio_service/internal/infrastructure/database"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewConnection(config.DatabaseConfig{URL: url, MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetime: 60})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	_, err = db.Exec(`TRUNCATE price_closes, performance_snapshots, investments, portfolios, users RESTART IDENTITY`)
	require.NoError(t, err)

	s := NewStore(db, zaptest.NewLogger(t), time.Second)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PortfolioLifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user := &entities.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.True(t, apperrors.IsConflict(s.CreateUser(ctx, &entities.User{Username: "ALICE", PasswordHash: "x"})))

	p := &entities.Portfolio{UserID: user.ID, Name: "Retirement", RiskLevel: entities.RiskLevelModerate}
	require.NoError(t, s.CreatePortfolio(ctx, p))
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	inv := &entities.Investment{
		PortfolioID:   p.ID,
		Name:          "Acme",
		Symbol:        "ACME",
		Type:          entities.InvestmentTypeMutualFund,
		Shares:        decimal.RequireFromString("10.5"),
		PurchasePrice: decimal.RequireFromString("100"),
		CurrentPrice:  decimal.RequireFromString("110.25"),
		PurchaseDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateInvestment(ctx, inv))

	got, err := s.GetInvestment(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.InvestmentTypeMutualFund, got.Type)
	assert.True(t, inv.CurrentPrice.Equal(got.CurrentPrice))

	at := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.AppendPerformanceSnapshot(ctx, &entities.PerformanceSnapshot{PortfolioID: p.ID, RecordedAt: at, TotalValue: decimal.NewFromInt(1000)}))
	err = s.AppendPerformanceSnapshot(ctx, &entities.PerformanceSnapshot{PortfolioID: p.ID, RecordedAt: at, TotalValue: decimal.NewFromInt(1)})
	assert.True(t, apperrors.IsConflict(err))

	require.NoError(t, s.DeletePortfolio(ctx, p.ID))
	_, err = s.GetInvestment(ctx, inv.ID)
	assert.True(t, apperrors.IsNotFound(err))
	snaps, err := s.GetPerformanceSnapshots(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	assert.True(t, apperrors.IsNotFound(s.DeletePortfolio(ctx, p.ID)))
	assert.True(t, apperrors.IsNotFound(s.CreatePortfolio(ctx, &entities.Portfolio{UserID: 999, Name: "x", RiskLevel: entities.RiskLevelLow})))
}

func TestStore_PreviousCloses(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for d, c := range map[int]string{1: "10", 2: "11", 3: "12"} {
		require.NoError(t, s.UpsertPriceClose(ctx, &entities.PriceClose{
			Symbol: "ACME", TradeDate: time.Date(2026, 2, d, 18, 0, 0, 0, time.UTC), Close: decimal.RequireFromString(c),
		}))
	}

	closes, err := s.PreviousCloses(ctx, []string{"ACME", "NONE"}, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Contains(t, closes, "ACME")
	assert.True(t, decimal.RequireFromString("11").Equal(closes["ACME"].Close))
	assert.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), closes["ACME"].TradeDate)
	assert.NotContains(t, closes, "NONE")
}
