package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/services/summary"
	"github.com/folio-service/folio_service/internal/infrastructure/repositories/memory"
	"github.com/folio-service/folio_service/pkg/crypto"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

var testNow = time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

func createTestService(t *testing.T) (*Service, *memory.Store) {
	logger := zaptest.NewLogger(t)
	store := memory.NewStore(logger)
	clock := func() time.Time { return testNow }
	engine := summary.NewEngine(store, store, logger, summary.WithClock(clock))
	return NewService(store, engine, logger, WithClock(clock)), store
}

func mustUser(t *testing.T, svc *Service) *entities.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "carol", Password: "s3cret-pass"})
	require.NoError(t, err)
	return user
}

func mustPortfolio(t *testing.T, svc *Service, userID int64) *entities.Portfolio {
	t.Helper()
	p, err := svc.CreatePortfolio(context.Background(), PortfolioInput{UserID: userID, Name: "Core", RiskLevel: "moderate"})
	require.NoError(t, err)
	return p
}

func investmentInput(portfolioID int64) InvestmentInput {
	return InvestmentInput{
		PortfolioID:   portfolioID,
		Name:          "Acme Corp",
		Symbol:        " acme ",
		Type:          "stock",
		Shares:        decimal.NewFromInt(10),
		PurchasePrice: decimal.NewFromInt(100),
		CurrentPrice:  decimal.NewFromInt(110),
		PurchaseDate:  NewDate(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Contains(t, appErr.Details, field)
}

func TestCreateUser(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()

	user := mustUser(t, svc)
	assert.NotZero(t, user.ID)
	assert.True(t, crypto.ValidatePassword("s3cret-pass", user.PasswordHash))

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "carol", Password: "another-pass"})
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "x", Password: "short"})
	assertFieldError(t, err, "username")
	assertFieldError(t, err, "password")
}

func TestCreatePortfolio(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc)

	p := mustPortfolio(t, svc, user.ID)
	assert.Equal(t, entities.RiskLevelModerate, p.RiskLevel)

	tests := []struct {
		name  string
		input PortfolioInput
		check func(t *testing.T, err error)
	}{
		{
			name:  "unknown user",
			input: PortfolioInput{UserID: 999, Name: "x", RiskLevel: "Low"},
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsNotFound(err)) },
		},
		{
			name:  "blank name",
			input: PortfolioInput{UserID: user.ID, Name: "   ", RiskLevel: "Low"},
			check: func(t *testing.T, err error) { assertFieldError(t, err, "name") },
		},
		{
			name:  "bad risk level",
			input: PortfolioInput{UserID: user.ID, Name: "x", RiskLevel: "Extreme"},
			check: func(t *testing.T, err error) { assertFieldError(t, err, "risk_level") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePortfolio(ctx, tt.input)
			tt.check(t, err)
		})
	}
}

func TestUpdatePortfolio_PartialAndReplace(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc)
	p := mustPortfolio(t, svc, user.ID)

	name := "Renamed"
	updated, err := svc.UpdatePortfolio(ctx, p.ID, PortfolioPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, entities.RiskLevelModerate, updated.RiskLevel)

	level := "HIGH"
	updated, err = svc.UpdatePortfolio(ctx, p.ID, PortfolioPatch{RiskLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, entities.RiskLevelHigh, updated.RiskLevel)
	assert.Equal(t, "Renamed", updated.Name)

	replaced, err := svc.ReplacePortfolio(ctx, p.ID, PortfolioInput{UserID: user.ID, Name: "Fresh", RiskLevel: "low"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, replaced.ID)
	assert.Equal(t, entities.RiskLevelLow, replaced.RiskLevel)

	_, err = svc.UpdatePortfolio(ctx, 999, PortfolioPatch{Name: &name})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInvestments(t *testing.T) {
	svc, store := createTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc)
	p := mustPortfolio(t, svc, user.ID)

	require.NoError(t, store.UpsertPriceClose(ctx, &entities.PriceClose{
		Symbol: "ACME", TradeDate: testNow.AddDate(0, 0, -1), Close: decimal.NewFromInt(105),
	}))

	created, err := svc.CreateInvestment(ctx, investmentInput(p.ID))
	require.NoError(t, err)
	assert.Equal(t, "ACME", created.Symbol)
	assert.Equal(t, entities.InvestmentTypeStock, created.Type)
	assert.True(t, decimal.NewFromInt(1100).Equal(created.Value))
	assert.True(t, decimal.NewFromInt(100).Equal(created.TotalReturn))
	assert.True(t, decimal.NewFromInt(10).Equal(created.TotalReturnPercent))
	assert.True(t, decimal.NewFromInt(50).Equal(created.DailyChange))

	list, err := svc.ListInvestments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	price := decimal.NewFromInt(120)
	fund := "mutual fund"
	updated, err := svc.UpdateInvestment(ctx, created.ID, InvestmentPatch{CurrentPrice: &price, Type: &fund})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1200).Equal(updated.Value))
	assert.Equal(t, entities.InvestmentTypeMutualFund, updated.Type)
	assert.Equal(t, "Acme Corp", updated.Name)

	bad := investmentInput(p.ID)
	bad.Shares = decimal.Zero
	bad.Type = "Crypto"
	_, err = svc.CreateInvestment(ctx, bad)
	assertFieldError(t, err, "shares")

	_, err = svc.CreateInvestment(ctx, investmentInput(999))
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.ListInvestments(ctx, 999)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, svc.DeleteInvestment(ctx, created.ID))
	_, err = svc.GetInvestment(ctx, created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPerformance(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc)
	p := mustPortfolio(t, svc, user.ID)

	_, err := svc.CreateInvestment(ctx, investmentInput(p.ID))
	require.NoError(t, err)

	past := testNow.AddDate(0, 0, -1)
	explicit, err := svc.AppendSnapshot(ctx, p.ID, SnapshotInput{RecordedAt: &past, TotalValue: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.True(t, explicit.RecordedAt.Equal(past))

	_, err = svc.AppendSnapshot(ctx, p.ID, SnapshotInput{RecordedAt: &past, TotalValue: decimal.NewFromInt(1)})
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.AppendSnapshot(ctx, p.ID, SnapshotInput{TotalValue: decimal.NewFromInt(-1)})
	assertFieldError(t, err, "total_value")

	recorded, err := svc.RecordSnapshot(ctx, p.ID, SourceAPI)
	require.NoError(t, err)
	assert.True(t, recorded.RecordedAt.Equal(testNow))
	assert.True(t, decimal.NewFromInt(1100).Equal(recorded.TotalValue))

	all, err := svc.ListPerformance(ctx, p.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	recent, err := svc.ListPerformance(ctx, p.ID, testNow.Add(-time.Hour), time.Time{})
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	_, err = svc.ListPerformance(ctx, p.ID, testNow, past)
	assertFieldError(t, err, "to")

	summaryView, err := svc.GetSummary(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(summaryView.DailyChange))
	assert.True(t, decimal.NewFromInt(10).Equal(summaryView.DailyChangePercent))
}

func TestDeletePortfolio_Cascades(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc)
	p := mustPortfolio(t, svc, user.ID)

	inv, err := svc.CreateInvestment(ctx, investmentInput(p.ID))
	require.NoError(t, err)

	require.NoError(t, svc.DeletePortfolio(ctx, p.ID))

	_, err = svc.GetInvestment(ctx, inv.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = svc.GetSummary(ctx, p.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(svc.DeletePortfolio(ctx, p.ID)))
}

func TestUserPortfolios(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc)
	mustPortfolio(t, svc, user.ID)
	mustPortfolio(t, svc, user.ID)

	list, err := svc.ListUserPortfolios(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListUserPortfolios(ctx, 999)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	all, err := svc.ListPortfolios(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPriceCloses(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()

	pc, err := svc.UpsertPriceClose(ctx, "acme", PriceCloseInput{Date: NewDate(testNow), Close: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "ACME", pc.Symbol)
	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), pc.TradeDate)

	_, err = svc.UpsertPriceClose(ctx, "acme", PriceCloseInput{Date: NewDate(testNow), Close: decimal.NewFromInt(12)})
	require.NoError(t, err)

	closes, err := svc.ListPriceCloses(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, closes, 1)
	assert.True(t, decimal.NewFromInt(12).Equal(closes[0].Close))

	_, err = svc.UpsertPriceClose(ctx, "acme", PriceCloseInput{Date: NewDate(testNow), Close: decimal.Zero})
	assertFieldError(t, err, "close")

	_, err = svc.ListPriceCloses(ctx, "  ")
	assertFieldError(t, err, "symbol")
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Mutual Fund", normalizeName("  mutual   FUND "))
	assert.Equal(t, "Low", normalizeName("low"))
}

func TestParseInvestmentType(t *testing.T) {
	tests := []struct {
		input string
		want  entities.InvestmentType
	}{
		{"stock", entities.InvestmentTypeStock},
		{" BOND ", entities.InvestmentTypeBond},
		{"Mutual Fund", entities.InvestmentTypeMutualFund},
		{"MutualFund", entities.InvestmentTypeMutualFund},
		{"mutual   fund", entities.InvestmentTypeMutualFund},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseInvestmentType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseInvestmentType("Crypto")
	assertFieldError(t, err, "type")
}

func TestCreateInvestment_CompactTypeName(t *testing.T) {
	svc, _ := createTestService(t)
	user := mustUser(t, svc)
	p := mustPortfolio(t, svc, user.ID)

	in := investmentInput(p.ID)
	in.Type = "MutualFund"
	created, err := svc.CreateInvestment(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, entities.InvestmentTypeMutualFund, created.Type)
}

func TestCreateInvestment_DecimalPrecision(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc)
	p := mustPortfolio(t, svc, user.ID)

	in := investmentInput(p.ID)
	in.Shares = decimal.RequireFromString("1.234567")
	created, err := svc.CreateInvestment(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "1.234567", created.Shares.String())

	in.Shares = decimal.RequireFromString("0.000001")
	_, err = svc.CreateInvestment(ctx, in)
	require.NoError(t, err)

	for _, tooFine := range []string{"1.2345678", "0.0000001", "1e-400"} {
		in.Shares = decimal.RequireFromString(tooFine)
		_, err = svc.CreateInvestment(ctx, in)
		assertFieldError(t, err, "shares")
		assert.Equal(t, "must have at most 6 decimal places", err.(*apperrors.AppError).Details["shares"])
	}

	in.Shares = decimal.NewFromInt(1)
	in.CurrentPrice = decimal.RequireFromString("-0.5")
	_, err = svc.CreateInvestment(ctx, in)
	assertFieldError(t, err, "current_price")

	fine := decimal.RequireFromString("3.1415926")
	_, err = svc.UpdateInvestment(ctx, created.ID, InvestmentPatch{PurchasePrice: &fine})
	assertFieldError(t, err, "purchase_price")

	_, err = svc.AppendSnapshot(ctx, p.ID, SnapshotInput{TotalValue: decimal.RequireFromString("10.0000001")})
	assertFieldError(t, err, "total_value")

	_, err = svc.AppendSnapshot(ctx, p.ID, SnapshotInput{TotalValue: decimal.Zero})
	require.NoError(t, err)
}

func TestAppendSnapshot_TruncatesToMicroseconds(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()
	user := mustUser(t, svc)
	p := mustPortfolio(t, svc, user.ID)

	first := time.Date(2026, 4, 1, 12, 0, 0, 1000100, time.UTC)
	second := first.Add(200 * time.Nanosecond)

	snap, err := svc.AppendSnapshot(ctx, p.ID, SnapshotInput{RecordedAt: &first, TotalValue: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.True(t, snap.RecordedAt.Equal(first.Truncate(time.Microsecond)))

	_, err = svc.AppendSnapshot(ctx, p.ID, SnapshotInput{RecordedAt: &second, TotalValue: decimal.NewFromInt(11)})
	assert.True(t, apperrors.IsConflict(err))
}
