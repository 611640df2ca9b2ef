package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/infrastructure/config"
	"github.com/folio-service/folio_service/internal/infrastructure/di"
	"github.com/folio-service/folio_service/pkg/logger"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPIClient(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{AllowedOrigins: []string{"*"}},
		Database:    config.DatabaseConfig{Driver: config.DriverMemory},
		RateLimit:   config.RateLimitConfig{RequestsPerMinute: 6000, Burst: 1000},
		Breaker:     config.BreakerConfig{Enabled: true, MaxRequests: 3, Interval: 10, Timeout: 30},
	}
	container, err := di.NewContainer(cfg, logger.NewLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return &apiClient{t: t, router: SetupRoutes(container)}
}

func (a *apiClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func (a *apiClient) seedPortfolio() (userID, portfolioID int64) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/users", gin.H{"username": "alice", "password": "correct horse"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[entities.User](a.t, w)

	w = a.do(http.MethodPost, "/api/v1/portfolios", gin.H{"user_id": user.ID, "name": "Retirement", "risk_level": "moderate"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[entities.Portfolio](a.t, w)
	return user.ID, p.ID
}

func TestUsersAPI(t *testing.T) {
	api := newAPIClient(t)

	w := api.do(http.MethodPost, "/api/v1/users", gin.H{"username": "alice", "password": "correct horse"})
	require.Equal(t, http.StatusCreated, w.Code)
	user := decode[entities.User](t, w)
	assert.NotContains(t, w.Body.String(), "password")

	w = api.do(http.MethodPost, "/api/v1/users", gin.H{"username": "ALICE", "password": "another secret"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decode[entities.ErrorResponse](t, w).Code)

	w = api.do(http.MethodPost, "/api/v1/users", gin.H{"username": "bo", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decode[entities.ErrorResponse](t, w)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Details, "username")
	assert.Contains(t, errResp.Details, "password")

	w = api.do(http.MethodGet, "/api/v1/users/"+strconv.FormatInt(user.ID, 10), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/v1/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/users/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[entities.ErrorResponse](t, w).Code)
}

func TestPortfoliosAPI(t *testing.T) {
	api := newAPIClient(t)
	userID, portfolioID := api.seedPortfolio()
	path := "/api/v1/portfolios/" + strconv.FormatInt(portfolioID, 10)

	w := api.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[entities.Portfolio](t, w)
	assert.Equal(t, entities.RiskLevelModerate, p.RiskLevel)
	assert.Equal(t, userID, p.UserID)

	w = api.do(http.MethodPost, "/api/v1/portfolios", gin.H{"user_id": 999, "name": "Orphan", "risk_level": "Low"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, "/api/v1/portfolios", gin.H{"user_id": userID, "name": "Bad", "risk_level": "Extreme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/v1/portfolios", `{"user_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPatch, path, gin.H{"risk_level": "HIGH"})
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[entities.Portfolio](t, w)
	assert.Equal(t, entities.RiskLevelHigh, p.RiskLevel)
	assert.Equal(t, "Retirement", p.Name)

	w = api.do(http.MethodPut, path, gin.H{"user_id": userID, "name": "College", "risk_level": "Low"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "College", decode[entities.Portfolio](t, w).Name)

	w = api.do(http.MethodGet, "/api/v1/portfolios?user_id="+strconv.FormatInt(userID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.Portfolio](t, w), 1)

	w = api.do(http.MethodGet, "/api/v1/portfolios?user_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/users/"+strconv.FormatInt(userID, 10)+"/portfolios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.Portfolio](t, w), 1)
}

func TestInvestmentsAndSummaryAPI(t *testing.T) {
	api := newAPIClient(t)
	_, portfolioID := api.seedPortfolio()
	pid := strconv.FormatInt(portfolioID, 10)

	w := api.do(http.MethodPost, "/api/v1/investments", gin.H{
		"portfolio_id":   portfolioID,
		"name":           "Acme Corp",
		"symbol":         "acme",
		"type":           "stock",
		"shares":         "10",
		"purchase_price": "100",
		"current_price":  "110",
		"purchase_date":  "2025-01-15",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[entities.InvestmentWithPerformance](t, w)
	assert.Equal(t, "ACME", inv.Symbol)
	assertDecimal(t, "1100", inv.Value)
	assertDecimal(t, "100", inv.TotalReturn)
	assertDecimal(t, "10", inv.TotalReturnPercent)

	w = api.do(http.MethodPost, "/api/v1/investments", gin.H{
		"portfolio_id":   portfolioID,
		"name":           "Treasury",
		"symbol":         "UST",
		"type":           "Bond",
		"shares":         "2",
		"purchase_price": "100",
		"current_price":  "100",
		"purchase_date":  "2025-02-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/v1/investments", gin.H{
		"portfolio_id": portfolioID, "name": "Bad", "symbol": "BAD", "type": "Crypto",
		"shares": "1", "purchase_price": "1", "current_price": "1", "purchase_date": "2025-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/v1/investments", gin.H{
		"portfolio_id": 999, "name": "Orphan", "symbol": "ORP", "type": "Stock",
		"shares": "1", "purchase_price": "1", "current_price": "1", "purchase_date": "2025-01-01",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	invPath := "/api/v1/investments/" + strconv.FormatInt(inv.ID, 10)
	w = api.do(http.MethodPatch, invPath, gin.H{"current_price": "120"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assertDecimal(t, "1200", decode[entities.InvestmentWithPerformance](t, w).Value)

	w = api.do(http.MethodGet, "/api/v1/portfolios/"+pid+"/investments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.InvestmentWithPerformance](t, w), 2)

	w = api.do(http.MethodGet, "/api/v1/portfolios/999/investments", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/v1/portfolios/"+pid+"/summary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decode[entities.PortfolioSummary](t, w)
	assertDecimal(t, "1400", summary.TotalValue)
	require.Len(t, summary.AssetAllocation, 2)
	assert.Equal(t, entities.InvestmentTypeStock, summary.AssetAllocation[0].Type)
	assert.Equal(t, entities.InvestmentTypeBond, summary.AssetAllocation[1].Type)
	assert.Empty(t, summary.PerformanceData)

	w = api.do(http.MethodDelete, invPath, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodGet, invPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/v1/portfolios/0/summary", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodGet, "/api/v1/portfolios/999/summary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPerformanceAPI(t *testing.T) {
	api := newAPIClient(t)
	_, portfolioID := api.seedPortfolio()
	base := "/api/v1/portfolios/" + strconv.FormatInt(portfolioID, 10) + "/performance"

	w := api.do(http.MethodPost, base, gin.H{"recorded_at": "2026-01-02T00:00:00Z", "total_value": "1000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, base, gin.H{"recorded_at": "2026-01-02T00:00:00Z", "total_value": "1005"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, base, gin.H{"recorded_at": "2026-02-02T00:00:00Z", "total_value": "-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, base, gin.H{"recorded_at": "2026-02-02T00:00:00Z", "total_value": "1100"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodPost, base+"/record", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assertDecimal(t, "0", decode[entities.PerformanceSnapshot](t, w).TotalValue)

	w = api.do(http.MethodGet, base+"?from=2026-01-01&to=2026-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inJanuary := decode[[]entities.PerformanceSnapshot](t, w)
	require.Len(t, inJanuary, 1)
	assertDecimal(t, "1000", inJanuary[0].TotalValue)

	w = api.do(http.MethodGet, base+"?from=2026-02-01&to=2026-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodGet, base+"?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.PerformanceSnapshot](t, w), 3)

	w = api.do(http.MethodPost, "/api/v1/portfolios/999/performance/record", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPricesAPI(t *testing.T) {
	api := newAPIClient(t)

	w := api.do(http.MethodPut, "/api/v1/prices/acme/closes", gin.H{"date": "2026-03-02", "close": "101.25"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pc := decode[entities.PriceClose](t, w)
	assert.Equal(t, "ACME", pc.Symbol)

	w = api.do(http.MethodPut, "/api/v1/prices/acme/closes", gin.H{"date": "2026-03-02", "close": "0"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/prices/ACME/closes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	closes := decode[[]entities.PriceClose](t, w)
	require.Len(t, closes, 1)
	assertDecimal(t, "101.25", closes[0].Close)
}

func TestCascadeDeleteAPI(t *testing.T) {
	api := newAPIClient(t)
	userID, portfolioID := api.seedPortfolio()
	pid := strconv.FormatInt(portfolioID, 10)

	w := api.do(http.MethodDelete, "/api/v1/users/"+strconv.FormatInt(userID, 10), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, "/api/v1/portfolios/"+pid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(http.MethodDelete, "/api/v1/portfolios/"+pid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	api := newAPIClient(t)

	for _, path := range []string{"/health", "/ready", "/live", "/version", "/metrics"} {
		w := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := api.do(http.MethodGet, "/version", nil)
	assert.Contains(t, w.Body.String(), `"service":"folio_service"`)

	w = api.do(http.MethodGet, "/api/v1/portfolios", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
