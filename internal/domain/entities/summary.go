package entities

import (
	"github.com/shopspring/decimal"
)

// PerformancePoint is one chart-ready point of a portfolio's value history
type PerformancePoint struct {
	Date  string          `json:"date"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// AssetAllocation is the share of portfolio value held in one investment type
type AssetAllocation struct {
	Type       InvestmentType  `json:"type"`
	Percentage decimal.Decimal `json:"percentage"`
	Value      decimal.Decimal `json:"value"`
}

// PortfolioSummary is the dashboard view of a portfolio, derived on every read
type PortfolioSummary struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	RiskLevel          RiskLevel          `json:"risk_level"`
	TotalValue         decimal.Decimal    `json:"total_value"`
	DailyChange        decimal.Decimal    `json:"daily_change"`
	DailyChangePercent decimal.Decimal    `json:"daily_change_percent"`
	YTDReturn          decimal.Decimal    `json:"ytd_return"`
	YTDReturnValue     decimal.Decimal    `json:"ytd_return_value"`
	PerformanceData    []PerformancePoint `json:"performance_data"`
	AssetAllocation    []AssetAllocation  `json:"asset_allocation"`
}

// ErrorResponse represents an API error payload
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
