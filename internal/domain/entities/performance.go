package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PerformanceSnapshot is a timestamped total-value point in a portfolio's history
type PerformanceSnapshot struct {
	ID          int64           `json:"id" db:"id"`
	PortfolioID int64           `json:"portfolio_id" db:"portfolio_id"`
	RecordedAt  time.Time       `json:"recorded_at" db:"recorded_at"`
	TotalValue  decimal.Decimal `json:"total_value" db:"total_value"`
}

// PriceClose is the closing price of a symbol on a trading day (UTC calendar date)
type PriceClose struct {
	Symbol    string          `json:"symbol" db:"symbol"`
	TradeDate time.Time       `json:"trade_date" db:"trade_date"`
	Close     decimal.Decimal `json:"close" db:"close"`
}
