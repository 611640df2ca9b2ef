package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentType classifies the instrument held by an investment
type InvestmentType string

const (
	InvestmentTypeStock      InvestmentType = "Stock"
	InvestmentTypeBond       InvestmentType = "Bond"
	InvestmentTypeMutualFund InvestmentType = "Mutual Fund"
)

// InvestmentTypes lists the accepted types in canonical order
var InvestmentTypes = []InvestmentType{InvestmentTypeStock, InvestmentTypeBond, InvestmentTypeMutualFund}

// IsValid reports whether t is a known investment type
func (t InvestmentType) IsValid() bool {
	return t.Rank() >= 0
}

// Rank returns the position of t in InvestmentTypes, or -1 if unknown
func (t InvestmentType) Rank() int {
	for i, known := range InvestmentTypes {
		if t == known {
			return i
		}
	}
	return -1
}

// Investment is a holding of shares of a single instrument
type Investment struct {
	ID            int64           `json:"id" db:"id"`
	PortfolioID   int64           `json:"portfolio_id" db:"portfolio_id"`
	Name          string          `json:"name" db:"name"`
	Symbol        string          `json:"symbol" db:"symbol"`
	Type          InvestmentType  `json:"type" db:"type"`
	Shares        decimal.Decimal `json:"shares" db:"shares"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price" db:"current_price"`
	PurchaseDate  time.Time       `json:"purchase_date" db:"purchase_date"`
}

// InvestmentUpdate carries a partial investment update; nil fields are left unchanged
type InvestmentUpdate struct {
	PortfolioID   *int64
	Name          *string
	Symbol        *string
	Type          *InvestmentType
	Shares        *decimal.Decimal
	PurchasePrice *decimal.Decimal
	CurrentPrice  *decimal.Decimal
	PurchaseDate  *time.Time
}

// Apply copies the set fields onto inv
func (u InvestmentUpdate) Apply(inv *Investment) {
	if u.PortfolioID != nil {
		inv.PortfolioID = *u.PortfolioID
	}
	if u.Name != nil {
		inv.Name = *u.Name
	}
	if u.Symbol != nil {
		inv.Symbol = *u.Symbol
	}
	if u.Type != nil {
		inv.Type = *u.Type
	}
	if u.Shares != nil {
		inv.Shares = *u.Shares
	}
	if u.PurchasePrice != nil {
		inv.PurchasePrice = *u.PurchasePrice
	}
	if u.CurrentPrice != nil {
		inv.CurrentPrice = *u.CurrentPrice
	}
	if u.PurchaseDate != nil {
		inv.PurchaseDate = *u.PurchaseDate
	}
}

// InvestmentWithPerformance is an investment enriched with its current economic state.
// It is derived on every read and never persisted.
type InvestmentWithPerformance struct {
	Investment
	Value              decimal.Decimal `json:"value"`
	DailyChange        decimal.Decimal `json:"daily_change"`
	DailyChangePercent decimal.Decimal `json:"daily_change_percent"`
	TotalReturn        decimal.Decimal `json:"total_return"`
	TotalReturnPercent decimal.Decimal `json:"total_return_percent"`
}
