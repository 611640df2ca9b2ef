package portfolio

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a request timestamp that also accepts a bare YYYY-MM-DD calendar date
type Date struct {
	time.Time
}

// NewDate wraps t
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ptr returns the wrapped time, or nil for a nil Date
func (d *Date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.UTC()
	return &t
}

// CreateUserInput registers a user
type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// PortfolioInput is a full portfolio body, used for create and replace
type PortfolioInput struct {
	UserID    int64  `json:"user_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=255"`
	RiskLevel string `json:"risk_level" validate:"required"`
}

// PortfolioPatch is a partial portfolio update; nil fields are left unchanged
type PortfolioPatch struct {
	UserID    *int64  `json:"user_id" validate:"omitempty,gt=0"`
	Name      *string `json:"name" validate:"omitempty,max=255"`
	RiskLevel *string `json:"risk_level"`
}

// InvestmentInput is a full investment body, used for create and replace
type InvestmentInput struct {
	PortfolioID   int64           `json:"portfolio_id" validate:"required,gt=0"`
	Name          string          `json:"name" validate:"required,max=255"`
	Symbol        string          `json:"symbol" validate:"required,max=32"`
	Type          string          `json:"type" validate:"required"`
	Shares        decimal.Decimal `json:"shares" validate:"positive,scale"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"positive,scale"`
	CurrentPrice  decimal.Decimal `json:"current_price" validate:"positive,scale"`
	PurchaseDate  Date            `json:"purchase_date" validate:"required"`
}

// InvestmentPatch is a partial investment update; nil fields are left unchanged
type InvestmentPatch struct {
	PortfolioID   *int64           `json:"portfolio_id" validate:"omitempty,gt=0"`
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Symbol        *string          `json:"symbol" validate:"omitempty,max=32"`
	Type          *string          `json:"type"`
	Shares        *decimal.Decimal `json:"shares" validate:"omitempty,positive,scale"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"omitempty,positive,scale"`
	CurrentPrice  *decimal.Decimal `json:"current_price" validate:"omitempty,positive,scale"`
	PurchaseDate  *Date            `json:"purchase_date"`
}

// SnapshotInput appends a performance snapshot; a nil RecordedAt means now
type SnapshotInput struct {
	RecordedAt *time.Time      `json:"recorded_at"`
	TotalValue decimal.Decimal `json:"total_value" validate:"nonnegative,scale"`
}

// PriceCloseInput records the close of a symbol on a day
type PriceCloseInput struct {
	Date  Date            `json:"date" validate:"required"`
	Close decimal.Decimal `json:"close" validate:"positive,scale"`
}
