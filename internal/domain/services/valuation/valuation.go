// Package valuation derives the current economic state of a single investment.
package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/folio-service/folio_service/internal/domain/entities"
)

// PercentScale is the number of decimal places kept on every derived percentage
const PercentScale int32 = 4

var hundred = decimal.NewFromInt(100)

// Percent returns part / whole × 100 rounded to PercentScale, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(PercentScale)
}

// Evaluate values inv at its current price. previousClose is the last close before
// the valuation day; nil means no history and yields a zero daily change.
func Evaluate(inv entities.Investment, previousClose *decimal.Decimal) entities.InvestmentWithPerformance {
	value := inv.Shares.Mul(inv.CurrentPrice)
	purchaseValue := inv.Shares.Mul(inv.PurchasePrice)
	totalReturn := value.Sub(purchaseValue)

	dailyChange := decimal.Zero
	dailyChangePercent := decimal.Zero
	if previousClose != nil && previousClose.IsPositive() {
		delta := inv.CurrentPrice.Sub(*previousClose)
		dailyChange = delta.Mul(inv.Shares)
		dailyChangePercent = Percent(delta, *previousClose)
	}

	return entities.InvestmentWithPerformance{
		Investment:         inv,
		Value:              value,
		DailyChange:        dailyChange,
		DailyChangePercent: dailyChangePercent,
		TotalReturn:        totalReturn,
		TotalReturnPercent: Percent(totalReturn, purchaseValue),
	}
}

// EvaluateAll values every investment using closes keyed by symbol
func EvaluateAll(investments []*entities.Investment, closes map[string]entities.PriceClose) []entities.InvestmentWithPerformance {
	out := make([]entities.InvestmentWithPerformance, 0, len(investments))
	for _, inv := range investments {
		var prev *decimal.Decimal
		if c, ok := closes[inv.Symbol]; ok {
			closePrice := c.Close
			prev = &closePrice
		}
		out = append(out, Evaluate(*inv, prev))
	}
	return out
}

// Symbols returns the distinct symbols of investments in first-seen order
func Symbols(investments []*entities.Investment) []string {
	seen := make(map[string]struct{}, len(investments))
	symbols := make([]string, 0, len(investments))
	for _, inv := range investments {
		if _, ok := seen[inv.Symbol]; ok {
			continue
		}
		seen[inv.Symbol] = struct{}{}
		symbols = append(symbols, inv.Symbol)
	}
	return symbols
}

// StartOfDay truncates t to midnight UTC
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
