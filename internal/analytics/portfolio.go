package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/platform/finance"
	"github.com/kislikjeka/finsight/pkg/money"
)

// PortfolioValue sums TotalValue over all holdings
func PortfolioValue(investments []finance.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.TotalValue)
	}
	return total
}

// PortfolioDailyChange returns the summed day change and its percentage
// relative to yesterday's value, reconstructed as today's total minus today's
// change. Both a zero change and a zero base yield a zero percent.
func PortfolioDailyChange(investments []finance.Investment) finance.DailyChange {
	absolute := decimal.Zero
	for _, inv := range investments {
		absolute = absolute.Add(inv.DayChange)
	}

	if absolute.IsZero() {
		return finance.DailyChange{Absolute: absolute, Percent: decimal.Zero}
	}

	base := PortfolioValue(investments).Sub(absolute)
	return finance.DailyChange{
		Absolute: absolute,
		Percent:  money.RoundPercent(money.Percent(absolute, base)),
	}
}
