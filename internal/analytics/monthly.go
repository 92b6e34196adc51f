package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/platform/finance"
)

// MonthlyIncome sums income transactions dated in now's calendar month
func MonthlyIncome(txns []finance.Transaction, now time.Time) decimal.Decimal {
	return monthTotal(txns, now, finance.KindIncome)
}

// MonthlyExpenses sums abs(amount) of expense transactions dated in now's
// calendar month. The result is never negative.
func MonthlyExpenses(txns []finance.Transaction, now time.Time) decimal.Decimal {
	return monthTotal(txns, now, finance.KindExpense)
}

func monthTotal(txns []finance.Transaction, now time.Time, kind finance.Kind) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txns {
		if tx.Kind != kind || !SameMonth(tx.OccurredOn, now) {
			continue
		}
		total = total.Add(tx.Magnitude())
	}
	return total
}
