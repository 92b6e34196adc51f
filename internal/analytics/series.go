package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/platform/finance"
	"github.com/kislikjeka/finsight/pkg/money"
)

// SeriesOption tweaks how a series is labelled
type SeriesOption func(*seriesConfig)

type seriesConfig struct {
	locale string
}

// WithLocale sets the locale used for month labels
func WithLocale(locale string) SeriesOption {
	return func(c *seriesConfig) {
		if locale != "" {
			c.locale = locale
		}
	}
}

// CashFlowSeries returns exactly monthCount buckets for the months ending with
// now's month, oldest first. Months without transactions are zero, not omitted.
// Labels repeat across a year boundary; callers needing uniqueness should key by
// position or by Year/Month.
func CashFlowSeries(txns []finance.Transaction, now time.Time, monthCount int, opts ...SeriesOption) []finance.MonthBucket {
	cfg := seriesConfig{locale: DefaultLocale}
	for _, opt := range opts {
		opt(&cfg)
	}

	keys := TrailingMonths(now, monthCount)
	buckets := make([]finance.MonthBucket, len(keys))
	index := make(map[MonthKey]int, len(keys))
	for i, k := range keys {
		index[k] = i
		buckets[i] = finance.MonthBucket{
			Label:              MonthLabel(k.Month, cfg.locale),
			Year:               k.Year,
			Month:              k.Month,
			Income:             decimal.Zero,
			Expenses:           decimal.Zero,
			Net:                decimal.Zero,
			SavingsRatePercent: decimal.Zero,
		}
	}

	for _, tx := range txns {
		i, ok := index[KeyOf(tx.OccurredOn)]
		if !ok {
			continue
		}
		switch tx.Kind {
		case finance.KindIncome:
			buckets[i].Income = buckets[i].Income.Add(tx.Magnitude())
		case finance.KindExpense:
			buckets[i].Expenses = buckets[i].Expenses.Add(tx.Magnitude())
		}
	}

	return buckets
}

// TrendSeries is CashFlowSeries with Net and SavingsRatePercent filled in
func TrendSeries(txns []finance.Transaction, now time.Time, monthCount int, opts ...SeriesOption) []finance.MonthBucket {
	buckets := CashFlowSeries(txns, now, monthCount, opts...)
	for i := range buckets {
		buckets[i].Net = buckets[i].Income.Sub(buckets[i].Expenses)
		buckets[i].SavingsRatePercent = SavingsRate(buckets[i].Income, buckets[i].Expenses)
	}
	return buckets
}

// SavingsRate is (income-expenses)/income*100, zero when income is not
// positive, and floored at zero: a month that spent more than it earned
// reports 0, never a negative rate.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	rate := money.Percent(income.Sub(expenses), income)
	if rate.IsNegative() {
		return decimal.Zero
	}
	return money.RoundPercent(rate)
}
