package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/pkg/money"
)

// The functions in this file are estimates, not analytics backed by market or
// historical data. Anything rendered from them must be labelled as estimated.

// EstimatedAccountDailyRate is the fixed daily change assumed for investment
// accounts, which carry a balance but no per-holding market data.
var EstimatedAccountDailyRate = decimal.RequireFromString("0.015")

// EstimatedAccountDayChange applies EstimatedAccountDailyRate to an account value
func EstimatedAccountDayChange(value decimal.Decimal) decimal.Decimal {
	return value.Mul(EstimatedAccountDailyRate)
}

// EstimatedMonthOverMonthChange is the "change from last month" label value:
// the percentage change between two month totals, relative to the magnitude of
// the previous one. It is zero when there is no previous month to compare with.
func EstimatedMonthOverMonthChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return money.RoundPercent(money.Percent(current.Sub(previous), previous.Abs()))
}
