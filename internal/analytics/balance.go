// Package analytics turns canonical accounts, transactions and investments into
// dashboard metrics. Every function is pure: inputs are never modified, nothing
// is cached, and the same input with the same reference time always yields the
// same output. Degenerate input (empty lists, zero amounts) yields zero values.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/platform/finance"
)

// TotalBalance is the sum of all account balances, negative ones included
func TotalBalance(accounts []finance.Account) decimal.Decimal {
	return sumBalances(accounts)
}

// NetWorth is currently the same sum as TotalBalance. The two stay separate
// because net worth is expected to start subtracting liabilities that are not
// modeled as negative-balance accounts.
func NetWorth(accounts []finance.Account) decimal.Decimal {
	return sumBalances(accounts)
}

func sumBalances(accounts []finance.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}
