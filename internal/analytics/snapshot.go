package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/platform/finance"
)

// SnapshotInput is everything the dashboard aggregates over
type SnapshotInput struct {
	Accounts      []finance.Account
	Transactions  []finance.Transaction
	Investments   []finance.Investment
	Now           time.Time
	Locale        string
	Months        int
	TopCategories int
	TopSectors    int
}

// Snapshot is the full set of dashboard metrics for one owner at one instant
type Snapshot struct {
	TotalBalance       decimal.Decimal
	NetWorth           decimal.Decimal
	MonthlyIncome      decimal.Decimal
	MonthlyExpenses    decimal.Decimal
	SavingsRatePercent decimal.Decimal
	PortfolioValue     decimal.Decimal
	DailyChange        finance.DailyChange
	CashFlow           []finance.MonthBucket
	Trends             []finance.MonthBucket
	Categories         []finance.CategoryTotal
	Sectors            []finance.SectorTotal

	// Estimated "change from last month" labels; see placeholder.go
	EstimatedIncomeChangePercent  decimal.Decimal
	EstimatedExpenseChangePercent decimal.Decimal
}

// BuildSnapshot computes every dashboard metric in one pass over the inputs
func BuildSnapshot(in SnapshotInput) Snapshot {
	locale := WithLocale(in.Locale)
	trends := TrendSeries(in.Transactions, in.Now, in.Months, locale)

	income := MonthlyIncome(in.Transactions, in.Now)
	expenses := MonthlyExpenses(in.Transactions, in.Now)

	snap := Snapshot{
		TotalBalance:       TotalBalance(in.Accounts),
		NetWorth:           NetWorth(in.Accounts),
		MonthlyIncome:      income,
		MonthlyExpenses:    expenses,
		SavingsRatePercent: SavingsRate(income, expenses),
		PortfolioValue:     PortfolioValue(in.Investments),
		DailyChange:        PortfolioDailyChange(in.Investments),
		CashFlow:           CashFlowSeries(in.Transactions, in.Now, in.Months, locale),
		Trends:             trends,
		Categories:         CategoryBreakdown(in.Transactions, in.TopCategories),
		Sectors: SectorBreakdown(
			in.Investments,
			finance.FilterAccounts(in.Accounts, finance.Account.IsInvestment),
			in.TopSectors,
		),
		EstimatedIncomeChangePercent:  decimal.Zero,
		EstimatedExpenseChangePercent: decimal.Zero,
	}

	if n := len(trends); n >= 2 {
		current, previous := trends[n-1], trends[n-2]
		snap.EstimatedIncomeChangePercent = EstimatedMonthOverMonthChange(current.Income, previous.Income)
		snap.EstimatedExpenseChangePercent = EstimatedMonthOverMonthChange(current.Expenses, previous.Expenses)
	}

	return snap
}
