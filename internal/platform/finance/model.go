package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tells whether a transaction moved money in or out. It is authoritative
// for sign: expense magnitudes are always taken as abs(amount).
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind maps a raw type string onto a Kind
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindIncome:
		return KindIncome, true
	case KindExpense:
		return KindExpense, true
	}
	return "", false
}

// AccountType classifies an account. Values outside the known set are kept as-is.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCreditCard AccountType = "credit_card"
)

const (
	// UncategorizedCategory is used when a transaction has no category at all
	UncategorizedCategory = "Uncategorized"

	// OtherSector groups holdings with no sector
	OtherSector = "Other"

	// AccountsSector is the synthetic sector for investment-type accounts
	AccountsSector = "Accounts"
)

// Transaction is the canonical, engine-facing transaction
type Transaction struct {
	ID           string
	AccountRef   string
	AccountName  string
	CategoryName string
	Description  string
	Amount       decimal.Decimal
	Kind         Kind
	OccurredOn   time.Time // calendar date, midnight UTC
	OwnerKey     string
}

// Magnitude returns the value the transaction contributes to its kind's total
func (t Transaction) Magnitude() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Abs()
	}
	return t.Amount
}

// Account is a single balance-carrying account. Balance may be negative.
type Account struct {
	ID       string
	Name     string
	Type     AccountType
	Balance  decimal.Decimal
	OwnerKey string
}

// IsInvestment reports whether the account is an investment-type account
func (a Account) IsInvestment() bool {
	return a.Type == AccountTypeInvestment
}

// Investment is a direct holding. TotalValue is authoritative and is never
// recomputed from Shares*CurrentPrice.
type Investment struct {
	ID               string
	Symbol           string
	Name             string
	Shares           float64
	CurrentPrice     decimal.Decimal
	TotalValue       decimal.Decimal
	DayChange        decimal.Decimal
	DayChangePercent decimal.Decimal
	Sector           string
	Rating           string
	OwnerKey         string
}

// MonthBucket is one calendar month of a cash-flow or trend series
type MonthBucket struct {
	Label              string
	Year               int
	Month              time.Month
	Income             decimal.Decimal
	Expenses           decimal.Decimal
	Net                decimal.Decimal
	SavingsRatePercent decimal.Decimal
}

// CategoryTotal is the expense total of one category
type CategoryTotal struct {
	Name   string
	Amount decimal.Decimal
}

// SectorTotal is the aggregated value of one investment sector
type SectorTotal struct {
	Sector        string
	Value         decimal.Decimal
	DayChange     decimal.Decimal
	ChangePercent decimal.Decimal
	HoldingsCount int
}

// DailyChange is the portfolio-wide change since the previous close
type DailyChange struct {
	Absolute decimal.Decimal
	Percent  decimal.Decimal
}

// FilterAccounts returns the accounts matching keep, leaving the input untouched
func FilterAccounts(accounts []Account, keep func(Account) bool) []Account {
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
