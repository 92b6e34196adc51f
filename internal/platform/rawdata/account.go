package rawdata

import "github.com/shopspring/decimal"

// RawAccount is an account row as stored. Older rows only carry Name/Type,
// newer ones AccountName/AccountType; the latter win when both are set.
type RawAccount struct {
	ID          string
	Name        string
	AccountName string
	Type        string
	AccountType string
	Balance     *decimal.Decimal
}

func (r RawAccount) name() string {
	if r.AccountName != "" {
		return r.AccountName
	}
	return r.Name
}

func (r RawAccount) accountType() string {
	if r.AccountType != "" {
		return r.AccountType
	}
	return r.Type
}
