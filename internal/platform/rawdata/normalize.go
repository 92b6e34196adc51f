package rawdata

import (
	"strings"

	"github.com/kislikjeka/finsight/internal/platform/finance"
)

// Result is a normalized batch together with the number of rows left out
type Result[T any] struct {
	Items   []T
	Dropped int
}

// NormalizeTransactions converts raw rows into canonical transactions for one
// owner. Output order follows input order. Malformed rows are dropped and only
// counted; a bad row never fails the batch.
func NormalizeTransactions(rows []RawTransaction, ownerKey string) Result[finance.Transaction] {
	out := make([]finance.Transaction, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		tx, err := NormalizeTransaction(row, ownerKey)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, tx)
	}
	return Result[finance.Transaction]{Items: out, Dropped: dropped}
}

// NormalizeTransaction converts a single raw row.
//
// A row without an amount is unusable and is rejected. A row with an amount but
// no kind takes its kind from the amount's sign (negative means expense).
func NormalizeTransaction(row RawTransaction, ownerKey string) (finance.Transaction, error) {
	f, err := extract(row)
	if err != nil {
		return finance.Transaction{}, err
	}

	kindStr := strings.ToLower(strings.TrimSpace(f.kind))
	if f.amount == nil {
		if kindStr == "" {
			return finance.Transaction{}, ErrMissingAmountAndKind
		}
		return finance.Transaction{}, ErrMissingAmount
	}

	var kind finance.Kind
	if kindStr == "" {
		kind = finance.KindIncome
		if f.amount.IsNegative() {
			kind = finance.KindExpense
		}
	} else {
		var ok bool
		if kind, ok = finance.ParseKind(kindStr); !ok {
			return finance.Transaction{}, ErrUnknownKind
		}
	}

	occurredOn, err := ParseDate(f.date)
	if err != nil {
		return finance.Transaction{}, err
	}

	category := strings.TrimSpace(f.categoryName)
	if category == "" {
		category = finance.UncategorizedCategory
	}

	return finance.Transaction{
		ID:           f.id,
		AccountRef:   f.accountRef,
		AccountName:  strings.TrimSpace(f.accountName),
		CategoryName: category,
		Description:  f.description,
		Amount:       *f.amount,
		Kind:         kind,
		OccurredOn:   occurredOn,
		OwnerKey:     ownerKey,
	}, nil
}

// NormalizeAccounts converts raw account rows. Rows without a balance are dropped.
func NormalizeAccounts(rows []RawAccount, ownerKey string) Result[finance.Account] {
	out := make([]finance.Account, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		acc, err := NormalizeAccount(row, ownerKey)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, acc)
	}
	return Result[finance.Account]{Items: out, Dropped: dropped}
}

// NormalizeAccount converts one raw account row
func NormalizeAccount(row RawAccount, ownerKey string) (finance.Account, error) {
	if row.Balance == nil {
		return finance.Account{}, ErrMissingBalance
	}
	return finance.Account{
		ID:       row.ID,
		Name:     row.name(),
		Type:     finance.AccountType(strings.ToLower(row.accountType())),
		Balance:  *row.Balance,
		OwnerKey: ownerKey,
	}, nil
}
