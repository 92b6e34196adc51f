package rawdata

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Shape identifies which of the two stored transaction representations a row uses
type Shape string

const (
	// ShapeFlat rows carry category and account names as inline strings
	ShapeFlat Shape = "flat"
	// ShapeLinked rows carry category and account as joined sub-records
	ShapeLinked Shape = "linked"
)

// RawTransaction is a transaction row as it comes out of the record store.
// It is a closed union: only FlatRawTransaction and LinkedRawTransaction implement it.
type RawTransaction interface {
	Shape() Shape
	rawTransaction()
}

// FlatRawTransaction is the legacy inline representation
type FlatRawTransaction struct {
	ID              string
	AccountRef      string
	Description     string
	Amount          *decimal.Decimal
	Type            string
	TransactionDate string
	Category        string
	AccountName     string
}

// Shape returns ShapeFlat
func (FlatRawTransaction) Shape() Shape { return ShapeFlat }
func (FlatRawTransaction) rawTransaction() {}

// CategoryRef is the category sub-record of a linked row
type CategoryRef struct {
	ID   string
	Name string
}

// AccountRef is the account sub-record of a linked row
type AccountRef struct {
	ID          string
	AccountName string
}

// LinkedRawTransaction is the normalized-schema representation. Inline name
// fields may still be populated; the sub-records take precedence when present.
type LinkedRawTransaction struct {
	ID                string
	AccountRef        string
	Description       string
	Amount            *decimal.Decimal
	Type              string
	TransactionDate   string
	Category          *CategoryRef
	Account           *AccountRef
	InlineCategory    string
	InlineAccountName string
}

// Shape returns ShapeLinked
func (LinkedRawTransaction) Shape() Shape { return ShapeLinked }
func (LinkedRawTransaction) rawTransaction() {}

// fields is the shape-independent view used by the normalizer
type fields struct {
	id           string
	accountRef   string
	accountName  string
	categoryName string
	description  string
	amount       *decimal.Decimal
	kind         string
	date         string
}

func extract(row RawTransaction) (fields, error) {
	switch r := row.(type) {
	case FlatRawTransaction:
		return fields{
			id:           r.ID,
			accountRef:   r.AccountRef,
			accountName:  r.AccountName,
			categoryName: r.Category,
			description:  r.Description,
			amount:       r.Amount,
			kind:         r.Type,
			date:         r.TransactionDate,
		}, nil
	case *FlatRawTransaction:
		if r == nil {
			return fields{}, ErrUnknownShape
		}
		return extract(*r)
	case LinkedRawTransaction:
		f := fields{
			id:           r.ID,
			accountRef:   r.AccountRef,
			accountName:  r.InlineAccountName,
			categoryName: r.InlineCategory,
			description:  r.Description,
			amount:       r.Amount,
			kind:         r.Type,
			date:         r.TransactionDate,
		}
		if r.Category != nil && r.Category.Name != "" {
			f.categoryName = r.Category.Name
		}
		if r.Account != nil {
			if r.Account.AccountName != "" {
				f.accountName = r.Account.AccountName
			}
			if f.accountRef == "" {
				f.accountRef = r.Account.ID
			}
		}
		return f, nil
	case *LinkedRawTransaction:
		if r == nil {
			return fields{}, ErrUnknownShape
		}
		return extract(*r)
	default:
		return fields{}, ErrUnknownShape
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate reads a stored date and truncates it to its calendar date in UTC.
// Timestamps keep the calendar date they were written with, not the UTC one.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
