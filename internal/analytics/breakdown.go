package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/platform/finance"
	"github.com/kislikjeka/finsight/pkg/money"
)

const (
	// DefaultTopCategories is the category breakdown size used for non-positive topK
	DefaultTopCategories = 6
	// DefaultTopSectors is the sector breakdown size used for non-positive topK
	DefaultTopSectors = 6
)

// CategoryBreakdown groups expenses by category and returns the topK largest,
// descending by amount. Equal amounts keep first-encountered order.
func CategoryBreakdown(txns []finance.Transaction, topK int) []finance.CategoryTotal {
	if topK <= 0 {
		topK = DefaultTopCategories
	}

	totals := make([]finance.CategoryTotal, 0)
	index := make(map[string]int)
	for _, tx := range txns {
		if tx.Kind != finance.KindExpense {
			continue
		}
		name := tx.CategoryName
		if name == "" {
			name = finance.UncategorizedCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(totals)
			index[name] = i
			totals = append(totals, finance.CategoryTotal{Name: name, Amount: decimal.Zero})
		}
		totals[i].Amount = totals[i].Amount.Add(tx.Magnitude())
	}

	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].Amount.GreaterThan(totals[b].Amount)
	})

	if len(totals) > topK {
		totals = totals[:topK]
	}
	return totals
}

// SectorBreakdown groups holdings by sector ("Other" when blank) and folds
// investment-type accounts into a synthetic "Accounts" sector whose day change
// is an estimate (see EstimatedAccountDayChange). Non-investment accounts in
// investmentAccounts are ignored. Sorted by value descending, truncated to topK.
func SectorBreakdown(investments []finance.Investment, investmentAccounts []finance.Account, topK int) []finance.SectorTotal {
	if topK <= 0 {
		topK = DefaultTopSectors
	}

	sectors := make([]finance.SectorTotal, 0)
	index := make(map[string]int)
	bucket := func(name string) *finance.SectorTotal {
		i, ok := index[name]
		if !ok {
			i = len(sectors)
			index[name] = i
			sectors = append(sectors, finance.SectorTotal{Sector: name, Value: decimal.Zero, DayChange: decimal.Zero})
		}
		return &sectors[i]
	}

	for _, inv := range investments {
		name := strings.TrimSpace(inv.Sector)
		if name == "" {
			name = finance.OtherSector
		}
		s := bucket(name)
		s.Value = s.Value.Add(inv.TotalValue)
		s.DayChange = s.DayChange.Add(inv.DayChange)
		s.HoldingsCount++
	}

	accountsValue := decimal.Zero
	accountsCount := 0
	for _, a := range investmentAccounts {
		if !a.IsInvestment() {
			continue
		}
		accountsValue = accountsValue.Add(a.Balance)
		accountsCount++
	}
	if accountsCount > 0 && !accountsValue.IsZero() {
		s := bucket(finance.AccountsSector)
		s.Value = s.Value.Add(accountsValue)
		s.DayChange = s.DayChange.Add(EstimatedAccountDayChange(accountsValue))
		s.HoldingsCount += accountsCount
	}

	for i := range sectors {
		sectors[i].ChangePercent = decimal.Zero
		if sectors[i].Value.IsPositive() {
			sectors[i].ChangePercent = money.RoundPercent(money.Percent(sectors[i].DayChange, sectors[i].Value))
		}
	}

	sort.SliceStable(sectors, func(a, b int) bool {
		return sectors[a].Value.GreaterThan(sectors[b].Value)
	})

	if len(sectors) > topK {
		sectors = sectors[:topK]
	}
	return sectors
}
