package handler

import (
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/module/dashboard"
	"github.com/kislikjeka/finsight/internal/platform/finance"
	"github.com/kislikjeka/finsight/pkg/money"
)

// Money is serialized as a fixed two-decimal string ("1234.50") and
// percentages as a two-decimal string ("12.34").

// MonthResponse is one month of the cash-flow or trends series
type MonthResponse struct {
	Label              string `json:"label"`
	Year               int    `json:"year"`
	Month              int    `json:"month"`
	Income             string `json:"income"`
	Expenses           string `json:"expenses"`
	Net                string `json:"net"`
	SavingsRatePercent string `json:"savings_rate_percent"`
}

// CategoryResponse is one expense category
type CategoryResponse struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// SectorResponse is one investment sector
type SectorResponse struct {
	Sector        string `json:"sector"`
	Value         string `json:"value"`
	DayChange     string `json:"day_change"`
	ChangePercent string `json:"change_percent"`
	HoldingsCount int    `json:"holdings_count"`
}

// DailyChangeResponse is the portfolio change since the previous close
type DailyChangeResponse struct {
	Absolute string `json:"absolute"`
	Percent  string `json:"percent"`
}

// EstimatesResponse carries figures that are not backed by historical data
type EstimatesResponse struct {
	IncomeChangePercent  string `json:"income_change_percent"`
	ExpenseChangePercent string `json:"expense_change_percent"`
	Estimated            bool   `json:"estimated"`
}

// SummaryResponse is the full dashboard payload
type SummaryResponse struct {
	TotalBalance       string              `json:"total_balance"`
	NetWorth           string              `json:"net_worth"`
	MonthlyIncome      string              `json:"monthly_income"`
	MonthlyExpenses    string              `json:"monthly_expenses"`
	SavingsRatePercent string              `json:"savings_rate_percent"`
	PortfolioValue     string              `json:"portfolio_value"`
	DailyChange        DailyChangeResponse `json:"daily_change"`
	CashFlow           []MonthResponse     `json:"cash_flow"`
	Trends             []MonthResponse     `json:"trends"`
	Categories         []CategoryResponse  `json:"categories"`
	Sectors            []SectorResponse    `json:"sectors"`
	Estimates          EstimatesResponse   `json:"estimates"`
	Unavailable        []string            `json:"unavailable"`
	GeneratedAt        string              `json:"generated_at"`
}

// AccountResponse is a normalized account
type AccountResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance string `json:"balance"`
}

// TransactionResponse is a normalized transaction
type TransactionResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Date        string `json:"date"`
}

// InvestmentResponse is a single holding
type InvestmentResponse struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Shares           float64 `json:"shares"`
	CurrentPrice     string  `json:"current_price"`
	TotalValue       string  `json:"total_value"`
	DayChange        string  `json:"day_change"`
	DayChangePercent string  `json:"day_change_percent"`
	Sector           string  `json:"sector,omitempty"`
	Rating           string  `json:"rating,omitempty"`
}

func amount(d decimal.Decimal) string {
	return money.FormatAmount(d)
}

func percent(d decimal.Decimal) string {
	return money.FormatPercent(d)
}

func toMonthResponses(buckets []finance.MonthBucket) []MonthResponse {
	out := make([]MonthResponse, len(buckets))
	for i, b := range buckets {
		out[i] = MonthResponse{
			Label:              b.Label,
			Year:               b.Year,
			Month:              int(b.Month),
			Income:             amount(b.Income),
			Expenses:           amount(b.Expenses),
			Net:                amount(b.Net),
			SavingsRatePercent: percent(b.SavingsRatePercent),
		}
	}
	return out
}

func toCategoryResponses(totals []finance.CategoryTotal) []CategoryResponse {
	out := make([]CategoryResponse, len(totals))
	for i, c := range totals {
		out[i] = CategoryResponse{Name: c.Name, Amount: amount(c.Amount)}
	}
	return out
}

func toSectorResponses(totals []finance.SectorTotal) []SectorResponse {
	out := make([]SectorResponse, len(totals))
	for i, s := range totals {
		out[i] = SectorResponse{
			Sector:        s.Sector,
			Value:         amount(s.Value),
			DayChange:     amount(s.DayChange),
			ChangePercent: percent(s.ChangePercent),
			HoldingsCount: s.HoldingsCount,
		}
	}
	return out
}

func toSummaryResponse(s *dashboard.Summary) SummaryResponse {
	unavailable := make([]string, len(s.Unavailable))
	for i, r := range s.Unavailable {
		unavailable[i] = string(r)
	}
	return SummaryResponse{
		TotalBalance:       amount(s.TotalBalance),
		NetWorth:           amount(s.NetWorth),
		MonthlyIncome:      amount(s.MonthlyIncome),
		MonthlyExpenses:    amount(s.MonthlyExpenses),
		SavingsRatePercent: percent(s.SavingsRatePercent),
		PortfolioValue:     amount(s.PortfolioValue),
		DailyChange: DailyChangeResponse{
			Absolute: amount(s.DailyChange.Absolute),
			Percent:  percent(s.DailyChange.Percent),
		},
		CashFlow:   toMonthResponses(s.CashFlow),
		Trends:     toMonthResponses(s.Trends),
		Categories: toCategoryResponses(s.Categories),
		Sectors:    toSectorResponses(s.Sectors),
		Estimates: EstimatesResponse{
			IncomeChangePercent:  percent(s.EstimatedIncomeChangePercent),
			ExpenseChangePercent: percent(s.EstimatedExpenseChangePercent),
			Estimated:            true,
		},
		Unavailable: unavailable,
		GeneratedAt: formatTime(s.GeneratedAt),
	}
}

func toAccountResponses(accounts []finance.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = AccountResponse{
			ID:      a.ID,
			Name:    a.Name,
			Type:    string(a.Type),
			Balance: amount(a.Balance),
		}
	}
	return out
}

func toTransactionResponses(txns []finance.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = TransactionResponse{
			ID:          t.ID,
			AccountID:   t.AccountRef,
			AccountName: t.AccountName,
			Category:    t.CategoryName,
			Description: t.Description,
			Amount:      amount(t.Amount),
			Type:        string(t.Kind),
			Date:        formatDate(t.OccurredOn),
		}
	}
	return out
}

func toInvestmentResponses(investments []finance.Investment) []InvestmentResponse {
	out := make([]InvestmentResponse, len(investments))
	for i, inv := range investments {
		out[i] = InvestmentResponse{
			ID:               inv.ID,
			Symbol:           inv.Symbol,
			Name:             inv.Name,
			Shares:           inv.Shares,
			CurrentPrice:     amount(inv.CurrentPrice),
			TotalValue:       amount(inv.TotalValue),
			DayChange:        amount(inv.DayChange),
			DayChangePercent: percent(inv.DayChangePercent),
			Sector:           inv.Sector,
			Rating:           inv.Rating,
		}
	}
	return out
}
