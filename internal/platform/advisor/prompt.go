package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/kislikjeka/finsight/internal/analytics"
	"github.com/kislikjeka/finsight/pkg/money"
)

const basePrompt = `You are Finsight's personal finance assistant.
Answer questions about the user's own money clearly and briefly, in the language the user writes in.
Use only the figures given below when talking about the user's finances; if something is not in them, say you don't know.
You give general guidance, not regulated financial advice. Never invent account names, balances or transactions.`

const maxPromptCategories = 5

// BuildSystemInstruction grounds the model with the owner's dashboard figures.
// With a nil snapshot only the base instructions are returned.
func BuildSystemInstruction(snap *analytics.Snapshot, now time.Time) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	fmt.Fprintf(&b, "\n\nToday is %s.", now.Format("2006-01-02"))

	if snap == nil {
		b.WriteString("\nThe user's financial data is currently unavailable.")
		return b.String()
	}

	b.WriteString("\n\nThe user's finances:\n")
	fmt.Fprintf(&b, "- Total balance: %s\n", money.FormatAmount(snap.TotalBalance))
	fmt.Fprintf(&b, "- Net worth: %s\n", money.FormatAmount(snap.NetWorth))
	fmt.Fprintf(&b, "- Income this month: %s\n", money.FormatAmount(snap.MonthlyIncome))
	fmt.Fprintf(&b, "- Expenses this month: %s\n", money.FormatAmount(snap.MonthlyExpenses))
	fmt.Fprintf(&b, "- Savings rate this month: %s%%\n", money.FormatPercent(snap.SavingsRatePercent))
	fmt.Fprintf(&b, "- Portfolio value: %s (today %s, %s%%)\n",
		money.FormatAmount(snap.PortfolioValue),
		money.FormatAmount(snap.DailyChange.Absolute),
		money.FormatPercent(snap.DailyChange.Percent),
	)

	if len(snap.Categories) > 0 {
		b.WriteString("- Top spending categories:")
		for i, c := range snap.Categories {
			if i == maxPromptCategories {
				break
			}
			fmt.Fprintf(&b, " %s %s;", c.Name, money.FormatAmount(c.Amount))
		}
		b.WriteString("\n")
	}

	if len(snap.Sectors) > 0 {
		b.WriteString("- Portfolio by sector:")
		for _, s := range snap.Sectors {
			fmt.Fprintf(&b, " %s %s;", s.Sector, money.FormatAmount(s.Value))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
