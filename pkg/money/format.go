package money

import "github.com/shopspring/decimal"

const (
	// AmountPlaces is the number of fractional digits used when serializing money
	AmountPlaces = 2

	// PercentPlaces is the number of fractional digits kept on percentages
	PercentPlaces = 2
)

var hundred = decimal.NewFromInt(100)

// FormatAmount renders a money value with a fixed two-digit fraction ("1234.50")
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// FormatPercent renders a percentage with a fixed two-digit fraction ("98.00")
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(PercentPlaces)
}

// Percent returns part/whole*100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// RoundPercent rounds a percentage to PercentPlaces digits
func RoundPercent(d decimal.Decimal) decimal.Decimal {
	return d.Round(PercentPlaces)
}
