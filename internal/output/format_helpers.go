package output

import (
	"github.com/rgehrsitz/goalcalc/internal/calculation"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats an amount as USD with thousands separators and 2 decimals.
func FormatCurrency(amount float64) string {
	return calculation.FormatMoney(amount, 2)
}

// FormatPercentage formats a fraction (0.523) as a percentage with 1 decimal (52.3%).
func FormatPercentage(fraction float64) string {
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(1) + "%"
}

// fixed renders v with exactly places decimals, as written to CSV output
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
