package calculation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders a USD amount rounded to places decimals with thousands
// separators, e.g. $1,234 or -$1,234.50. Amounts that round to zero carry no sign.
func FormatMoney(amount float64, places int32) string {
	d := decimal.NewFromFloat(amount).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole, frac, hasFrac := strings.Cut(d.StringFixed(places), ".")
	out := sign + "$" + GroupThousands(whole)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// GroupThousands inserts commas into a string of integer digits
func GroupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
