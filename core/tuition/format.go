package tuition

import (
	"math"

	"github.com/go-playground/locales/en"
)

const currencySymbol = "$"

var locale = en.New()

// FormatCurrency renders amount as whole dollars, eg. "$12,345".
func FormatCurrency(amount float64) string {
	amount = math.Round(amount)
	if amount < 0 {
		return "-" + currencySymbol + locale.FmtNumber(-amount, 0)
	}
	return currencySymbol + locale.FmtNumber(amount, 0)
}
