package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCode is the dashboard's display currency
const DefaultCode = "VND"

var printer = message.NewPrinter(language.Vietnamese)

// Format renders an amount with its currency symbol for display.
// Report arithmetic stays in plain decimals, formatting is presentation only.
// Unknown codes fall back to the bare number
func Format(amount decimal.Decimal, code string) string {
	if code == "" {
		code = DefaultCode
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.String()
	}
	value, _ := amount.Float64()
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(value)))
}
