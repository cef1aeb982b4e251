package console

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
)

// FormatMoney renders value in the given ISO currency, e.g. "$1,500.00".
// Unknown codes fall back to "XYZ 1500.00".
func FormatMoney(value decimal.Decimal, code string) string {
	if money.GetCurrency(code) == nil {
		return code + " " + value.StringFixed(domain.ValuePlaces)
	}
	// money.New never returns a nil currency
	cur := *money.New(0, code).Currency()
	dec := value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// MoneyFormatter binds FormatMoney to a currency.
func MoneyFormatter(code string) func(decimal.Decimal) string {
	return func(d decimal.Decimal) string { return FormatMoney(d, code) }
}
