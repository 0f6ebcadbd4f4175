package model

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var plainFormatter = money.NewFormatter(2, ".", ",", "", "1")

// FormatAmount renders d with two decimals and thousands separators, e.g. 10,000.00.
func FormatAmount(d decimal.Decimal) string {
	return plainFormatter.Format(minorUnits(d, 2))
}

// FormatMoney renders d in the given ISO currency, e.g. "S/10,000.00" for PEN.
// Unknown currencies fall back to the code followed by the plain amount.
func FormatMoney(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return currency + " " + FormatAmount(d)
	}
	return cur.Formatter().Format(minorUnits(d, cur.Fraction))
}

func minorUnits(d decimal.Decimal, fraction int) int64 {
	return d.Shift(int32(fraction)).Round(0).IntPart()
}
