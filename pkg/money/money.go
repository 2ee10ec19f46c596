// Package money holds currency precision rules and rounding for order amounts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const defaultMinorUnits int32 = 2

// Currencies settled without a fractional unit.
var zeroDecimalCurrencies = map[string]struct{}{
	"UGX": {},
	"RWF": {},
	"BIF": {},
	"JPY": {},
	"KRW": {},
	"XAF": {},
	"XOF": {},
}

// MinorUnits returns the number of decimal places used for the currency.
// Unknown currencies use two decimals.
func MinorUnits(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[normalize(currency)]; ok {
		return 0
	}
	return defaultMinorUnits
}

// Round rounds amount to the currency precision, half away from zero.
// For the non-negative amounts handled here that is round-half-up.
func Round(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(MinorUnits(currency))
}

// Percentage computes total * rate / 100 rounded to the currency precision.
func Percentage(total, rate decimal.Decimal, currency string) decimal.Decimal {
	return Round(total.Mul(rate).Div(decimal.NewFromInt(100)), currency)
}

func normalize(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
