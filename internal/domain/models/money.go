package models

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places amounts are rounded to.
const MoneyPlaces = 2

// Money converts an amount to a decimal rounded to MoneyPlaces. Every input
// goes through here, so sums of rounded parts equal the rounded whole.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(MoneyPlaces)
}

// Amount converts a decimal back to the stored representation.
func Amount(d decimal.Decimal) float64 {
	return d.Round(MoneyPlaces).InexactFloat64()
}

// LineTotal returns quantity × unit price, with the price rounded first.
func LineTotal(quantity int, unitPrice float64) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(Money(unitPrice))
}

// FormatAmount renders an amount without trailing zeros, e.g. 150 or 12.5.
func FormatAmount(v float64) string {
	return Money(v).Round(MoneyPlaces).String()
}
