package domain

import (
	"fmt"
	"math"
)

// Money is an amount in US cents.
type Money int64

// Cents converts a dollar amount to Money, rounding half away from zero.
func Cents(dollars float64) Money {
	return Money(math.Round(dollars * 100))
}

// Dollars returns the amount as a float dollar value.
func (m Money) Dollars() float64 {
	return float64(m) / 100
}

// FormatUSD renders the amount as "$12.34".
func (m Money) FormatUSD() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// Convert applies an exchange rate (units of target currency per USD).
func (m Money) Convert(rate float64) float64 {
	return m.Dollars() * rate
}
