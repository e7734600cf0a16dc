package engine

import "github.com/shopspring/decimal"

// minDecimal returns the smaller of a and b. Written out rather than
// relying on decimal.Min so this package doesn't depend on a specific
// shopspring/decimal minor version having added it.
func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
