package shared

import "github.com/shopspring/decimal"

// DecimalPlaces is the scale of every stored quantity and amount
const DecimalPlaces int32 = 4

// ExceedsScale reports whether d carries more fractional digits than can be stored
func ExceedsScale(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(DecimalPlaces))
}

// RoundToScale rounds d to the stored scale, leaving values that already fit untouched
func RoundToScale(d decimal.Decimal) decimal.Decimal {
	if ExceedsScale(d) {
		return d.Round(DecimalPlaces)
	}
	return d
}
