package domain

import "github.com/shopspring/decimal"

func init() {
	// Amounts are JSON numbers on the wire, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
