// Package money fixes the platform-wide rounding policy: every monetary
// quantity is rounded to 2 decimal places (half-up) at the point it is
// computed, before being summed or persisted.
package money

import "github.com/shopspring/decimal"

// deadband below which a computed adjustment is treated as zero, so
// floating-point noise from re-assignment math never reaches the ledger
var deadband = decimal.New(5, -3) // 0.005

func init() {
	// monetary fields serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsZeroDelta reports whether an adjustment is within the 0.005 deadband.
func IsZeroDelta(d decimal.Decimal) bool {
	return d.Abs().LessThan(deadband)
}

func Zero() decimal.Decimal {
	return decimal.Zero
}
