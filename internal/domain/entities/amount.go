package entities

import (
	"github.com/shopspring/decimal"
)

// ParseAmount parses a decimal string. Anything that is not a number is
// reported as zero with ok=false.
func ParseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsPositiveInteger reports whether s is a base-10 integer greater than zero
func IsPositiveInteger(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	d, ok := ParseAmount(s)
	return ok && d.IsPositive()
}

// ToSmallestUnit converts a display amount to on-chain units, rounding down
func ToSmallestUnit(amount decimal.Decimal, decimals uint8) decimal.Decimal {
	return amount.Shift(int32(decimals)).Floor()
}

// FromSmallestUnit converts on-chain units to a display amount
func FromSmallestUnit(raw decimal.Decimal, decimals uint8) decimal.Decimal {
	return raw.Shift(-int32(decimals))
}
