package domain

import "github.com/shopspring/decimal"

var minorUnitsPerMajor = decimal.NewFromInt(100)

// MajorToMinor converts a platform amount to gateway minor units, rounding
// half away from zero.
func MajorToMinor(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerMajor).Round(0).IntPart()
}

func MinorToMajor(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
