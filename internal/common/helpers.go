package common

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	SOLDecimals = 9 // SOL has 9 decimals (lamports)
)

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ErrNegativeAmount is returned when converting a negative amount to smallest units
var ErrNegativeAmount = errors.New("amount must not be negative")

// LamportsToSOL converts lamports to SOL string without float precision loss
func LamportsToSOL(lamports uint64) string {
	return FormatUnits(lamports, SOLDecimals)
}

// ToBaseUnits converts a human amount to smallest units, truncating
// anything finer than the asset precision.
// Example: ToBaseUnits(1.5, 9) = 1500000000
func ToBaseUnits(amount float64, decimals uint8) (uint64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("invalid amount %v", amount)
	}
	d := decimal.NewFromFloat(amount)
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	units := d.Shift(int32(decimals)).Truncate(0)
	if units.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("amount %s overflows %d-decimal units", d.String(), decimals)
	}
	return units.BigInt().Uint64(), nil
}

// FromBaseUnits converts smallest units to a float amount for display
func FromBaseUnits(units uint64, decimals uint8) float64 {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(decimals)).InexactFloat64()
}

// FormatUnits converts integer to decimal string by inserting decimal point
// Example: FormatUnits(24981836, 9) = "0.024981836"
func FormatUnits(value uint64, decimals uint8) string {
	s := fmt.Sprintf("%d", value)
	if decimals == 0 {
		return s
	}

	// Pad with leading zeros if needed
	for len(s) <= int(decimals) {
		s = "0" + s
	}

	pos := len(s) - int(decimals)
	return s[:pos] + "." + s[pos:]
}

// SubtractFloor returns max(0, a-b) computed in decimal to avoid float drift.
func SubtractFloor(a, b float64) float64 {
	d := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b))
	if d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}
