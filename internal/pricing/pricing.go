// Package pricing computes order totals in integer cents.  All
// arithmetic is integral; the platform fee is rounded half-up so that
// results match what the storefront displays to the cent.
package pricing

// FeeRatePercent is the platform surcharge applied to every order
// subtotal.
const FeeRatePercent = 5

// Line is one cart entry paired with the unit price resolved at order
// creation time.
type Line struct {
	PhotoID   uint64
	UnitCents int64
	Quantity  int64
}

// Subtotal returns the sum of unit price times quantity over all lines.
func Subtotal(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.UnitCents * l.Quantity
	}
	return sum
}

// PlatformFee returns FeeRatePercent of the subtotal, rounded half-up
// to the nearest cent.  A subtotal of 990 yields 50 (49.5 rounds up),
// 995 yields 50 (49.75 rounds up).
func PlatformFee(subtotalCents int64) int64 {
	return (subtotalCents*FeeRatePercent + 50) / 100
}

// Total returns the amount the customer pays: subtotal plus fee.
func Total(subtotalCents int64) int64 {
	return subtotalCents + PlatformFee(subtotalCents)
}
