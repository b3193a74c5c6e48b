package money

import (
	"fmt"
	"math"
)

// Cents is a monetary amount with two implied decimal places, stored as an
// integer so arithmetic never goes through binary floating point.
type Cents int64

// FromFloat converts a decimal amount (e.g. from a JSON request body) to
// Cents, rounding half-up at the second decimal place.
func FromFloat(amount float64) Cents {
	return Cents(math.Floor(amount*100 + 0.5))
}

// Float returns the decimal representation for API responses.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String formats the amount with two decimal places.
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// Max returns the larger of a and b.
func Max(a, b Cents) Cents {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// MulQty multiplies a unit amount by a quantity.
func (c Cents) MulQty(qty int) Cents {
	return c * Cents(qty)
}

// BasisPoints is a percentage with two implied decimal places (1% = 100 bp),
// used for payment method fees.
type BasisPoints int64

// FromPercent converts a decimal percentage (e.g. 2.5) to basis points.
func FromPercent(pct float64) BasisPoints {
	return BasisPoints(math.Floor(pct*100 + 0.5))
}

// Percent returns the decimal percentage.
func (b BasisPoints) Percent() float64 {
	return float64(b) / 100
}

// ApplyFee returns base * b%, rounded half-up to the cent. Negative bases are
// not expected; callers clamp totals at zero before applying fees.
func ApplyFee(base Cents, b BasisPoints) Cents {
	if b <= 0 || base <= 0 {
		return 0
	}
	// base * bp / 10000 with half-up rounding on the integer division.
	num := int64(base) * int64(b)
	return Cents((num + 5000) / 10000)
}
