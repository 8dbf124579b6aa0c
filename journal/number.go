package journal

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// FormatAmount renders x as a plain decimal (no exponent) that parses back
// to the same float64. x must be finite.
func FormatAmount(x float64) string {
	return decimal.NewFromFloat(x).String()
}

// ParseAmount parses a decimal number written by FormatAmount or by hand.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse amount %q: out of range", s)
	}
	return f, nil
}
