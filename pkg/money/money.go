// Package money implements the engine's exact, four-fractional-digit
// decimal value type. No binary float ever enters a balance computation.
package money

import (
	"strings"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits the engine is exact to.
const Scale = 4

// ErrNotRepresentable is returned when a decimal value carries more
// precision than Scale permits.
var ErrNotRepresentable = ierrors.New("amount is not representable in 4 decimal places")

// Zero is the additive identity.
var Zero = Money{d: decimal.Zero}

// Money is an exact fixed-point decimal value with Scale fractional
// digits. The zero value is not valid; use Zero.
type Money struct {
	d decimal.Decimal
}

// Parse parses s as a decimal literal and validates it is representable
// with at most Scale fractional digits.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, ierrors.Wrapf(err, "parsing amount %q", s)
	}

	return FromDecimal(d)
}

// FromDecimal validates and wraps an already-parsed decimal.Decimal.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(Scale)) {
		return Money{}, ierrors.Wrapf(ErrNotRepresentable, "%s", d.String())
	}

	return Money{d: d.Truncate(Scale)}, nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

// Cmp returns -1, 0, or 1 as m is less than, equal to, or greater than other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.Cmp(other) < 0
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.d.Sign() > 0
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m.d.Sign() < 0
}

// IsZero reports whether m == 0.
func (m Money) IsZero() bool {
	return m.d.Sign() == 0
}

// String renders m with trailing zeros stripped but at least one
// fractional digit, per the engine's output format.
func (m Money) String() string {
	s := m.d.Truncate(Scale).String()

	if !strings.Contains(s, ".") {
		return s + ".0"
	}

	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}

	return s
}
