// Package rational implements the TIFF RATIONAL/SRATIONAL value: a pair of
// 32-bit integers. Equality is structural; evaluating to a float is an
// emission-time choice a handler makes, never something stored.
package rational

import "fmt"

// Rational is a numerator/denominator pair, signed or unsigned depending
// on which TIFF type produced it.
type Rational struct {
	Numerator   int64
	Denominator int64
}

func New(num, den int64) Rational {
	return Rational{Numerator: num, Denominator: den}
}

// Float64 evaluates the ratio as a float64. Division by zero yields +Inf/
// -Inf/NaN per normal float semantics rather than panicking; a zero
// denominator in a TIFF file is a data-quality issue for the module to flag
// as a Message, not a reason to crash the reader.
func (r Rational) Float64() float64 {
	return float64(r.Numerator) / float64(r.Denominator)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

// Equal reports structural equality: same numerator and denominator, not
// the same reduced ratio (1/2 != 2/4).
func (r Rational) Equal(other Rational) bool {
	return r.Numerator == other.Numerator && r.Denominator == other.Denominator
}
