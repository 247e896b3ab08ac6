package value

import (
	"math"
	"math/big"
	"strings"

	"github.com/cockroachdb/apd"

	"github.com/ardnew/scss/lang/diag"
)

// Precision is the number of fractional digits kept when a [Number] is
// rendered.
const Precision = 10

type special uint8

const (
	finite special = iota
	nan
	posInf
	negInf
)

// Number is an exact rational magnitude.
//
// Arithmetic on finite numbers never rounds. The non-finite states (NaN and
// the two infinities) only arise from division by zero or from transcendental
// functions whose result is undefined, and propagate through later
// arithmetic with IEEE-754 semantics.
//
// The zero Number is 0. Numbers are immutable values; every operation
// returns a new Number.
type Number struct {
	r    *big.Rat
	kind special
}

// NaN returns the undefined number.
func NaN() Number { return Number{kind: nan} }

// Inf returns positive infinity if sign >= 0, negative infinity otherwise.
func Inf(sign int) Number {
	if sign >= 0 {
		return Number{kind: posInf}
	}

	return Number{kind: negInf}
}

// Int returns the number n.
func Int(n int64) Number { return Number{r: new(big.Rat).SetInt64(n)} }

// Frac returns the number a/b. It panics if b is zero.
func Frac(a, b int64) Number { return Number{r: big.NewRat(a, b)} }

// Rat returns a Number equal to r. The argument is copied.
func Rat(r *big.Rat) Number { return Number{r: new(big.Rat).Set(r)} }

// Float returns the exact rational value of f, or the matching non-finite
// Number.
func Float(f float64) Number {
	switch {
	case math.IsNaN(f):
		return NaN()
	case math.IsInf(f, 0):
		if f > 0 {
			return Inf(1)
		}

		return Inf(-1)
	}

	return Number{r: new(big.Rat).SetFloat64(f)}
}

// MaxExponent bounds the decimal exponent of a number literal, counting the
// digits after the decimal point.
const MaxExponent = 10000

// ParseNumber parses a decimal literal such as "12", "-0.5", ".25" or
// "1.5e3" into its exact value.
func ParseNumber(s string) (Number, error) {
	lit := s
	if strings.HasPrefix(lit, ".") {
		lit = "0" + lit
	} else if strings.HasPrefix(lit, "-.") || strings.HasPrefix(lit, "+.") {
		lit = lit[:1] + "0" + lit[1:]
	}

	d, _, err := apd.NewFromString(lit)
	if err != nil || d.Form != apd.Finite {
		return Number{}, diag.ErrSyntax.Wrapf("invalid number %q.", s)
	}

	if exp := int64(d.Exponent); exp < -MaxExponent || exp > MaxExponent {
		return Number{}, diag.ErrSyntax.Wrapf("Exponent of %q is out of range.", s)
	}

	r := new(big.Rat).SetInt(&d.Coeff)

	if d.Exponent != 0 {
		exp := int64(d.Exponent)
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(abs64(exp)), nil)

		if exp > 0 {
			r.Mul(r, new(big.Rat).SetInt(scale))
		} else {
			r.Quo(r, new(big.Rat).SetInt(scale))
		}
	}

	if d.Negative {
		r.Neg(r)
	}

	return Number{r: r}, nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}

func (n Number) rat() *big.Rat {
	if n.r == nil {
		return new(big.Rat)
	}

	return n.r
}

// IsFinite reports whether n is neither NaN nor infinite.
func (n Number) IsFinite() bool { return n.kind == finite }

// IsNaN reports whether n is undefined.
func (n Number) IsNaN() bool { return n.kind == nan }

// IsZero reports whether n is exactly zero.
func (n Number) IsZero() bool { return n.kind == finite && n.rat().Sign() == 0 }

// IsInt reports whether n is a finite integer.
func (n Number) IsInt() bool { return n.kind == finite && n.rat().IsInt() }

// Sign returns -1, 0 or +1 according to the sign of n. NaN has sign 0.
func (n Number) Sign() int {
	switch n.kind {
	case posInf:
		return 1
	case negInf:
		return -1
	case nan:
		return 0
	}

	return n.rat().Sign()
}

// Big returns a copy of the exact value of a finite n, or nil otherwise.
func (n Number) Big() *big.Rat {
	if n.kind != finite {
		return nil
	}

	return new(big.Rat).Set(n.rat())
}

// Float64 returns the nearest float64 to n.
func (n Number) Float64() float64 {
	switch n.kind {
	case nan:
		return math.NaN()
	case posInf:
		return math.Inf(1)
	case negInf:
		return math.Inf(-1)
	}

	f, _ := n.rat().Float64()

	return f
}

// Int64 returns the integer part of n, truncated toward zero.
func (n Number) Int64() int64 {
	if n.kind != finite {
		return 0
	}

	r := n.rat()

	return new(big.Int).Quo(r.Num(), r.Denom()).Int64()
}

// binary applies op to finite operands, or falls back to float64 semantics
// when either operand is non-finite.
func (n Number) binary(
	m Number,
	op func(z, x, y *big.Rat) *big.Rat,
	fallback func(x, y float64) float64,
) Number {
	if n.kind != finite || m.kind != finite {
		return Float(fallback(n.Float64(), m.Float64()))
	}

	return Number{r: op(new(big.Rat), n.rat(), m.rat())}
}

// Add returns n+m.
func (n Number) Add(m Number) Number {
	return n.binary(m, (*big.Rat).Add, func(x, y float64) float64 { return x + y })
}

// Sub returns n-m.
func (n Number) Sub(m Number) Number {
	return n.binary(m, (*big.Rat).Sub, func(x, y float64) float64 { return x - y })
}

// Mul returns n*m.
func (n Number) Mul(m Number) Number {
	return n.binary(m, (*big.Rat).Mul, func(x, y float64) float64 { return x * y })
}

// Quo returns n/m. Division by zero yields an infinity, or NaN for 0/0.
func (n Number) Quo(m Number) Number {
	if m.IsZero() {
		if s := n.Sign(); s != 0 {
			return Inf(s)
		}

		return NaN()
	}

	return n.binary(m, (*big.Rat).Quo, func(x, y float64) float64 { return x / y })
}

// Mod returns the floored remainder of n/m, which has the sign of m.
// A zero divisor yields NaN.
func (n Number) Mod(m Number) Number {
	if m.IsZero() {
		return NaN()
	}

	if n.kind != finite || m.kind != finite {
		x, y := n.Float64(), m.Float64()

		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}

		return Float(r)
	}

	q := new(big.Rat).Quo(n.rat(), m.rat())
	fl := Rat(q).Floor()

	return n.Sub(m.Mul(fl))
}

// Neg returns -n.
func (n Number) Neg() Number {
	switch n.kind {
	case posInf:
		return Inf(-1)
	case negInf:
		return Inf(1)
	case nan:
		return n
	}

	return Number{r: new(big.Rat).Neg(n.rat())}
}

// Abs returns |n|.
func (n Number) Abs() Number {
	if n.Sign() < 0 {
		return n.Neg()
	}

	return n
}

// Floor returns the greatest integer not greater than n.
func (n Number) Floor() Number {
	if n.kind != finite {
		return n
	}

	r := n.rat()

	// Denominators are positive, so Euclidean division floors.
	return Number{r: new(big.Rat).SetInt(new(big.Int).Div(r.Num(), r.Denom()))}
}

// Ceil returns the least integer not less than n.
func (n Number) Ceil() Number {
	return n.Neg().Floor().Neg()
}

// Round returns the integer nearest n, rounding halves away from zero.
func (n Number) Round() Number {
	if n.kind != finite {
		return n
	}

	half := Frac(1, 2)

	if n.Sign() < 0 {
		return n.Neg().Add(half).Floor().Neg()
	}

	return n.Add(half).Floor()
}

// Cmp compares n and m and returns -1, 0 or +1. The boolean result is false
// if either operand is NaN, in which case the two are unordered.
func (n Number) Cmp(m Number) (int, bool) {
	if n.kind == nan || m.kind == nan {
		return 0, false
	}

	if n.kind != finite || m.kind != finite {
		x, y := n.Float64(), m.Float64()

		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}

		return 0, true
	}

	return n.rat().Cmp(m.rat()), true
}

// Equal reports whether n and m are the same number. NaN equals nothing.
func (n Number) Equal(m Number) bool {
	c, ok := n.Cmp(m)

	return ok && c == 0
}

// String renders n with at most [Precision] fractional digits, trailing
// zeros removed.
func (n Number) String() string {
	switch n.kind {
	case nan:
		return "NaN"
	case posInf:
		return "Infinity"
	case negInf:
		return "-Infinity"
	}

	r := n.rat()
	if r.IsInt() {
		return r.Num().String()
	}

	s := r.FloatString(Precision)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")

	if s == "-0" {
		return "0"
	}

	return s
}
