package builtin

import (
	"math"
	"math/big"

	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/unit"
	"github.com/ardnew/scss/lang/value"
)

// maxExactExponent bounds the integer exponents pow computes exactly.
const maxExactExponent = 1 << 10

// unitsAgree reports an error unless d1 and d2 are both unitless or both
// have units.
func unitsAgree(p1 string, d1 value.Dimension, p2 string, d2 value.Dimension) error {
	const suffix = " Arguments must all have units or all be unitless."

	switch {
	case d1.Unit == unit.None && d2.Unit != unit.None:
		return diag.ErrType.Wrapf("$%s is unitless but $%s has unit %s."+suffix, p1, p2, d2.Unit)
	case d1.Unit != unit.None && d2.Unit == unit.None:
		return diag.ErrType.Wrapf("$%s has unit %s but $%s is unitless."+suffix, p1, d1.Unit, p2)
	}

	return nil
}

func clamp(a *arguments) (value.Value, bool, error) {
	lo, err := a.number("min")
	if err != nil {
		return nil, false, err
	}

	n, err := a.number("number")
	if err != nil {
		return nil, false, err
	}

	hi, err := a.number("max")
	if err != nil {
		return nil, false, err
	}

	if err := unitsAgree("min", lo, "number", n); err != nil {
		return nil, false, err
	}

	if err := unitsAgree("min", lo, "max", hi); err != nil {
		return nil, false, err
	}

	for _, step := range []struct {
		l, r value.Dimension
		op   value.Op
		then value.Dimension
	}{
		{lo, hi, value.Ge, lo},
		{n, lo, value.Le, lo},
		{n, hi, value.Ge, hi},
	} {
		ok, err := value.Compare(step.l, step.op, step.r)
		if err != nil {
			return nil, false, err
		}

		if ok {
			return step.then, true, nil
		}
	}

	return n, true, nil
}

func div(a *arguments) (value.Value, bool, error) {
	l, err := a.value("number1")
	if err != nil {
		return nil, false, err
	}

	r, err := a.value("number2")
	if err != nil {
		return nil, false, err
	}

	v, err := value.Divide(l, r)

	return v, err == nil, err
}

func sqrt(a *arguments) (value.Value, bool, error) {
	n, err := a.unitless("number")
	if err != nil {
		return nil, false, err
	}

	return value.Num(value.Float(math.Sqrt(n.Float64()))), true, nil
}

// trig returns a handler applying fn to an angle in radians.
func trig(fn func(float64) float64) handler {
	return func(a *arguments) (value.Value, bool, error) {
		x, err := a.radians("number")
		if err != nil {
			return nil, false, err
		}

		return value.Num(value.Float(fn(x))), true, nil
	}
}

// inverseTrig returns a handler applying fn to a unitless number and
// expressing the resulting angle in degrees.
func inverseTrig(fn func(float64) float64) handler {
	return func(a *arguments) (value.Value, bool, error) {
		n, err := a.unitless("number")
		if err != nil {
			return nil, false, err
		}

		return value.Dimension{
			Num:  value.Float(fn(n.Float64()) * 180 / math.Pi),
			Unit: unit.Deg,
		}, true, nil
	}
}

func logarithm(a *arguments) (value.Value, bool, error) {
	n, err := a.unitless("number")
	if err != nil {
		return nil, false, err
	}

	y := math.Log(n.Float64())

	natural, err := a.isNull("base")
	if err != nil {
		return nil, false, err
	}

	if !natural {
		b, err := a.unitless("base")
		if err != nil {
			return nil, false, err
		}

		y /= math.Log(b.Float64())
	}

	return value.Num(value.Float(y)), true, nil
}

func pow(a *arguments) (value.Value, bool, error) {
	b, err := a.unitless("base")
	if err != nil {
		return nil, false, err
	}

	e, err := a.unitless("exponent")
	if err != nil {
		return nil, false, err
	}

	// Int64 truncates, so the exponent must fit before it is range checked.
	if b.IsFinite() && e.IsInt() && e.Big().Num().IsInt64() {
		if k := e.Int64(); -maxExactExponent <= k && k <= maxExactExponent {
			return value.Num(powInt(b, k)), true, nil
		}
	}

	return value.Num(value.Float(math.Pow(b.Float64(), e.Float64()))), true, nil
}

// powInt returns b**k exactly for finite b.
func powInt(b value.Number, k int64) value.Number {
	r := b.Big()

	m := big.NewInt(k)
	if k < 0 {
		m.Neg(m)
	}

	num := new(big.Int).Exp(r.Num(), m, nil)
	den := new(big.Int).Exp(r.Denom(), m, nil)

	if k < 0 {
		if num.Sign() == 0 {
			return value.Inf(1)
		}

		num, den = den, num
	}

	return value.Rat(new(big.Rat).SetFrac(num, den))
}
