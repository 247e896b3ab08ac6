package builtin

import (
	"log/slog"
	"math"

	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/unit"
	"github.com/ardnew/scss/lang/value"
)

func definitions() []*def {
	return []*def{
		{
			names: []string{"percentage", "math.percentage"},
			sig:   "($number)",
			doc:   "Converts a unitless number to a percentage.",
			fn:    percentage,
		},
		{
			names: []string{"round", "math.round"},
			sig:   "($number)",
			doc:   "Rounds a number to the nearest whole number.",
			fn:    rounding(value.Number.Round),
		},
		{
			names: []string{"ceil", "math.ceil"},
			sig:   "($number)",
			doc:   "Rounds a number up to the next whole number.",
			fn:    rounding(value.Number.Ceil),
		},
		{
			names: []string{"floor", "math.floor"},
			sig:   "($number)",
			doc:   "Rounds a number down to the previous whole number.",
			fn:    rounding(value.Number.Floor),
		},
		{
			names: []string{"abs", "math.abs"},
			sig:   "($number)",
			doc:   "Returns the absolute value of a number.",
			fn:    rounding(value.Number.Abs),
		},
		{
			names: []string{"comparable", "math.compatible"},
			sig:   "($number1, $number2)",
			doc:   "Reports whether two numbers can be added, subtracted or compared.",
			fn:    comparable,
		},
		{
			names: []string{"min", "math.min"},
			sig:   "($numbers...)",
			doc:   "Returns the least of one or more numbers.",
			fn:    extremum(value.Lt),
		},
		{
			names: []string{"max", "math.max"},
			sig:   "($numbers...)",
			doc:   "Returns the greatest of one or more numbers.",
			fn:    extremum(value.Gt),
		},
		{
			names: []string{"unit", "math.unit"},
			sig:   "($number)",
			doc:   "Returns the unit of a number as a quoted string.",
			fn:    unitOf,
		},
		{
			names: []string{"unitless", "math.is-unitless"},
			sig:   "($number)",
			doc:   "Reports whether a number has no unit.",
			fn:    isUnitless,
		},
		{
			names: []string{"type-of", "meta.type-of"},
			sig:   "($value)",
			doc:   "Returns the type name of a value.",
			fn:    typeOf,
		},
		{
			names: []string{"math.clamp"},
			sig:   "($min, $number, $max)",
			doc:   "Restricts a number to the range between a minimum and a maximum.",
			fn:    clamp,
		},
		{
			names: []string{"math.div"},
			sig:   "($number1, $number2)",
			doc:   "Divides one number by another.",
			fn:    div,
		},
		{
			names: []string{"math.sqrt"},
			sig:   "($number)",
			doc:   "Returns the square root of a unitless number.",
			fn:    sqrt,
		},
		{
			names: []string{"math.sin"},
			sig:   "($number)",
			doc:   "Returns the sine of an angle.",
			fn:    trig(math.Sin),
		},
		{
			names: []string{"math.cos"},
			sig:   "($number)",
			doc:   "Returns the cosine of an angle.",
			fn:    trig(math.Cos),
		},
		{
			names: []string{"math.tan"},
			sig:   "($number)",
			doc:   "Returns the tangent of an angle.",
			fn:    trig(math.Tan),
		},
		{
			names: []string{"math.asin"},
			sig:   "($number)",
			doc:   "Returns the arcsine of a unitless number in degrees.",
			fn:    inverseTrig(math.Asin),
		},
		{
			names: []string{"math.acos"},
			sig:   "($number)",
			doc:   "Returns the arccosine of a unitless number in degrees.",
			fn:    inverseTrig(math.Acos),
		},
		{
			names: []string{"math.atan"},
			sig:   "($number)",
			doc:   "Returns the arctangent of a unitless number in degrees.",
			fn:    inverseTrig(math.Atan),
		},
		{
			names: []string{"math.log"},
			sig:   "($number, $base: null)",
			doc:   "Returns the logarithm of a number, natural unless a base is given.",
			fn:    logarithm,
		},
		{
			names: []string{"math.pow"},
			sig:   "($base, $exponent)",
			doc:   "Raises a base to the power of an exponent.",
			fn:    pow,
		},
	}
}

func percentage(a *arguments) (value.Value, bool, error) {
	n, err := a.unitless("number")
	if err != nil {
		return nil, false, err
	}

	return value.Dimension{Num: n.Mul(value.Int(100)), Unit: unit.Percent}, true, nil
}

// rounding returns a handler that applies fn to the magnitude of its
// $number, keeping the unit.
func rounding(fn func(value.Number) value.Number) handler {
	return func(a *arguments) (value.Value, bool, error) {
		d, err := a.number("number")
		if err != nil {
			return nil, false, err
		}

		return value.Dimension{Num: fn(d.Num), Unit: d.Unit}, true, nil
	}
}

func comparable(a *arguments) (value.Value, bool, error) {
	d1, err := a.number("number1")
	if err != nil {
		return nil, false, err
	}

	d2, err := a.number("number2")
	if err != nil {
		return nil, false, err
	}

	return value.Of(unit.Comparable(d1.Unit, d2.Unit)), true, nil
}

// extremum returns a handler that selects the number that is op every other.
// Any argument that is not a number, such as a CSS var(), makes the call
// plain CSS.
func extremum(op value.Op) handler {
	return func(a *arguments) (value.Value, bool, error) {
		elems, err := a.list("numbers")
		if err != nil {
			return nil, false, err
		}

		if len(elems) == 0 {
			return nil, false, diag.ErrBinding.Wrapf("At least one argument must be passed.")
		}

		var best value.Dimension

		for i, e := range elems {
			d, ok := value.Unparen(e).(value.Dimension)
			if !ok {
				a.env.Logger.Trace("plain css", slog.String("argument", e.String()))

				return nil, false, nil
			}

			if i == 0 {
				best = d

				continue
			}

			better, err := value.Compare(d, op, best)
			if err != nil {
				a.env.Logger.Trace("plain css", slog.String("argument", e.String()), slog.Any("error", err))

				return nil, false, nil
			}

			if better {
				best = d
			}
		}

		return best, true, nil
	}
}

func unitOf(a *arguments) (value.Value, bool, error) {
	d, err := a.number("number")
	if err != nil {
		return nil, false, err
	}

	return value.Quoted(d.Unit.String()), true, nil
}

func isUnitless(a *arguments) (value.Value, bool, error) {
	d, err := a.number("number")
	if err != nil {
		return nil, false, err
	}

	return value.Of(d.Unit == unit.None), true, nil
}

func typeOf(a *arguments) (value.Value, bool, error) {
	v, err := a.value("value")
	if err != nil {
		return nil, false, err
	}

	k, err := value.Kind(v)
	if err != nil {
		return nil, false, err
	}

	return value.Str(k), true, nil
}
