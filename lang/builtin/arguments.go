package builtin

import (
	"log/slog"

	"github.com/ardnew/scss/lang/args"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/eval"
	"github.com/ardnew/scss/lang/unit"
	"github.com/ardnew/scss/lang/value"
)

// arguments gives a handler typed access to its bound parameters. Type
// errors name the offending parameter.
type arguments struct {
	env *eval.Env
	b   *args.Bindings
}

func argError(param, format string, a ...any) error {
	return diag.ErrType.
		Wrapf("$"+param+": "+format, a...).
		With(slog.String("param", param))
}

// value returns the fully reduced value bound to param, or null if the
// parameter is unbound.
func (a *arguments) value(param string) (value.Value, error) {
	v, ok := a.b.Get(param)
	if !ok {
		return value.Null{}, nil
	}

	return value.Resolve(v)
}

// isNull reports whether param is bound to null.
func (a *arguments) isNull(param string) (bool, error) {
	v, err := a.value(param)
	if err != nil {
		return false, err
	}

	_, null := value.Unparen(v).(value.Null)

	return null, nil
}

func (a *arguments) number(param string) (value.Dimension, error) {
	v, err := a.value(param)
	if err != nil {
		return value.Dimension{}, err
	}

	d, ok := value.Unparen(v).(value.Dimension)
	if !ok {
		return value.Dimension{}, argError(param, "%s is not a number.", v)
	}

	return d, nil
}

func (a *arguments) unitless(param string) (value.Number, error) {
	d, err := a.number(param)
	if err != nil {
		return value.Number{}, err
	}

	if d.Unit != unit.None {
		return value.Number{}, argError(param, "Expected %s to have no units.", d)
	}

	return d.Num, nil
}

// radians returns param as an angle in radians. A unitless number is taken
// to be in radians already.
func (a *arguments) radians(param string) (float64, error) {
	d, err := a.number(param)
	if err != nil {
		return 0, err
	}

	switch {
	case d.Unit == unit.None, d.Unit == unit.Rad:
		return d.Num.Float64(), nil
	case d.Unit.IsAngle():
		r, _ := unit.Ratio(d.Unit, unit.Rad).Float64()

		return d.Num.Float64() * r, nil
	}

	return 0, argError(param, "Expected %s to be an angle.", d)
}

// list returns the elements of the list bound to a variadic param.
func (a *arguments) list(param string) ([]value.Value, error) {
	v, err := a.value(param)
	if err != nil {
		return nil, err
	}

	if l, ok := value.Unparen(v).(value.List); ok {
		return l.Elems, nil
	}

	return []value.Value{v}, nil
}
