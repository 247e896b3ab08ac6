package value

import (
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/unit"
)

// Op is a binary operator.
type Op uint8

// Operators.
const (
	Plus Op = iota
	Minus
	Mul
	Div
	Rem
	Equal
	NotEqual
	Gt
	Ge
	Lt
	Le
	And
	Or
)

var opText = [...]string{
	Plus:     "+",
	Minus:    "-",
	Mul:      "*",
	Div:      "/",
	Rem:      "%",
	Equal:    "==",
	NotEqual: "!=",
	Gt:       ">",
	Ge:       ">=",
	Lt:       "<",
	Le:       "<=",
	And:      "and",
	Or:       "or",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}

	return "?"
}

// Evaluate reduces a [BinaryOp] by one logical step.
//
// Plus and Minus apply unit-aware addition and subtraction to their reduced
// operands. Equal and NotEqual reduce both operands fully and compare the
// results. Any other operator is returned unchanged. Every value other than
// a BinaryOp evaluates to itself.
func Evaluate(v Value) (Value, error) {
	op, ok := v.(BinaryOp)
	if !ok {
		return v, nil
	}

	switch op.Op {
	case Plus, Minus:
		l, err := reduce(op.Left)
		if err != nil {
			return nil, err
		}

		r, err := reduce(op.Right)
		if err != nil {
			return nil, err
		}

		if op.Op == Plus {
			return Add(l, r)
		}

		return Sub(l, r)

	case Equal, NotEqual:
		l, err := reduce(op.Left)
		if err != nil {
			return nil, err
		}

		r, err := reduce(op.Right)
		if err != nil {
			return nil, err
		}

		return Of(Equals(l, r) == (op.Op == Equal)), nil
	}

	return op, nil
}

// Resolve evaluates every reducible [BinaryOp] in v, including those nested in
// lists and parentheses, and returns the resulting value tree.
func Resolve(v Value) (Value, error) {
	switch t := v.(type) {
	case BinaryOp:
		r, err := Evaluate(t)
		if err != nil {
			return nil, err
		}

		op, still := r.(BinaryOp)
		if !still {
			return Resolve(r)
		}

		if op.Left, err = Resolve(op.Left); err != nil {
			return nil, err
		}

		if op.Right, err = Resolve(op.Right); err != nil {
			return nil, err
		}

		return op, nil

	case Paren:
		inner, err := Resolve(t.Inner)
		if err != nil {
			return nil, err
		}

		return Paren{Inner: inner}, nil

	case List:
		elems := make([]Value, len(t.Elems))

		for i, e := range t.Elems {
			r, err := Resolve(e)
			if err != nil {
				return nil, err
			}

			elems[i] = r
		}

		return List{Elems: elems, Sep: t.Sep}, nil
	}

	return v, nil
}

// reduce evaluates v until it is no longer a reducible BinaryOp and removes
// any enclosing parentheses.
func reduce(v Value) (Value, error) {
	for {
		switch t := v.(type) {
		case Paren:
			v = t.Inner

		case BinaryOp:
			r, err := Evaluate(t)
			if err != nil {
				return nil, err
			}

			if _, still := r.(BinaryOp); still {
				return r, nil
			}

			v = r

		default:
			return v, nil
		}
	}
}

// Equals reports whether a and b are the same value. Numbers compare by
// magnitude after unit conversion; strings compare by text regardless of
// quoting.
func Equals(a, b Value) bool {
	a, b = unparen(a), unparen(b)

	switch a := a.(type) {
	case Dimension:
		b, ok := b.(Dimension)
		if !ok {
			return false
		}

		if (a.Unit == unit.None) != (b.Unit == unit.None) || !unit.Comparable(a.Unit, b.Unit) {
			return false
		}

		return a.Num.Equal(convert(b, a.Unit))

	case Ident:
		b, ok := b.(Ident)

		return ok && a.Text == b.Text

	case List:
		b, ok := b.(List)
		if !ok || a.Sep != b.Sep || len(a.Elems) != len(b.Elems) {
			return false
		}

		for i := range a.Elems {
			if !Equals(a.Elems[i], b.Elems[i]) {
				return false
			}
		}

		return true

	case Color:
		b, ok := b.(Color)

		return ok && a.Equal(b)

	case BinaryOp:
		b, ok := b.(BinaryOp)

		return ok && a.Op == b.Op && Equals(a.Left, b.Left) && Equals(a.Right, b.Right)
	}

	return a == b
}

func unparen(v Value) Value {
	for {
		p, ok := v.(Paren)
		if !ok {
			return v
		}

		v = p.Inner
	}
}

// convert returns the magnitude of d expressed in unit to.
func convert(d Dimension, to unit.Unit) Number {
	if d.Unit == to || d.Unit == unit.None || to == unit.None {
		return d.Num
	}

	return d.Num.Mul(Rat(unit.Ratio(d.Unit, to)))
}

// coerce converts the right operand into the unit of the left operand and
// reports the unit of the result. A unitless left operand adopts the unit of
// the right operand.
func coerce(l, r Dimension) (Number, unit.Unit, error) {
	if !unit.Comparable(l.Unit, r.Unit) {
		return Number{}, unit.None, diag.ErrArithmetic.Wrapf(
			"Incompatible units %s and %s.", l.Unit, r.Unit,
		)
	}

	if l.Unit == unit.None {
		return r.Num, r.Unit, nil
	}

	return convert(r, l.Unit), l.Unit, nil
}

func undefined(l Value, op Op, r Value) error {
	return diag.ErrArithmetic.Wrapf(
		"Undefined operation \"%s %s %s\".", l, op, r,
	)
}

// Add returns l + r.
func Add(l, r Value) (Value, error) {
	l, r = unparen(l), unparen(r)

	switch lv := l.(type) {
	case Dimension:
		switch rv := r.(type) {
		case Dimension:
			n, u, err := coerce(lv, rv)
			if err != nil {
				return nil, err
			}

			return Dimension{Num: lv.Num.Add(n), Unit: u}, nil

		case Color:
			return nil, undefined(l, Plus, r)
		}

	case Ident:
		return Ident{Text: lv.Text + text(r), Quote: lv.Quote}, nil

	case Color:
		if _, ok := r.(Ident); !ok {
			return nil, undefined(l, Plus, r)
		}
	}

	if rv, ok := r.(Ident); ok {
		return Ident{Text: l.String() + rv.Text, Quote: rv.Quote}, nil
	}

	return Str(l.String() + r.String()), nil
}

// Sub returns l - r.
func Sub(l, r Value) (Value, error) {
	l, r = unparen(l), unparen(r)

	if lv, ok := l.(Dimension); ok {
		switch rv := r.(type) {
		case Dimension:
			n, u, err := coerce(lv, rv)
			if err != nil {
				return nil, err
			}

			return Dimension{Num: lv.Num.Sub(n), Unit: u}, nil

		case Color:
			return nil, undefined(l, Minus, r)
		}
	}

	if _, ok := l.(Color); ok {
		if _, ok := r.(Ident); !ok {
			return nil, undefined(l, Minus, r)
		}
	}

	return Str(l.String() + "-" + r.String()), nil
}

// Times returns l * r.
func Times(l, r Value) (Value, error) {
	l, r = unparen(l), unparen(r)

	lv, lok := l.(Dimension)
	rv, rok := r.(Dimension)

	if !lok || !rok {
		return nil, undefined(l, Mul, r)
	}

	u := lv.Unit
	switch {
	case rv.Unit == unit.None:
	case lv.Unit == unit.None:
		u = rv.Unit
	default:
		return nil, diag.ErrArithmetic.Wrapf(
			"%s%s*%s isn't a valid CSS value.", lv.Num.Mul(rv.Num), lv.Unit, rv.Unit,
		)
	}

	return Dimension{Num: lv.Num.Mul(rv.Num), Unit: u}, nil
}

// Divide returns l / r. Strings are joined with a slash.
func Divide(l, r Value) (Value, error) {
	l, r = unparen(l), unparen(r)

	lv, lok := l.(Dimension)
	rv, rok := r.(Dimension)

	if !lok || !rok {
		if isColor(l) || isColor(r) {
			return nil, undefined(l, Div, r)
		}

		return Str(l.String() + "/" + r.String()), nil
	}

	switch {
	case rv.Unit == unit.None:
		return Dimension{Num: lv.Num.Quo(rv.Num), Unit: lv.Unit}, nil

	case lv.Unit == unit.None:
		return nil, diag.ErrArithmetic.Wrapf(
			"%s%s^-1 isn't a valid CSS value.", lv.Num.Quo(rv.Num), rv.Unit,
		)

	case !unit.Comparable(lv.Unit, rv.Unit):
		return nil, diag.ErrArithmetic.Wrapf(
			"%s%s/%s isn't a valid CSS value.", lv.Num.Quo(rv.Num), lv.Unit, rv.Unit,
		)
	}

	return Num(lv.Num.Quo(convert(rv, lv.Unit))), nil
}

// Modulo returns the floored remainder of l / r.
func Modulo(l, r Value) (Value, error) {
	l, r = unparen(l), unparen(r)

	lv, lok := l.(Dimension)
	rv, rok := r.(Dimension)

	if !lok || !rok {
		return nil, undefined(l, Rem, r)
	}

	n, u, err := coerce(lv, rv)
	if err != nil {
		return nil, err
	}

	return Dimension{Num: lv.Num.Mod(n), Unit: u}, nil
}

// Compare applies one of the relational operators [Gt], [Ge], [Lt] or [Le]
// to two numbers.
func Compare(l Value, op Op, r Value) (Bool, error) {
	l, r = unparen(l), unparen(r)

	lv, lok := l.(Dimension)
	rv, rok := r.(Dimension)

	if !lok {
		return False, diag.ErrType.Wrapf("%s is not a number.", l)
	}

	if !rok {
		return False, diag.ErrType.Wrapf("%s is not a number.", r)
	}

	n, _, err := coerce(lv, rv)
	if err != nil {
		return False, err
	}

	c, ordered := lv.Num.Cmp(n)
	if !ordered {
		return False, nil
	}

	switch op {
	case Gt:
		return Of(c > 0), nil
	case Ge:
		return Of(c >= 0), nil
	case Lt:
		return Of(c < 0), nil
	case Le:
		return Of(c <= 0), nil
	}

	return False, diag.ErrArithmetic.Wrapf("%s is not a relational operator.", op)
}

// Negate returns -v for numbers, and the string "-v" otherwise.
func Negate(v Value) Value {
	v = unparen(v)

	if d, ok := v.(Dimension); ok {
		return Dimension{Num: d.Num.Neg(), Unit: d.Unit}
	}

	return Str("-" + v.String())
}

func text(v Value) string {
	if s, ok := v.(Ident); ok {
		return s.Text
	}

	return v.String()
}

func isColor(v Value) bool {
	_, ok := v.(Color)

	return ok
}
