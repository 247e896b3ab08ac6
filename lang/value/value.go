// Package value implements the value model of the expression engine: a
// tagged union of computed values with exact unit-aware arithmetic.
//
// Values are immutable. Evaluation and arithmetic always allocate new values
// and never modify their operands.
package value

import (
	"strings"

	"github.com/ardnew/scss/lang/unit"
)

// Value is one of [Important], [Bool], [Null], [Dimension], [List], [Color],
// [BinaryOp], [Paren] or [Ident].
type Value interface {
	// String renders the value as it appears in generated CSS.
	String() string

	value()
}

// Important is the !important flag.
type Important struct{}

// Bool is a boolean value.
type Bool bool

// Boolean constants.
const (
	True  Bool = true
	False Bool = false
)

// Null is the absence of a value.
type Null struct{}

// Dimension is a number tagged with a unit.
type Dimension struct {
	Num  Number
	Unit unit.Unit
}

// Separator joins the elements of a [List].
type Separator uint8

// Separators.
const (
	Space Separator = iota
	Comma
)

// List is an ordered sequence of values.
type List struct {
	Elems []Value
	Sep   Separator
}

// BinaryOp is a deferred operator application.
type BinaryOp struct {
	Left  Value
	Op    Op
	Right Value
}

// Paren groups a value so that it is not flattened into an enclosing list.
type Paren struct {
	Inner Value
}

// QuoteKind records how a string was written.
type QuoteKind uint8

// Quote kinds.
const (
	Unquoted QuoteKind = iota
	Double
	Single
)

// Ident is a quoted or unquoted string.
type Ident struct {
	Text  string
	Quote QuoteKind
}

func (Important) value() {}
func (Bool) value()      {}
func (Null) value()      {}
func (Dimension) value() {}
func (List) value()      {}
func (Color) value()     {}
func (BinaryOp) value()  {}
func (Paren) value()     {}
func (Ident) value()     {}

// Of returns the Bool for b.
func Of(b bool) Bool { return Bool(b) }

// Num returns a unitless dimension.
func Num(n Number) Dimension { return Dimension{Num: n} }

// Str returns an unquoted string.
func Str(s string) Ident { return Ident{Text: s} }

// Quoted returns a double-quoted string.
func Quoted(s string) Ident { return Ident{Text: s, Quote: Double} }

// Unparen returns v without any enclosing parentheses.
func Unparen(v Value) Value { return unparen(v) }

func (Important) String() string { return "!important" }

func (b Bool) String() string {
	if b {
		return "true"
	}

	return "false"
}

func (Null) String() string { return "null" }

func (d Dimension) String() string { return d.Num.String() + d.Unit.String() }

// Literal returns the text of the separator placed between list elements.
func (s Separator) Literal() string {
	if s == Comma {
		return ", "
	}

	return " "
}

func (s Separator) String() string {
	if s == Comma {
		return "comma"
	}

	return "space"
}

func (l List) String() string {
	if len(l.Elems) == 0 {
		return "()"
	}

	part := make([]string, 0, len(l.Elems))
	for _, e := range l.Elems {
		part = append(part, e.String())
	}

	return strings.Join(part, l.Sep.Literal())
}

// String renders the reduced value of op, or the operator expression itself
// if it cannot be reduced.
func (op BinaryOp) String() string {
	v, err := Evaluate(op)
	if r, ok := v.(BinaryOp); err != nil || ok {
		if ok {
			op = r
		}

		return op.Left.String() + " " + op.Op.String() + " " + op.Right.String()
	}

	return v.String()
}

func (p Paren) String() string { return p.Inner.String() }

// Char returns the quote character of q, or 0 for [Unquoted].
func (q QuoteKind) Char() rune {
	switch q {
	case Double:
		return '"'
	case Single:
		return '\''
	}

	return 0
}

func (s Ident) String() string {
	q := s.Quote.Char()
	if q == 0 {
		return s.Text
	}

	var sb strings.Builder

	sb.Grow(len(s.Text) + 2)
	sb.WriteRune(q)

	for _, r := range s.Text {
		if r == q || r == '\\' {
			sb.WriteByte('\\')
		}

		sb.WriteRune(r)
	}

	sb.WriteRune(q)

	return sb.String()
}

// Unquote returns s without quotes.
func (s Ident) Unquote() Ident { return Ident{Text: s.Text} }

// Unquote strips the quotes from a string value.
//
// It panics if v is not an [Ident]; quoting only applies to strings and a
// caller passing anything else is a programming error.
func Unquote(v Value) Value {
	s, ok := v.(Ident)
	if !ok {
		panic("value: Unquote of " + typeName(v))
	}

	return s.Unquote()
}

// IsTrue reports whether v is truthy after evaluation. Only [Null] and
// [False] are falsy.
func IsTrue(v Value) (bool, error) {
	v, err := Evaluate(v)
	if err != nil {
		return false, err
	}

	switch v := v.(type) {
	case Null:
		return false, nil
	case Bool:
		return bool(v), nil
	case Paren:
		return IsTrue(v.Inner)
	}

	return true, nil
}

// Kind returns the user-facing type name of v after evaluation: "color",
// "string", "number", "list", "bool" or "null".
func Kind(v Value) (string, error) {
	v, err := Evaluate(v)
	if err != nil {
		return "", err
	}

	if p, ok := v.(Paren); ok {
		return Kind(p.Inner)
	}

	return typeName(v), nil
}

func typeName(v Value) string {
	switch v.(type) {
	case Color:
		return "color"
	case Ident:
		return "string"
	case Dimension:
		return "number"
	case List:
		return "list"
	case Bool:
		return "bool"
	case Null:
		return "null"
	}

	return "unknown"
}
