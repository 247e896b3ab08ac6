package args

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/token"
	"github.com/ardnew/scss/lang/value"
)

// Evaluator turns a deferred argument span into a value.
type Evaluator interface {
	Evaluate(toks []token.Token) (value.Value, error)
}

// EvaluatorFunc adapts a function to [Evaluator].
type EvaluatorFunc func(toks []token.Token) (value.Value, error)

// Evaluate calls f(toks).
func (f EvaluatorFunc) Evaluate(toks []token.Token) (value.Value, error) { return f(toks) }

// Key identifies an actual argument by canonical name or by zero-based
// position. Keys are comparable and used directly as map keys.
type Key struct {
	name  string
	pos   int
	named bool
}

// Named returns the key of the argument passed as $name.
func Named(name string) Key { return Key{name: Canonical(name), named: true} }

// Positional returns the key of the i'th positional argument.
func Positional(i int) Key { return Key{pos: i} }

// IsNamed reports whether k identifies a named argument.
func (k Key) IsNamed() bool { return k.named }

// Name returns the canonical name of a named key.
func (k Key) Name() string { return k.name }

// Position returns the index of a positional key. A named key has no
// position.
func (k Key) Position() (int, error) {
	if k.named {
		return 0, diag.ErrBinding.Wrapf("No argument named $%s.", k.name)
	}

	return k.pos, nil
}

// shift moves a positional key by delta. Named keys are unchanged.
func (k Key) shift(delta int) Key {
	if !k.named {
		k.pos += delta
	}

	return k
}

func (k Key) String() string {
	if k.named {
		return "$" + k.name
	}

	return strconv.Itoa(k.pos)
}

func compareKeys(a, b Key) int {
	if a.named != b.named {
		if a.named {
			return 1
		}

		return -1
	}

	if a.named {
		return cmp.Compare(a.name, b.name)
	}

	return cmp.Compare(a.pos, b.pos)
}

// CallArgs holds the unevaluated arguments of one call site.
//
// Lookups evaluate and remove entries, so each argument is consumed at most
// once. A CallArgs belongs to a single binding pass and must not be shared.
type CallArgs struct {
	m map[Key][]token.Token
}

// NewCallArgs returns an empty argument set.
func NewCallArgs() *CallArgs {
	return &CallArgs{m: make(map[Key][]token.Token)}
}

// Add records the span of the argument identified by k.
// Each key may be added once.
func (c *CallArgs) Add(k Key, span []token.Token) error {
	if _, dup := c.m[k]; dup {
		return diag.ErrBinding.
			Wrapf("Duplicate argument %s.", k).
			With(slog.String("argument", k.String()))
	}

	c.m[k] = span

	return nil
}

// Len returns the number of unconsumed arguments.
func (c *CallArgs) Len() int { return len(c.m) }

// IsEmpty reports whether every argument has been consumed.
func (c *CallArgs) IsEmpty() bool { return len(c.m) == 0 }

// Has reports whether the argument identified by k is still unconsumed.
func (c *CallArgs) Has(k Key) bool {
	_, ok := c.m[k]

	return ok
}

// Keys returns the unconsumed keys: positional keys in ascending order,
// followed by named keys sorted by name.
func (c *CallArgs) Keys() []Key {
	return slices.SortedFunc(maps.Keys(c.m), compareKeys)
}

// Span returns the unevaluated tokens of an argument without consuming it.
func (c *CallArgs) Span(k Key) ([]token.Token, bool) {
	span, ok := c.m[k]

	return span, ok
}

func (c *CallArgs) take(k Key, ev Evaluator) (value.Value, bool, error) {
	span, ok := c.m[k]
	if !ok {
		return nil, false, nil
	}

	delete(c.m, k)

	v, err := ev.Evaluate(span)
	if err != nil {
		return nil, true, err
	}

	return v, true, nil
}

// Named evaluates and removes the argument passed as $name.
// The boolean result is false if no such argument remains.
func (c *CallArgs) Named(name string, ev Evaluator) (value.Value, bool, error) {
	return c.take(Named(name), ev)
}

// Positional evaluates and removes the i'th positional argument.
// The boolean result is false if no such argument remains.
func (c *CallArgs) Positional(i int, ev Evaluator) (value.Value, bool, error) {
	return c.take(Positional(i), ev)
}

// Variadic consumes every remaining argument and returns their values in
// ascending positional order. A remaining named argument is an error.
func (c *CallArgs) Variadic(ev Evaluator) ([]value.Value, error) {
	type entry struct {
		pos  int
		span []token.Token
	}

	rest := make([]entry, 0, len(c.m))

	for _, k := range c.Keys() {
		pos, err := k.Position()
		if err != nil {
			return nil, err
		}

		rest = append(rest, entry{pos, c.m[k]})
	}

	clear(c.m)

	vals := make([]value.Value, 0, len(rest))

	for _, e := range rest {
		v, err := ev.Evaluate(e.span)
		if err != nil {
			return nil, err
		}

		vals = append(vals, v)
	}

	return vals, nil
}

func (c *CallArgs) shift(delta int) *CallArgs {
	out := &CallArgs{m: make(map[Key][]token.Token, len(c.m))}

	for k, span := range c.m {
		out.m[k.shift(delta)] = span
	}

	return out
}

// ShiftDown returns a new argument set with every positional key decremented
// by one, as if a leading positional argument had never been passed. Named
// keys are unchanged. The receiver is not modified.
func (c *CallArgs) ShiftDown() *CallArgs { return c.shift(-1) }

// ShiftUp is the inverse of [CallArgs.ShiftDown].
func (c *CallArgs) ShiftUp() *CallArgs { return c.shift(1) }

// ParseActualArgs parses a call's argument list from c, which is positioned
// just past the opening '('. Parsing stops after the matching ')'.
//
// An argument written as "$name: expr" is named; any other argument is
// positional and takes the next unused position. A trailing comma before
// ')' is allowed.
func ParseActualArgs(c *token.Cursor) (*CallArgs, error) {
	args := NewCallArgs()
	npos := 0

	for {
		c.SkipWhitespaceAndComments()

		t, ok := c.Peek()
		if !ok {
			return nil, expected(")", c.Position())
		}

		if t.Kind == ')' {
			c.Next()

			return args, nil
		}

		name := ""

		if t.Kind == '$' {
			mark := c.Mark()
			c.Next()

			id := c.ReadIdent()
			c.SkipWhitespaceAndComments()

			if id != "" && c.Is(':') {
				c.Next()
				c.SkipWhitespaceAndComments()

				name = id
			} else {
				c.Reset(mark)
			}
		}

		start := c.Position()

		span, term, err := readSpan(c)
		if err != nil {
			return nil, err
		}

		span = token.Trim(span)
		if len(span) == 0 {
			return nil, diag.ErrSyntax.Wrapf("Expected expression.").WithPosition(start)
		}

		key := Named(name)
		if name == "" {
			key = Positional(npos)
			npos++
		}

		if err := args.Add(key, span); err != nil {
			return nil, diag.WrapError(err).WithPosition(start)
		}

		if term == ')' {
			return args, nil
		}
	}
}
