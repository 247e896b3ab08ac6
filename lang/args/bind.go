package args

import (
	"iter"
	"log/slog"

	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/value"
)

// Bindings holds the values bound to a callee's parameters, in declaration
// order.
type Bindings struct {
	names []string
	vals  map[string]value.Value
}

func newBindings(n int) *Bindings {
	return &Bindings{
		names: make([]string, 0, n),
		vals:  make(map[string]value.Value, n),
	}
}

func (b *Bindings) set(name string, v value.Value) {
	if _, ok := b.vals[name]; !ok {
		b.names = append(b.names, name)
	}

	b.vals[name] = v
}

// Get returns the value bound to the named parameter.
func (b *Bindings) Get(name string) (value.Value, bool) {
	if b == nil {
		return nil, false
	}

	v, ok := b.vals[Canonical(name)]

	return v, ok
}

// Var is [Bindings.Get]; it lets a Bindings serve as a variable scope while
// defaults are evaluated.
func (b *Bindings) Var(name string) (value.Value, bool) { return b.Get(name) }

// Len returns the number of bound parameters.
func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}

	return len(b.names)
}

// All yields each parameter name with its bound value, in declaration order.
func (b *Bindings) All() iter.Seq2[string, value.Value] {
	return func(yield func(string, value.Value) bool) {
		if b == nil {
			return
		}

		for _, name := range b.names {
			if !yield(name, b.vals[name]) {
				return
			}
		}
	}
}

// Bind matches the actual arguments of call against params and returns the
// bound values.
//
// Each parameter is bound, in order, from the argument passed by its name,
// else the positional argument at its ordinal, else (for a variadic
// parameter) every remaining positional argument as a comma list, else its
// default. Actual arguments are evaluated with caller. Defaults are
// evaluated with the evaluator returned by callee, which receives the
// parameters bound so far so that a default may refer to an earlier
// parameter.
//
// Bind drains call. Arguments left over after every parameter is bound are
// an error.
func Bind(
	params FuncArgs,
	call *CallArgs,
	caller Evaluator,
	callee func(*Bindings) Evaluator,
) (*Bindings, error) {
	npos := 0

	for _, k := range call.Keys() {
		if !k.IsNamed() {
			npos++
		}
	}

	b := newBindings(len(params))

	for i, p := range params {
		v, err := bindParam(i, p, call, caller)
		if err != nil {
			return nil, err
		}

		if v == nil {
			if p.Default == nil {
				return nil, diag.ErrBinding.
					Wrapf("Missing argument $%s.", p.Name).
					With(slog.String("param", p.Name))
			}

			if v, err = callee(b).Evaluate(p.Default); err != nil {
				return nil, diag.WrapError(err).With(slog.String("param", p.Name))
			}
		}

		b.set(p.Name, v)
	}

	for _, k := range call.Keys() {
		if k.IsNamed() {
			return nil, diag.ErrBinding.
				Wrapf("No argument named %s.", k).
				With(slog.String("argument", k.String()))
		}
	}

	if !call.IsEmpty() {
		return nil, diag.ErrBinding.Wrapf(
			"Only %d %s allowed, but %d %s passed.",
			len(params), plural(len(params), "argument", "arguments"),
			npos, plural(npos, "was", "were"),
		)
	}

	return b, nil
}

// bindParam returns the actual value of the i'th parameter, or nil if the
// call does not supply one.
func bindParam(i int, p FuncArg, call *CallArgs, caller Evaluator) (value.Value, error) {
	if call.Has(Named(p.Name)) && call.Has(Positional(i)) {
		return nil, diag.ErrBinding.
			Wrapf("Argument $%s was passed both by position and by name.", p.Name).
			With(slog.String("param", p.Name))
	}

	v, ok, err := call.Named(p.Name, caller)
	if err != nil || ok {
		return v, wrapParam(err, p.Name)
	}

	if p.Variadic {
		rest, err := call.Variadic(caller)
		if err != nil {
			return nil, wrapParam(err, p.Name)
		}

		return value.List{Elems: rest, Sep: value.Comma}, nil
	}

	v, ok, err = call.Positional(i, caller)
	if err != nil || ok {
		return v, wrapParam(err, p.Name)
	}

	return nil, nil
}

func wrapParam(err error, name string) error {
	if err == nil {
		return nil
	}

	return diag.WrapError(err).With(slog.String("param", name))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
