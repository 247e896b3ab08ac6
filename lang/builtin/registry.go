// Package builtin provides the functions and module constants callable from
// expressions.
//
// A [Registry] is built once from a fixed table of definitions and is
// read-only afterward. It implements [eval.Funcs], so it is installed in an
// [eval.Env] to make its functions visible to expressions:
//
//	env := &eval.Env{Funcs: builtin.NewRegistry()}
//	v, err := env.EvaluateString("percentage(0.5)")
package builtin

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/ardnew/scss/lang/args"
	"github.com/ardnew/scss/lang/eval"
	"github.com/ardnew/scss/lang/value"
)

// handler implements a builtin over its bound arguments. It returns ok ==
// false when the builtin does not apply and the call should be rendered as
// plain CSS.
type handler func(a *arguments) (v value.Value, ok bool, err error)

// def declares one builtin. The first of names is its primary name; the rest
// are aliases, usually the module-qualified form.
type def struct {
	names  []string
	sig    string
	doc    string
	fn     handler
	params args.FuncArgs
}

// Info describes a builtin for listing and filtering.
type Info struct {
	Name      string   `expr:"name"      json:"name"      yaml:"name"`
	Aliases   []string `expr:"aliases"   json:"aliases"   yaml:"aliases,omitempty"`
	Module    string   `expr:"module"    json:"module"    yaml:"module,omitempty"`
	Signature string   `expr:"signature" json:"signature" yaml:"signature"`
	Doc       string   `expr:"doc"       json:"doc"       yaml:"doc"`
	Arity     int      `expr:"arity"     json:"arity"     yaml:"arity"`
	Variadic  bool     `expr:"variadic"  json:"variadic"  yaml:"variadic"`
}

func (d *def) info() Info {
	i := Info{
		Name:      d.names[0],
		Aliases:   slices.Clone(d.names[1:]),
		Signature: d.params.String(),
		Doc:       d.doc,
		Arity:     len(d.params),
	}

	for _, n := range d.names {
		if mod, _, ok := strings.Cut(n, "."); ok {
			i.Module = mod

			break
		}
	}

	if n := len(d.params); n > 0 && d.params[n-1].Variadic {
		i.Variadic = true
	}

	return i
}

// Registry is an immutable table of builtins and module constants.
type Registry struct {
	defs   []*def
	byName map[string]*def
	consts map[string]map[string]value.Value
}

var _ eval.Funcs = (*Registry)(nil)

// NewRegistry returns a registry holding every builtin function and the
// math module constants.
func NewRegistry() *Registry {
	r := &Registry{
		byName: map[string]*def{},
		consts: map[string]map[string]value.Value{
			"math": {
				"pi": value.Num(value.Float(math.Pi)),
				"e":  value.Num(value.Float(math.E)),
			},
		},
	}

	for _, d := range definitions() {
		params, err := args.ParseSignature(d.sig)
		if err != nil {
			panic(fmt.Sprintf("builtin %s: invalid signature %q: %v", d.names[0], d.sig, err))
		}

		d.params = params
		r.defs = append(r.defs, d)

		for _, n := range d.names {
			r.byName[n] = d
		}
	}

	return r
}

// Lookup implements [eval.Funcs]. Names are matched exactly, except that
// '_' and '-' are interchangeable.
func (r *Registry) Lookup(name string) (eval.Func, bool) {
	d, ok := r.byName[args.Canonical(name)]
	if !ok {
		return nil, false
	}

	return d.dispatch(name), true
}

// Const implements [eval.Funcs].
func (r *Registry) Const(module, name string) (value.Value, bool) {
	v, ok := r.consts[module][args.Canonical(name)]

	return v, ok
}

// All returns the description of every builtin in declaration order.
func (r *Registry) All() iter.Seq[Info] {
	return func(yield func(Info) bool) {
		for _, d := range r.defs {
			if !yield(d.info()) {
				return
			}
		}
	}
}

// Names returns every callable name, aliases included, in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))

	for n := range r.byName {
		names = append(names, n)
	}

	slices.Sort(names)

	return names
}

// Info returns the description of the builtin called name.
func (r *Registry) Info(name string) (Info, bool) {
	d, ok := r.byName[args.Canonical(name)]
	if !ok {
		return Info{}, false
	}

	return d.info(), true
}

// dispatch returns a function that binds a call's arguments against d's
// parameters and applies d. Defaults are evaluated in a scope holding only
// the parameters bound so far.
func (d *def) dispatch(name string) eval.Func {
	return func(env *eval.Env, call *args.CallArgs) (value.Value, bool, error) {
		b, err := args.Bind(d.params, call, env, func(b *args.Bindings) args.Evaluator {
			return env.With(b)
		})
		if err != nil {
			return nil, false, err
		}

		env.Logger.Trace("dispatch",
			slog.String("func", name),
			slog.Int("bound", b.Len()),
		)

		return d.fn(&arguments{env: env, b: b})
	}
}
