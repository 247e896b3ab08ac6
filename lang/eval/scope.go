package eval

import (
	"maps"
	"slices"

	"github.com/ardnew/scss/lang/args"
	"github.com/ardnew/scss/lang/value"
)

// Scope resolves variable names to values. Names are canonical (see
// [args.Canonical]) and have no leading '$'.
type Scope interface {
	Var(name string) (value.Value, bool)
}

// Selector is the selector in effect where an expression is evaluated. The
// evaluator passes it through to functions without inspecting it.
type Selector any

// Vars is a mutable scope layered over an optional parent. Lookups that miss
// fall through to the parent.
type Vars struct {
	parent Scope
	vals   map[string]value.Value
}

// NewVars returns an empty scope over parent, which may be nil.
func NewVars(parent Scope) *Vars {
	return &Vars{parent: parent, vals: map[string]value.Value{}}
}

// Var implements [Scope].
func (v *Vars) Var(name string) (value.Value, bool) {
	if v == nil {
		return nil, false
	}

	name = args.Canonical(name)

	if val, ok := v.vals[name]; ok {
		return val, true
	}

	if v.parent != nil {
		return v.parent.Var(name)
	}

	return nil, false
}

// Set binds name in this scope, shadowing any binding in the parent.
func (v *Vars) Set(name string, val value.Value) {
	v.vals[args.Canonical(name)] = val
}

// Names returns the names bound in this scope, excluding the parent's, in
// sorted order.
func (v *Vars) Names() []string {
	if v == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(v.vals))
}

type chain []Scope

// Chain returns a scope that searches each of scopes in order. Nil scopes
// are skipped.
func Chain(scopes ...Scope) Scope { return chain(scopes) }

func (c chain) Var(name string) (value.Value, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}

		if v, ok := s.Var(name); ok {
			return v, true
		}
	}

	return nil, false
}
