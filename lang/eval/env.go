// Package eval turns the deferred token spans held by the argument binder
// into values.
//
// An [Env] carries everything an expression may refer to: the variable
// [Scope], the opaque [Selector], and the [Funcs] callable from it. An Env
// implements [args.Evaluator], so it is what a call site hands to the binder
// to evaluate actual arguments, and what a callee hands to it to evaluate
// parameter defaults.
package eval

import (
	"log/slog"

	"github.com/ardnew/scss/lang/args"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/token"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/log"
)

// DefaultMaxDepth limits the nesting of parenthesized expressions and
// function calls.
const DefaultMaxDepth = 64

// Func is a function callable from an expression. It receives the caller's
// environment and the call's unevaluated arguments.
//
// A Func that does not apply to its arguments returns ok == false, and the
// call is rendered as a plain CSS function instead.
type Func func(env *Env, call *args.CallArgs) (v value.Value, ok bool, err error)

// Funcs resolves function names and module constants.
type Funcs interface {
	// Lookup returns the function called name, which may be qualified by a
	// module as in "math.round".
	Lookup(name string) (Func, bool)
	// Const returns the constant $name of module.
	Const(module, name string) (value.Value, bool)
}

// Env is the context an expression is evaluated in. The zero Env evaluates
// literals only.
type Env struct {
	Scope    Scope
	Selector Selector
	Funcs    Funcs
	Logger   log.Logger
	MaxDepth int

	depth  int  // nesting level of the enclosing call
	divide bool // '/' between two literals divides
}

var _ args.Evaluator = (*Env)(nil)

// With returns a copy of e that resolves variables in scope.
func (e *Env) With(scope Scope) *Env {
	c := *e
	c.Scope = scope

	return &c
}

// Evaluate parses and evaluates toks as a single expression.
//
// Addition, subtraction and the equality operators are returned as deferred
// [value.BinaryOp] nodes; use [value.Resolve] to reduce them.
func (e *Env) Evaluate(toks []token.Token) (value.Value, error) {
	e.Logger.Trace("evaluate", slog.String("expr", token.String(toks)))

	p := &parser{env: e, c: token.NewCursor(toks), depth: e.depth}

	return p.expression()
}

// EvaluateString is [Env.Evaluate] for source text.
func (e *Env) EvaluateString(src string) (value.Value, error) {
	return e.Evaluate(token.Lex(src))
}

// Enter returns a copy of e for evaluating the arguments of a call, one
// nesting level deeper than e. A '/' between two literals divides in a
// call argument.
func (e *Env) Enter() (*Env, error) {
	c := *e

	if c.depth++; c.depth > c.maxDepth() {
		return nil, diag.ErrSyntax.Wrapf("Nesting too deep.")
	}

	c.divide = true

	return &c, nil
}

func (e *Env) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}

	return DefaultMaxDepth
}

func (e *Env) variable(name string) (value.Value, bool) {
	if e.Scope == nil {
		return nil, false
	}

	return e.Scope.Var(name)
}
