package lang

import (
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/ardnew/scss/lang/args"
	"github.com/ardnew/scss/lang/builtin"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/eval"
	"github.com/ardnew/scss/lang/token"
	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/log"
)

// guardFlag marks an assignment that only applies when the variable is
// undefined or null.
const guardFlag = "!default"

var defaultRegistry = sync.OnceValue(builtin.NewRegistry)

// Compiler evaluates expressions and statements against a global variable
// scope and a builtin function registry.
//
// A Compiler is not safe for concurrent use.
type Compiler struct {
	logger   log.Logger
	maxDepth int
	selector eval.Selector
	funcs    *builtin.Registry
	parent   eval.Scope
	global   *eval.Vars
}

// Result is the outcome of one evaluated statement or bound parameter.
type Result struct {
	Line   int         `json:"line,omitempty"   yaml:"line,omitempty"`
	Source string      `json:"source,omitempty" yaml:"source,omitempty"`
	Name   string      `json:"name,omitempty"   yaml:"name,omitempty"`
	Type   string      `json:"type"             yaml:"type"`
	Text   string      `json:"value"            yaml:"value"`
	Value  value.Value `json:"-"                yaml:"-"`
}

func makeResult(name string, v value.Value) Result {
	kind, _ := value.Kind(v)

	return Result{Name: name, Type: kind, Text: v.String(), Value: v}
}

// String renders r the way it would be written in a style sheet.
func (r Result) String() string {
	if r.Name != "" {
		return "$" + r.Name + ": " + r.Text
	}

	return r.Text
}

// New returns a Compiler configured by opts.
func New(opts ...Option) *Compiler {
	c := &Compiler{maxDepth: eval.DefaultMaxDepth}

	applyOptions(c, opts...)

	if c.funcs == nil {
		c.funcs = defaultRegistry()
	}

	c.global = eval.NewVars(c.parent)

	return c
}

// Funcs returns the builtin function registry.
func (c *Compiler) Funcs() *builtin.Registry { return c.funcs }

func (c *Compiler) env() *eval.Env {
	return &eval.Env{
		Scope:    c.global,
		Selector: c.selector,
		Funcs:    c.funcs,
		Logger:   c.logger,
		MaxDepth: c.maxDepth,
	}
}

func (c *Compiler) evaluate(toks []token.Token) (value.Value, error) {
	v, err := c.env().Evaluate(toks)
	if err != nil {
		return nil, err
	}

	return value.Resolve(v)
}

// Eval evaluates src as a single expression and fully reduces the result.
func (c *Compiler) Eval(src string) (value.Value, error) {
	return c.evaluate(token.Lex(src))
}

// Define evaluates src and assigns the result to the global variable name.
func (c *Compiler) Define(name, src string) error {
	v, err := c.Eval(src)
	if err != nil {
		return diag.WrapError(err).With(slog.String("variable", name))
	}

	c.Set(name, v)

	return nil
}

// Set assigns v to the global variable name. A leading '$' is ignored.
func (c *Compiler) Set(name string, v value.Value) {
	c.global.Set(strings.TrimPrefix(name, "$"), v)
}

// Var returns the value of the variable name.
func (c *Compiler) Var(name string) (value.Value, bool) {
	return c.global.Var(strings.TrimPrefix(name, "$"))
}

// Vars returns the global variables in name order.
func (c *Compiler) Vars() iter.Seq2[string, value.Value] {
	return func(yield func(string, value.Value) bool) {
		for _, name := range c.global.Names() {
			v, _ := c.global.Var(name)
			if !yield(name, v) {
				return
			}
		}
	}
}

// Exec executes one statement. A statement is either an expression or a
// variable assignment of the form
//
//	$name: expression [!default][;]
//
// An assignment marked !default has no effect when the variable already
// holds a value other than null.
func (c *Compiler) Exec(stmt string) (Result, error) {
	name, expr, guarded := splitStatement(token.Lex(stmt))

	source := strings.TrimSpace(stmt)

	if guarded {
		if v, ok := c.Var(name); ok && v != (value.Null{}) {
			c.logger.Trace("keep", slog.String("variable", name))

			r := makeResult(name, v)
			r.Source = source

			return r, nil
		}
	}

	v, err := c.evaluate(expr)
	if err != nil {
		return Result{Source: source, Name: name}, err
	}

	if name != "" {
		c.Set(name, v)
		c.logger.Trace("assign", slog.String("variable", name), slog.String("value", v.String()))
	}

	r := makeResult(name, v)
	r.Source = source

	return r, nil
}

// splitStatement separates an assignment's variable name from its
// expression. The name is empty if toks is not an assignment.
func splitStatement(toks []token.Token) (name string, expr []token.Token, guarded bool) {
	expr = token.Trim(toks)
	if n := len(expr); n > 0 && expr[n-1].Kind == ';' {
		expr = token.Trim(expr[:n-1])
	}

	c := token.NewCursor(expr)
	if !c.Is('$') {
		return "", expr, false
	}

	c.Next()

	id := c.ReadIdent()
	c.SkipWhitespace()

	if id == "" || !c.Is(':') {
		return "", expr, false
	}

	c.Next()

	expr = token.Trim(c.Rest())

	if n := len(expr) - len(guardFlag); n >= 0 && token.String(expr[n:]) == guardFlag {
		expr, guarded = token.Trim(expr[:n]), true
	}

	return args.Canonical(id), expr, guarded
}

// Bind binds the argument list call against the parameter list signature
// and returns one result per parameter, in declaration order. Both lists may
// be written with or without their enclosing parentheses.
//
// Arguments are evaluated in the global scope. Parameter defaults are
// evaluated in a scope where earlier parameters shadow the globals.
func (c *Compiler) Bind(signature, call string) ([]Result, error) {
	params, err := args.ParseSignature(parenthesize(signature))
	if err != nil {
		return nil, err
	}

	cur := token.NewCursor(token.Lex(parenthesize(call)))
	cur.SkipWhitespaceAndComments()
	cur.Next()

	actual, err := args.ParseActualArgs(cur)
	if err != nil {
		return nil, err
	}

	if cur.SkipWhitespaceAndComments(); !cur.Done() {
		return nil, diag.ErrSyntax.Wrapf("Expected end of input.").WithPosition(cur.Position())
	}

	env, err := c.env().Enter()
	if err != nil {
		return nil, err
	}

	b, err := args.Bind(params, actual, env, func(b *args.Bindings) args.Evaluator {
		return env.With(eval.Chain(b, c.global))
	})
	if err != nil {
		return nil, err
	}

	res := make([]Result, 0, b.Len())

	for name, v := range b.All() {
		if v, err = value.Resolve(v); err != nil {
			return nil, diag.WrapError(err).With(slog.String("param", name))
		}

		res = append(res, makeResult(name, v))
	}

	return res, nil
}

// parenthesize wraps s in parentheses unless a single parenthesized group
// already spans all of it.
func parenthesize(s string) string {
	t := strings.TrimSpace(s)

	c := token.NewCursor(token.Lex(t))
	if c.Is('(') {
		c.Next()

		if _, err := c.ReadUntilClosingParen(); err == nil && c.Done() {
			return t
		}
	}

	return "(" + s + ")"
}
