package lang

import (
	"github.com/ardnew/scss/lang/builtin"
	"github.com/ardnew/scss/lang/eval"
	"github.com/ardnew/scss/log"
)

// Option configures a [Compiler].
type Option func(*Compiler)

// WithMaxDepth sets the maximum nesting of parenthesized expressions.
func WithMaxDepth(depth int) Option {
	return func(c *Compiler) {
		c.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithSelector sets the selector passed through to called functions.
func WithSelector(sel eval.Selector) Option {
	return func(c *Compiler) {
		c.selector = sel
	}
}

// WithRegistry replaces the builtin function registry.
func WithRegistry(r *builtin.Registry) Option {
	return func(c *Compiler) {
		c.funcs = r
	}
}

// WithScope sets a scope consulted for variables the compiler does not
// define itself.
func WithScope(parent eval.Scope) Option {
	return func(c *Compiler) {
		c.parent = parent
	}
}

func applyOptions(c *Compiler, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
}
