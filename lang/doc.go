// Package lang evaluates style-sheet expressions.
//
// A [Compiler] ties together the pieces of the expression engine: a global
// variable scope, the builtin function registry from package builtin, and a
// logger. It evaluates expressions, executes variable assignments, and binds
// call-site argument lists against declared parameter lists.
//
// # Expressions
//
// Expressions follow Sass syntax. Numbers are exact rationals with units, and
// arithmetic converts between compatible units:
//
//	c := lang.New()
//	v, _ := c.Eval("1in + 6px") // 1.0625in
//
// Unknown functions and functions that do not apply to their arguments are
// left as plain CSS:
//
//	v, _ = c.Eval("min(1px, var(--gap))") // min(1px, var(--gap))
//
// # Statements
//
// [Compiler.Exec] and [Compiler.Run] accept statements, which are
// expressions or assignments:
//
//	$gutter: 12px
//	$gutter: 16px !default
//	percentage($gutter / 48px)
//
// # Output
//
// [WriteResults] renders results as text, JSON, or YAML.
package lang
