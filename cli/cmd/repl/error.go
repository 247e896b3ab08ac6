package repl

import "github.com/ardnew/scss/lang/diag"

// Sentinel errors.
var (
	ErrOutOfBounds  = diag.NewError("index out of range")
	ErrEditDeclined = diag.NewError("decline edit")
	ErrNoCompiler   = diag.NewError("no compiler")
)
