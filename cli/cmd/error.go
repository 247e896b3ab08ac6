package cmd

import "github.com/ardnew/scss/lang/diag"

// Command errors.
var (
	ErrOpenSource  = diag.NewError("open source file")
	ErrDefine      = diag.NewError("invalid definition (want NAME=EXPR)")
	ErrStatement   = diag.NewError("one or more statements failed")
	ErrQuery       = diag.NewError("invalid filter expression")
	ErrWriteConfig = diag.NewError("write configuration file")
	ErrFileExists  = diag.NewError("file exists (use --force to overwrite)")
)
