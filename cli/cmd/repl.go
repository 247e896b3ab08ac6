package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/scss/cli/cmd/repl"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/log"
)

// Repl starts an interactive session.
type Repl struct {
	Session `embed:""`

	NoHistory bool `help:"Do not load or save command history." name:"no-history"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := r.compiler(ctx, "repl")
	if err != nil {
		return diag.WrapError(err).With(slog.String("command", "repl"))
	}

	cacheDir := kongVar(ctx, CacheIdentifier)
	if r.NoHistory {
		cacheDir = ""
	}

	return repl.Run(ctx, c, cacheDir, log.Default().With(slog.String("command", "repl")))
}
