package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/scss/lang/diag"
)

// Bind binds a call's argument list against a declared parameter list and
// prints the value of each parameter.
type Bind struct {
	Session `embed:""`
	Output  `embed:""`

	Signature string `arg:"" help:"Declared parameter list, such as '($a, $b: 2, $rest...)'."`
	Call      string `arg:"" help:"Call argument list, such as '(1, $b: 5)'."                  optional:""`
}

// Run executes the bind command.
func (b *Bind) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := b.compiler(ctx, "bind")
	if err != nil {
		return diag.WrapError(err).With(slog.String("command", "bind"))
	}

	res, err := c.Bind(b.Signature, b.Call)
	if err != nil {
		return diag.WrapError(err).With(
			slog.String("command", "bind"),
			slog.String("signature", b.Signature),
			slog.String("call", b.Call),
		)
	}

	return b.write(ctx, res...)
}
