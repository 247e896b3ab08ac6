package cmd

import (
	"context"
	"iter"
	"log/slog"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/log"
)

// Eval evaluates expressions and variable assignments.
type Eval struct {
	Session `embed:""`
	Output  `embed:""`

	Exprs []string `arg:""    help:"Statements to evaluate. Without any, statements are read one per line from --file." name:"expr" optional:""`
	File  []string `help:"Source file(s) or '-' for stdin." short:"f"                                                   type:"path"`
	Keep  bool     `help:"Keep evaluating after a statement fails." short:"k"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := e.compiler(ctx, "eval")
	if err != nil {
		return diag.WrapError(err).With(slog.String("command", "eval"))
	}

	var (
		results []lang.Result
		failed  error
	)

	for r, err := range e.statements(ctx, c) {
		if err == nil {
			results = append(results, r)

			continue
		}

		err = diag.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("source", r.Source),
		)

		if !e.Keep {
			if werr := e.write(ctx, results...); werr != nil {
				return werr
			}

			return err
		}

		log.ErrorContext(ctx, "statement failed", slog.Any("error", err))

		failed = ErrStatement
	}

	if err := e.write(ctx, results...); err != nil {
		return err
	}

	return failed
}

// statements executes the statements given as arguments, or else those read
// from the source files.
func (e *Eval) statements(ctx context.Context, c *lang.Compiler) iter.Seq2[lang.Result, error] {
	if len(e.Exprs) > 0 {
		return func(yield func(lang.Result, error) bool) {
			for _, expr := range e.Exprs {
				if !yield(c.Exec(expr)) {
					return
				}
			}
		}
	}

	return func(yield func(lang.Result, error) bool) {
		src, err := openSources(e.File)
		if err != nil {
			yield(lang.Result{}, err)

			return
		}
		defer src.Close()

		for r, err := range c.Run(ctx, src) {
			if !yield(r, err) {
				return
			}
		}
	}
}
