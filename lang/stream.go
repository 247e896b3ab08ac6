package lang

import (
	"bufio"
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/scss/lang/diag"
)

// ErrReadInput reports a failure reading statements from a stream.
var ErrReadInput = diag.NewError("failed to read input")

// Run executes each line read from r as a statement (see [Compiler.Exec])
// and yields its result. Blank lines and lines starting with "//" are
// skipped. Positions in yielded errors refer to lines of r.
//
// Iteration stops when the consumer stops, when ctx is done, or at the end
// of r. An evaluation error does not stop iteration.
func (c *Compiler) Run(ctx context.Context, r io.Reader) iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		// Pre-fetch input while earlier statements are evaluated.
		ra := readahead.NewReader(r)
		defer ra.Close()

		sc := bufio.NewScanner(ra)
		line := 0

		for sc.Scan() {
			line++

			if err := ctx.Err(); err != nil {
				yield(Result{Line: line}, err)

				return
			}

			text := sc.Text()
			if s := strings.TrimSpace(text); s == "" || strings.HasPrefix(s, "//") {
				continue
			}

			res, err := c.Exec(text)
			res.Line = line

			if err != nil {
				err = atLine(err, line)
			}

			if !yield(res, err) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			yield(Result{Line: line}, ErrReadInput.Wrap(err).With(slog.Int("line", line)))
		}
	}
}

// atLine relocates an error raised while evaluating a single line to line
// of the enclosing stream.
func atLine(err error, line int) error {
	de := diag.WrapError(err)

	pos := de.Position()
	if !pos.IsValid() {
		return de.With(slog.Int("line", line))
	}

	pos.Line = line

	return de.WithPosition(pos)
}
