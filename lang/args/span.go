package args

import (
	"strings"

	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/token"
)

// Canonical returns the canonical spelling of a parameter or argument name.
// Underscores and hyphens are interchangeable in names.
func Canonical(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// readSpan consumes tokens up to a top-level ',' or ')' and returns the
// tokens read along with the terminator, which is consumed. Bracketed,
// parenthesized, and quoted sub-spans are read as single units so their
// interior commas and parentheses do not end the span.
func readSpan(c *token.Cursor) ([]token.Token, rune, error) {
	var span []token.Token

	for {
		t, ok := c.Next()
		if !ok {
			return nil, 0, expected(")", c.Position())
		}

		var (
			inner []token.Token
			err   error
		)

		switch t.Kind {
		case ',', ')':
			return span, t.Kind, nil

		case '(':
			inner, err = c.ReadUntilClosingParen()

		case '[':
			inner, err = c.ReadUntilClosingBracket()

		case '"', '\'':
			inner, err = c.ReadUntilClosingQuote(t.Kind)
		}

		if err != nil {
			return nil, 0, err
		}

		span = append(span, t)
		span = append(span, inner...)
	}
}

func expected(what string, pos token.Pos) *diag.Error {
	return diag.ErrSyntax.Wrapf("expected %q.", what).WithPosition(pos)
}
