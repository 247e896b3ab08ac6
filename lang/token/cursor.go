package token

import (
	"github.com/ardnew/scss/lang/diag"
)

// Cursor is a forward iterator over a token slice.
// The zero Cursor is an exhausted cursor.
type Cursor struct {
	toks []Token
	pos  int
}

// NewCursor returns a cursor positioned at the first of toks.
func NewCursor(toks []Token) *Cursor {
	return &Cursor{toks: toks}
}

// Done reports whether all tokens were consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.toks) }

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (Token, bool) { return c.PeekN(0) }

// PeekN returns the token n places ahead of the next one without consuming
// anything. PeekN(0) is Peek.
func (c *Cursor) PeekN(n int) (Token, bool) {
	if i := c.pos + n; i >= 0 && i < len(c.toks) {
		return c.toks[i], true
	}

	return Token{}, false
}

// Is reports whether the next token is r.
func (c *Cursor) Is(r rune) bool {
	t, ok := c.Peek()

	return ok && t.Kind == r
}

// Next consumes and returns the next token.
func (c *Cursor) Next() (Token, bool) {
	t, ok := c.Peek()
	if ok {
		c.pos++
	}

	return t, ok
}

// Position returns the position of the next token, or the position just past
// the last token when the cursor is exhausted.
func (c *Cursor) Position() Pos {
	if t, ok := c.Peek(); ok {
		return t.Pos
	}

	if n := len(c.toks); n > 0 {
		end := c.toks[n-1].Pos
		end.Offset++
		end.Column++

		return end
	}

	return Pos{}
}

// Mark returns a handle that [Cursor.Reset] rewinds to.
func (c *Cursor) Mark() int { return c.pos }

// Reset rewinds the cursor to a handle returned by [Cursor.Mark].
func (c *Cursor) Reset(mark int) { c.pos = mark }

// Rest returns the unconsumed tokens and exhausts the cursor.
func (c *Cursor) Rest() []Token {
	rest := c.toks[min(c.pos, len(c.toks)):]
	c.pos = len(c.toks)

	return rest
}

// SkipWhitespace consumes whitespace and reports whether any was found.
func (c *Cursor) SkipWhitespace() bool {
	start := c.pos

	for t, ok := c.Peek(); ok && IsWhitespace(t.Kind); t, ok = c.Peek() {
		c.pos++
	}

	return c.pos > start
}

// SkipWhitespaceAndComments consumes whitespace, block comments and line
// comments, and reports whether anything was consumed. An unterminated block
// comment runs to the end of input.
func (c *Cursor) SkipWhitespaceAndComments() bool {
	start := c.pos

	for {
		c.SkipWhitespace()

		if !c.Is('/') {
			break
		}

		t, ok := c.PeekN(1)
		if !ok {
			break
		}

		switch t.Kind {
		case '*':
			c.pos += 2
			c.skipBlockComment()

			continue

		case '/':
			c.pos += 2
			for t, ok := c.Next(); ok && t.Kind != '\n'; t, ok = c.Next() {
			}

			continue
		}

		break
	}

	return c.pos > start
}

func (c *Cursor) skipBlockComment() {
	for t, ok := c.Next(); ok; t, ok = c.Next() {
		if t.Kind == '*' && c.Is('/') {
			c.pos++

			return
		}
	}
}

// ReadIdent consumes the longest identifier at the cursor.
func (c *Cursor) ReadIdent() string {
	var id []rune

	for t, ok := c.Peek(); ok && IsIdent(t.Kind); t, ok = c.Peek() {
		id = append(id, t.Kind)
		c.pos++
	}

	return string(id)
}

// ReadUntilClosingParen consumes tokens up to and including the ')' matching
// an already consumed '('. Nested brackets, parentheses and quoted strings are
// consumed as single units.
func (c *Cursor) ReadUntilClosingParen() ([]Token, error) {
	return c.readNested(')')
}

// ReadUntilClosingBracket is [Cursor.ReadUntilClosingParen] for '[' and ']'.
func (c *Cursor) ReadUntilClosingBracket() ([]Token, error) {
	return c.readNested(']')
}

// ReadUntilClosingQuote consumes tokens up to and including the quote
// character q that terminates an already opened string. Backslash escapes
// the following character.
func (c *Cursor) ReadUntilClosingQuote(q rune) ([]Token, error) {
	var span []Token

	for t, ok := c.Next(); ok; t, ok = c.Next() {
		span = append(span, t)

		switch t.Kind {
		case q:
			return span, nil

		case '\\':
			if e, ok := c.Next(); ok {
				span = append(span, e)
			}
		}
	}

	return nil, unterminated(q, c.Position())
}

func (c *Cursor) readNested(closer rune) ([]Token, error) {
	var span []Token

	for t, ok := c.Next(); ok; t, ok = c.Next() {
		span = append(span, t)

		var (
			inner []Token
			err   error
		)

		switch t.Kind {
		case closer:
			return span, nil

		case '(':
			inner, err = c.ReadUntilClosingParen()

		case '[':
			inner, err = c.ReadUntilClosingBracket()

		case '"', '\'':
			inner, err = c.ReadUntilClosingQuote(t.Kind)

		default:
			continue
		}

		if err != nil {
			return nil, err
		}

		span = append(span, inner...)
	}

	return nil, unterminated(closer, c.Position())
}

func unterminated(closer rune, pos Pos) error {
	return diag.ErrSyntax.
		Wrapf("expected %q.", string(closer)).
		WithPosition(pos)
}
