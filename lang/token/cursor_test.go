package token

import (
	"errors"
	"testing"

	"github.com/ardnew/scss/lang/diag"
)

func TestLex_Positions(t *testing.T) {
	t.Parallel()

	toks := Lex("a\nbc")

	want := []Pos{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 1, Line: 1, Column: 2},
		{Offset: 2, Line: 2, Column: 1},
		{Offset: 3, Line: 2, Column: 2},
	}

	if len(toks) != len(want) {
		t.Fatalf("Lex produced %d tokens, want %d", len(toks), len(want))
	}

	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%q) at %+v, want %+v", i, tok.Kind, tok.Pos, want[i])
		}
	}

	if got := String(toks); got != "a\nbc" {
		t.Errorf("String round trip = %q", got)
	}
}

func TestCursor_MarkReset(t *testing.T) {
	t.Parallel()

	c := NewCursor(Lex("$name: 1"))
	mark := c.Mark()

	if tok, _ := c.Next(); tok.Kind != '$' {
		t.Fatalf("first token = %q, want $", tok.Kind)
	}

	if id := c.ReadIdent(); id != "name" {
		t.Errorf("ReadIdent = %q, want name", id)
	}

	c.Reset(mark)

	if !c.Is('$') {
		t.Error("Reset did not rewind to the mark")
	}
}

func TestCursor_SkipWhitespaceAndComments(t *testing.T) {
	tests := []struct {
		name string
		src  string
		next rune
		done bool
	}{
		{"spaces", "  \t\nx", 'x', false},
		{"block", " /* a ) b */ x", 'x', false},
		{"line", "// comment\n  y", 'y', false},
		{"mixed", "/**/ // c\n/* d */z", 'z', false},
		{"unterminated", "/* open", 0, true},
		{"slash", "/ 2", '/', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCursor(Lex(tt.src))
			c.SkipWhitespaceAndComments()

			if c.Done() != tt.done {
				t.Fatalf("Done() = %v, want %v", c.Done(), tt.done)
			}

			if !tt.done && !c.Is(tt.next) {
				tok, _ := c.Peek()
				t.Errorf("next token = %q, want %q", tok.Kind, tt.next)
			}
		})
	}
}

func TestCursor_ReadUntilClosingParen(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		rest    string
		wantErr bool
	}{
		{"flat", "a, b) c", "a, b)", " c", false},
		{"nested", "f(1, 2), [3, (4)]) x", "f(1, 2), [3, (4)])", " x", false},
		{"quoted paren", `"a)b", 'c(') d`, `"a)b", 'c(')`, " d", false},
		{"escaped quote", `"a\")") e`, `"a\")")`, " e", false},
		{"unterminated", "a, (b", "", "", true},
		{"unterminated quote", `"abc)`, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCursor(Lex(tt.src))

			span, err := c.ReadUntilClosingParen()
			if tt.wantErr {
				if !errors.Is(err, diag.ErrSyntax) {
					t.Fatalf("error = %v, want syntax error", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := String(span); got != tt.want {
				t.Errorf("span = %q, want %q", got, tt.want)
			}

			if got := String(c.Rest()); got != tt.rest {
				t.Errorf("rest = %q, want %q", got, tt.rest)
			}
		})
	}
}

func TestCursor_PositionAtEnd(t *testing.T) {
	t.Parallel()

	c := NewCursor(Lex("ab"))
	c.Rest()

	if got := c.Position(); got.Column != 3 || got.Line != 1 {
		t.Errorf("end position = %+v, want column 3 line 1", got)
	}
}

func TestTrim(t *testing.T) {
	t.Parallel()

	if got := String(Trim(Lex("  1 + 2 \n"))); got != "1 + 2" {
		t.Errorf("Trim = %q", got)
	}

	if got := Trim(Lex("   ")); len(got) != 0 {
		t.Errorf("Trim of blanks = %q", String(got))
	}
}
