// Package token provides the character-granular token stream consumed by the
// argument binder and the expression evaluator.
//
// A [Token] is a single source character with its position. [Lex] produces
// one from text; a [Cursor] walks a token slice with peek/advance, mark/reset
// and the span readers that treat bracketed, parenthesized, and quoted
// sub-spans as atomic units.
package token

import (
	"strings"
	"unicode"

	"github.com/ardnew/scss/lang/diag"
)

// Pos locates a token in its source text.
type Pos = diag.Position

// Token is a single source character.
type Token struct {
	Kind rune
	Pos  Pos
}

// Lex splits src into tokens, one per character, recording the offset, line
// and column of each.
func Lex(src string) []Token {
	toks := make([]Token, 0, len(src))
	line, col := 1, 1

	for off, r := range src {
		toks = append(toks, Token{
			Kind: r,
			Pos:  Pos{Offset: off, Line: line, Column: col},
		})

		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return toks
}

// String renders toks back into source text.
func String(toks []Token) string {
	var sb strings.Builder

	sb.Grow(len(toks))

	for _, t := range toks {
		sb.WriteRune(t.Kind)
	}

	return sb.String()
}

// Trim returns toks without leading and trailing whitespace tokens.
func Trim(toks []Token) []Token {
	for len(toks) > 0 && IsWhitespace(toks[0].Kind) {
		toks = toks[1:]
	}

	for len(toks) > 0 && IsWhitespace(toks[len(toks)-1].Kind) {
		toks = toks[:len(toks)-1]
	}

	return toks
}

// IsWhitespace reports whether r separates tokens.
func IsWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}

	return false
}

// IsIdentStart reports whether r may begin an identifier.
func IsIdentStart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || r > unicode.MaxASCII
}

// IsIdent reports whether r may continue an identifier.
func IsIdent(r rune) bool {
	return IsIdentStart(r) || unicode.IsDigit(r)
}

// IsQuote reports whether r opens a quoted string.
func IsQuote(r rune) bool { return r == '"' || r == '\'' }
