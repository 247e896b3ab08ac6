package args

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/token"
)

// FuncArg is a declared parameter of a mixin, function or builtin.
type FuncArg struct {
	// Name is the canonical parameter name, without the leading '$'.
	Name string
	// Default is the unevaluated default expression, or nil if the
	// parameter is required.
	Default []token.Token
	// Variadic marks a trailing parameter that collects the remaining
	// positional arguments.
	Variadic bool
}

// Required reports whether a call must supply the parameter.
func (a FuncArg) Required() bool { return a.Default == nil && !a.Variadic }

func (a FuncArg) String() string {
	switch {
	case a.Variadic:
		return "$" + a.Name + "..."
	case a.Default != nil:
		return "$" + a.Name + ": " + token.String(a.Default)
	}

	return "$" + a.Name
}

// FuncArgs is an ordered parameter list. Only the last parameter may be
// variadic. A FuncArgs is immutable once parsed.
type FuncArgs []FuncArg

// Index returns the ordinal of the parameter with the given name, or -1.
func (fa FuncArgs) Index(name string) int {
	name = Canonical(name)

	for i, a := range fa {
		if a.Name == name {
			return i
		}
	}

	return -1
}

func (fa FuncArgs) String() string {
	part := make([]string, 0, len(fa))
	for _, a := range fa {
		part = append(part, a.String())
	}

	return "(" + strings.Join(part, ", ") + ")"
}

// ParseDeclaredParams parses a parameter list from c, which is positioned
// just past the opening '('. The closing ')' must be followed by '{', which
// is consumed.
func ParseDeclaredParams(c *token.Cursor) (FuncArgs, error) {
	var params FuncArgs

	seen := map[string]struct{}{}

	c.SkipWhitespaceAndComments()

params:
	for {
		t, ok := c.Next()
		if !ok {
			return nil, expected(")", c.Position())
		}

		switch t.Kind {
		case ')':
			break params
		case '$':
		default:
			return nil, expected("$", t.Pos)
		}

		pos := c.Position()

		name := c.ReadIdent()
		if name == "" {
			return nil, diag.ErrSyntax.Wrapf("Expected identifier.").WithPosition(pos)
		}

		name = Canonical(name)
		if _, dup := seen[name]; dup {
			return nil, diag.ErrSyntax.
				Wrapf("Duplicate parameter $%s.", name).
				WithPosition(pos).
				With(slog.String("param", name))
		}

		seen[name] = struct{}{}

		c.SkipWhitespaceAndComments()

		t, ok = c.Next()
		if !ok {
			return nil, expected(")", c.Position())
		}

		switch t.Kind {
		case ':':
			c.SkipWhitespaceAndComments()

			start := c.Position()

			span, term, err := readSpan(c)
			if err != nil {
				return nil, err
			}

			span = token.Trim(span)
			if len(span) == 0 {
				return nil, diag.ErrSyntax.Wrapf("Expected expression.").WithPosition(start)
			}

			params = append(params, FuncArg{Name: name, Default: span})

			if term == ')' {
				break params
			}

		case '.':
			for range 2 {
				if t, ok := c.Next(); !ok || t.Kind != '.' {
					return nil, expected(".", c.Position())
				}
			}

			c.SkipWhitespaceAndComments()

			if t, ok := c.Next(); !ok || t.Kind != ')' {
				return nil, expected(")", c.Position())
			}

			params = append(params, FuncArg{Name: name, Variadic: true})

			break params

		case ')':
			params = append(params, FuncArg{Name: name})

			break params

		case ',':
			params = append(params, FuncArg{Name: name})

		default:
			return nil, expected(")", t.Pos)
		}

		c.SkipWhitespaceAndComments()
	}

	c.SkipWhitespaceAndComments()

	if t, ok := c.Next(); !ok || t.Kind != '{' {
		return nil, expected("{", c.Position())
	}

	return params, nil
}

var signatures sync.Map // xxh3 hash of source -> FuncArgs

// ParseSignature parses a parenthesized parameter list written as text, for
// example "($number, $base: null)". Results are cached by source text, so
// callers must treat the returned FuncArgs as read-only.
func ParseSignature(src string) (FuncArgs, error) {
	key := xxh3.HashString(src)

	if fa, ok := signatures.Load(key); ok {
		return fa.(FuncArgs), nil
	}

	c := token.NewCursor(token.Lex(src + "{"))
	c.SkipWhitespaceAndComments()

	if t, ok := c.Next(); !ok || t.Kind != '(' {
		return nil, expected("(", c.Position())
	}

	fa, err := ParseDeclaredParams(c)
	if err != nil {
		return nil, err
	}

	if c.SkipWhitespaceAndComments(); !c.Done() {
		return nil, diag.ErrSyntax.Wrapf("expected end of signature.").WithPosition(c.Position())
	}

	signatures.Store(key, fa)

	return fa, nil
}
