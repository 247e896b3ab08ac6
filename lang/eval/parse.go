package eval

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/ardnew/scss/lang/args"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/token"
	"github.com/ardnew/scss/lang/unit"
	"github.com/ardnew/scss/lang/value"
)

// rawFuncs keep their arguments as written.
var rawFuncs = map[string]struct{}{
	"calc":       {},
	"element":    {},
	"env":        {},
	"expression": {},
	"url":        {},
	"var":        {},
}

// parser is a recursive-descent evaluator over one token span. Each level
// of the grammar parses its operands and applies its operator immediately,
// except that + - == != build deferred [value.BinaryOp] nodes.
//
// While skip is positive the parser only scans: variables, constants,
// parentheses and calls yield null without being resolved, and no operator
// is applied. It is how the unused operand of "and" and "or" is passed over.
type parser struct {
	env   *Env
	c     *token.Cursor
	depth int
	skip  int
}

func (p *parser) syntax(format string, a ...any) *diag.Error {
	return diag.ErrSyntax.Wrapf(format, a...).WithPosition(p.c.Position())
}

// at reports whether the cursor is at the end of the span or a closing ')'.
func (p *parser) at() bool { return p.c.Done() || p.c.Is(')') }

func (p *parser) expression() (value.Value, error) {
	p.c.SkipWhitespaceAndComments()

	if p.c.Done() {
		return nil, p.syntax("Expected expression.")
	}

	v, err := p.commaList()
	if err != nil {
		return nil, err
	}

	if p.c.SkipWhitespaceAndComments(); !p.c.Done() {
		t, _ := p.c.Peek()

		return nil, p.syntax("Unexpected %q.", string(t.Kind))
	}

	return v, nil
}

func (p *parser) commaList() (value.Value, error) {
	first, err := p.spaceList()
	if err != nil {
		return nil, err
	}

	elems := []value.Value{first}
	comma := false

	for {
		mark := p.c.Mark()
		p.c.SkipWhitespaceAndComments()

		if !p.c.Is(',') {
			p.c.Reset(mark)

			break
		}

		p.c.Next()
		p.c.SkipWhitespaceAndComments()

		comma = true

		if p.at() {
			break
		}

		v, err := p.spaceList()
		if err != nil {
			return nil, err
		}

		elems = append(elems, v)
	}

	if !comma {
		return first, nil
	}

	return value.List{Elems: elems, Sep: value.Comma}, nil
}

func (p *parser) spaceList() (value.Value, error) {
	first, err := p.or()
	if err != nil {
		return nil, err
	}

	elems := []value.Value{first}

	for {
		mark := p.c.Mark()

		if !p.c.SkipWhitespaceAndComments() || p.at() || p.c.Is(',') {
			p.c.Reset(mark)

			break
		}

		v, err := p.or()
		if err != nil {
			return nil, err
		}

		elems = append(elems, v)
	}

	if len(elems) == 1 {
		return first, nil
	}

	return value.List{Elems: elems, Sep: value.Space}, nil
}

// keyword consumes the word kw if it follows whitespace at the cursor and is
// not part of a longer identifier.
func (p *parser) keyword(kw string) bool {
	mark := p.c.Mark()

	if !p.c.SkipWhitespaceAndComments() || !p.word(kw) {
		p.c.Reset(mark)

		return false
	}

	for range len(kw) {
		p.c.Next()
	}

	p.c.SkipWhitespaceAndComments()

	return true
}

// word reports whether the word w is at the cursor, without consuming it.
func (p *parser) word(w string) bool {
	i := 0

	for _, r := range w {
		t, ok := p.c.PeekN(i)
		if !ok || t.Kind != r {
			return false
		}

		i++
	}

	t, ok := p.c.PeekN(i)

	return !ok || !token.IsIdent(t.Kind)
}

func (p *parser) or() (value.Value, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}

	for p.keyword("or") {
		ok, err := p.truthy(l)
		if err != nil {
			return nil, err
		}

		r, err := p.operand(ok, p.and)
		if err != nil {
			return nil, err
		}

		if !ok {
			l = r
		}
	}

	return l, nil
}

func (p *parser) and() (value.Value, error) {
	l, err := p.equality()
	if err != nil {
		return nil, err
	}

	for p.keyword("and") {
		ok, err := p.truthy(l)
		if err != nil {
			return nil, err
		}

		r, err := p.operand(!ok, p.equality)
		if err != nil {
			return nil, err
		}

		if ok {
			l = r
		}
	}

	return l, nil
}

// truthy is [value.IsTrue], except that nothing is evaluated while skipping.
func (p *parser) truthy(v value.Value) (bool, error) {
	if p.skip > 0 {
		return false, nil
	}

	return value.IsTrue(v)
}

// operand parses the right operand of a logical operator, only scanning it
// if the left operand already decided the result.
func (p *parser) operand(decided bool, parse func() (value.Value, error)) (value.Value, error) {
	if decided {
		p.skip++

		defer func() { p.skip-- }()
	}

	return parse()
}

func (p *parser) equality() (value.Value, error) {
	l, err := p.relational()
	if err != nil {
		return nil, err
	}

	for {
		mark := p.c.Mark()
		p.c.SkipWhitespaceAndComments()

		op, ok := p.operator(map[string]value.Op{"==": value.Equal, "!=": value.NotEqual})
		if !ok {
			p.c.Reset(mark)

			return l, nil
		}

		p.c.SkipWhitespaceAndComments()

		r, err := p.relational()
		if err != nil {
			return nil, err
		}

		l = value.BinaryOp{Left: l, Op: op, Right: r}
	}
}

func (p *parser) relational() (value.Value, error) {
	l, err := p.additive()
	if err != nil {
		return nil, err
	}

	for {
		mark := p.c.Mark()
		p.c.SkipWhitespaceAndComments()

		op, ok := p.operator(map[string]value.Op{
			"<=": value.Le, ">=": value.Ge, "<": value.Lt, ">": value.Gt,
		})
		if !ok {
			p.c.Reset(mark)

			return l, nil
		}

		p.c.SkipWhitespaceAndComments()

		r, err := p.additive()
		if err != nil {
			return nil, err
		}

		if p.skip > 0 {
			l = value.Null{}

			continue
		}

		if l, err = p.apply(value.Compare, l, op, r); err != nil {
			return nil, err
		}
	}
}

// operator consumes the longest operator in ops found at the cursor.
func (p *parser) operator(ops map[string]value.Op) (value.Op, bool) {
	t, ok := p.c.Peek()
	if !ok {
		return 0, false
	}

	if n, ok := p.c.PeekN(1); ok {
		if op, ok := ops[string([]rune{t.Kind, n.Kind})]; ok {
			p.c.Next()
			p.c.Next()

			return op, true
		}
	}

	if op, ok := ops[string(t.Kind)]; ok {
		p.c.Next()

		return op, true
	}

	return 0, false
}

func (p *parser) apply(
	fn func(l value.Value, op value.Op, r value.Value) (value.Bool, error),
	l value.Value, op value.Op, r value.Value,
) (value.Value, error) {
	l, err := value.Resolve(l)
	if err != nil {
		return nil, err
	}

	if r, err = value.Resolve(r); err != nil {
		return nil, err
	}

	return fn(l, op, r)
}

func (p *parser) additive() (value.Value, error) {
	l, _, err := p.multiplicative()
	if err != nil {
		return nil, err
	}

	for {
		mark := p.c.Mark()
		space := p.c.SkipWhitespaceAndComments()

		t, ok := p.c.Peek()
		if !ok || (t.Kind != '+' && t.Kind != '-') {
			p.c.Reset(mark)

			return l, nil
		}

		// "1 -2" is a list of two numbers, not a difference.
		if n, ok := p.c.PeekN(1); space && ok && !token.IsWhitespace(n.Kind) {
			p.c.Reset(mark)

			return l, nil
		}

		p.c.Next()
		p.c.SkipWhitespaceAndComments()

		r, _, err := p.multiplicative()
		if err != nil {
			return nil, err
		}

		op := value.Plus
		if t.Kind == '-' {
			op = value.Minus
		}

		l = value.BinaryOp{Left: l, Op: op, Right: r}
	}
}

// multiplicative also reports whether its result is a bare number literal,
// which decides whether '/' divides or separates. Outside parentheses and
// call arguments, '/' between two literals separates.
func (p *parser) multiplicative() (value.Value, bool, error) {
	l, lit, err := p.unary()
	if err != nil {
		return nil, false, err
	}

	for {
		mark := p.c.Mark()
		p.c.SkipWhitespaceAndComments()

		t, ok := p.c.Peek()
		if !ok || !strings.ContainsRune("*/%", t.Kind) {
			p.c.Reset(mark)

			return l, lit, nil
		}

		p.c.Next()
		p.c.SkipWhitespaceAndComments()

		r, rlit, err := p.unary()
		if err != nil {
			return nil, false, err
		}

		join := !p.env.divide && p.depth == p.env.depth && lit && rlit
		lit = false

		if p.skip > 0 {
			l = value.Null{}

			continue
		}

		if l, err = value.Resolve(l); err != nil {
			return nil, false, err
		}

		if r, err = value.Resolve(r); err != nil {
			return nil, false, err
		}

		switch t.Kind {
		case '*':
			l, err = value.Times(l, r)

		case '%':
			l, err = value.Modulo(l, r)

		case '/':
			if join {
				l = value.Str(l.String() + "/" + r.String())
			} else {
				l, err = value.Divide(l, r)
			}
		}

		if err != nil {
			return nil, false, diag.WrapError(err).WithPosition(t.Pos)
		}
	}
}

func (p *parser) unary() (value.Value, bool, error) {
	t, ok := p.c.Peek()
	if !ok {
		return nil, false, p.syntax("Expected expression.")
	}

	switch {
	case t.Kind == '-' || t.Kind == '+':
		n, _ := p.c.PeekN(1)

		switch {
		case p.numberAt(1):
			return p.number()

		case t.Kind == '-' && token.IsIdentStart(n.Kind):
			return p.primary()
		}

		p.c.Next()
		p.c.SkipWhitespaceAndComments()

		v, _, err := p.unary()
		if err != nil {
			return nil, false, err
		}

		if v, err = value.Resolve(v); err != nil {
			return nil, false, err
		}

		if t.Kind == '-' {
			v = value.Negate(v)
		} else if _, ok := v.(value.Dimension); !ok {
			v = value.Str("+" + v.String())
		}

		return v, false, nil

	case p.word("not"):
		for range len("not") {
			p.c.Next()
		}

		p.c.SkipWhitespaceAndComments()

		v, _, err := p.unary()
		if err != nil {
			return nil, false, err
		}

		ok, err := value.IsTrue(v)
		if err != nil {
			return nil, false, err
		}

		return value.Of(!ok), false, nil
	}

	return p.primary()
}

func (p *parser) primary() (value.Value, bool, error) {
	t, ok := p.c.Peek()
	if !ok {
		return nil, false, p.syntax("Expected expression.")
	}

	switch {
	case p.numberAt(0):
		return p.number()

	case t.Kind == '#':
		v, err := p.color()

		return v, false, err

	case token.IsQuote(t.Kind):
		v, err := p.quoted()

		return v, false, err

	case t.Kind == '$':
		v, err := p.variable()

		return v, false, err

	case t.Kind == '(':
		v, err := p.paren()

		return v, false, err

	case t.Kind == '!':
		v, err := p.important()

		return v, false, err

	case token.IsIdentStart(t.Kind):
		v, err := p.identifier()

		return v, false, err
	}

	return nil, false, p.syntax("Expected expression.")
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// numberAt reports whether a number literal starts n tokens past the cursor.
func (p *parser) numberAt(n int) bool {
	t, ok := p.c.PeekN(n)
	if !ok {
		return false
	}

	if t.Kind == '.' {
		t, ok = p.c.PeekN(n + 1)
	}

	return ok && isDigit(t.Kind)
}

func (p *parser) digits(sb *strings.Builder) {
	for t, ok := p.c.Peek(); ok && isDigit(t.Kind); t, ok = p.c.Peek() {
		sb.WriteRune(t.Kind)
		p.c.Next()
	}
}

func (p *parser) number() (value.Value, bool, error) {
	start := p.c.Position()

	var sb strings.Builder

	if t, _ := p.c.Peek(); t.Kind == '-' || t.Kind == '+' {
		sb.WriteRune(t.Kind)
		p.c.Next()
	}

	p.digits(&sb)

	if n, ok := p.c.PeekN(1); p.c.Is('.') && ok && isDigit(n.Kind) {
		sb.WriteByte('.')
		p.c.Next()
		p.digits(&sb)
	}

	if p.c.Is('e') || p.c.Is('E') {
		n, _ := p.c.PeekN(1)
		m, _ := p.c.PeekN(2)

		if isDigit(n.Kind) || ((n.Kind == '-' || n.Kind == '+') && isDigit(m.Kind)) {
			sb.WriteByte('e')
			p.c.Next()

			if !isDigit(n.Kind) {
				sb.WriteRune(n.Kind)
				p.c.Next()
			}

			p.digits(&sb)
		}
	}

	n, err := value.ParseNumber(sb.String())
	if err != nil {
		return nil, false, diag.WrapError(err).WithPosition(start)
	}

	if p.c.Is('%') {
		p.c.Next()

		return value.Dimension{Num: n, Unit: unit.Percent}, true, nil
	}

	var name strings.Builder

	for t, ok := p.c.Peek(); ok && unicode.IsLetter(t.Kind); t, ok = p.c.Peek() {
		name.WriteRune(t.Kind)
		p.c.Next()
	}

	u, ok := unit.Parse(name.String())
	if !ok {
		return nil, false, diag.ErrSyntax.Wrapf("Unknown unit %q.", name.String()).WithPosition(start)
	}

	return value.Dimension{Num: n, Unit: u}, true, nil
}

func (p *parser) color() (value.Value, error) {
	start := p.c.Position()
	p.c.Next()

	var sb strings.Builder

	sb.WriteByte('#')

	for t, ok := p.c.Peek(); ok && token.IsIdent(t.Kind); t, ok = p.c.Peek() {
		sb.WriteRune(t.Kind)
		p.c.Next()
	}

	c, err := value.ParseHex(sb.String())
	if err != nil {
		return nil, diag.WrapError(err).WithPosition(start)
	}

	return c, nil
}

func (p *parser) quoted() (value.Value, error) {
	q, _ := p.c.Next()

	span, err := p.c.ReadUntilClosingQuote(q.Kind)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder

	for i := 0; i < len(span)-1; i++ {
		if span[i].Kind == '\\' && i+1 < len(span)-1 {
			i++
		}

		sb.WriteRune(span[i].Kind)
	}

	kind := value.Double
	if q.Kind == '\'' {
		kind = value.Single
	}

	return value.Ident{Text: sb.String(), Quote: kind}, nil
}

// name consumes an identifier. A '-' is only part of the name when an
// identifier character follows it.
func (p *parser) name() string {
	var sb strings.Builder

	for t, ok := p.c.Peek(); ok && token.IsIdent(t.Kind); t, ok = p.c.Peek() {
		if t.Kind == '-' {
			if n, ok := p.c.PeekN(1); !ok || !token.IsIdent(n.Kind) {
				break
			}
		}

		sb.WriteRune(t.Kind)
		p.c.Next()
	}

	return sb.String()
}

func (p *parser) variable() (value.Value, error) {
	start := p.c.Position()
	p.c.Next()

	name := p.name()
	if name == "" {
		return nil, p.syntax("Expected identifier.")
	}

	if p.skip > 0 {
		return value.Null{}, nil
	}

	v, ok := p.env.variable(args.Canonical(name))
	if !ok {
		return nil, diag.ErrBinding.
			Wrapf("Undefined variable $%s.", args.Canonical(name)).
			WithPosition(start)
	}

	return v, nil
}

func (p *parser) paren() (value.Value, error) {
	start := p.c.Position()
	p.c.Next()

	if p.skip > 0 {
		_, err := p.c.ReadUntilClosingParen()

		return value.Null{}, err
	}

	if p.depth++; p.depth > p.env.maxDepth() {
		return nil, diag.ErrSyntax.Wrapf("Nesting too deep.").WithPosition(start)
	}

	defer func() { p.depth-- }()

	p.c.SkipWhitespaceAndComments()

	if p.c.Is(')') {
		p.c.Next()

		return value.List{}, nil
	}

	v, err := p.commaList()
	if err != nil {
		return nil, err
	}

	if p.c.SkipWhitespaceAndComments(); !p.c.Is(')') {
		return nil, p.syntax("expected %q.", ")")
	}

	p.c.Next()

	return value.Paren{Inner: v}, nil
}

func (p *parser) important() (value.Value, error) {
	p.c.Next()
	p.c.SkipWhitespaceAndComments()

	if !strings.EqualFold(p.name(), "important") {
		return nil, p.syntax("expected %q.", "important")
	}

	return value.Important{}, nil
}

func (p *parser) identifier() (value.Value, error) {
	start := p.c.Position()
	name := p.name()

	if name == "" {
		// A lone '-' followed by a non-identifier character.
		p.c.Next()

		return value.Str("-"), nil
	}

	if n, ok := p.c.PeekN(1); p.c.Is('.') && ok {
		switch {
		case n.Kind == '$':
			p.c.Next()
			p.c.Next()

			member := args.Canonical(p.name())

			if p.skip > 0 {
				return value.Null{}, nil
			}

			if p.env.Funcs != nil {
				if v, ok := p.env.Funcs.Const(name, member); ok {
					return v, nil
				}
			}

			return nil, diag.ErrBinding.
				Wrapf("Undefined variable %s.$%s.", name, member).
				WithPosition(start)

		case token.IsIdentStart(n.Kind):
			mark := p.c.Mark()
			p.c.Next()

			member := p.name()

			if !p.c.Is('(') {
				p.c.Reset(mark)

				break
			}

			name += "." + member
		}
	}

	if p.c.Is('(') {
		return p.call(name, start)
	}

	switch name {
	case "true":
		return value.True, nil
	case "false":
		return value.False, nil
	case "null":
		return value.Null{}, nil
	}

	return value.Str(name), nil
}

func (p *parser) call(name string, start token.Pos) (value.Value, error) {
	p.c.Next()

	if p.skip > 0 {
		_, err := p.c.ReadUntilClosingParen()

		return value.Null{}, err
	}

	if _, ok := rawFuncs[strings.ToLower(name)]; ok {
		span, err := p.c.ReadUntilClosingParen()
		if err != nil {
			return nil, err
		}

		return value.Str(name + "(" + token.String(span)), nil
	}

	outer := *p.env
	outer.depth = p.depth

	env, err := outer.Enter()
	if err != nil {
		return nil, diag.WrapError(err).WithPosition(start)
	}

	mark := p.c.Mark()

	call, err := args.ParseActualArgs(p.c)
	if err != nil {
		return nil, err
	}

	p.env.Logger.Trace("call",
		slog.String("func", name),
		slog.Int("args", call.Len()),
		slog.String("position", start.String()),
	)

	if p.env.Funcs != nil {
		if fn, ok := p.env.Funcs.Lookup(name); ok {
			v, ok, err := fn(env, call)
			if err != nil {
				de := diag.WrapError(err).With(slog.String("func", name))
				if !de.Position().IsValid() {
					de = de.WithPosition(start)
				}

				return nil, de
			}

			if ok {
				return v, nil
			}

			end := p.c.Mark()
			p.c.Reset(mark)

			if call, err = args.ParseActualArgs(p.c); err != nil {
				return nil, err
			}

			p.c.Reset(end)
		}
	}

	return plain(env, name, call, start)
}

// plain renders a call to a function that is not defined here as CSS.
// Its arguments keep a '/' between literals as written.
func plain(env *Env, name string, call *args.CallArgs, start token.Pos) (value.Value, error) {
	css := *env
	css.divide = false

	for _, k := range call.Keys() {
		if k.IsNamed() {
			return nil, diag.ErrBinding.
				Wrapf("Plain CSS functions don't support keyword arguments.").
				With(slog.String("func", name)).
				WithPosition(start)
		}
	}

	vals, err := call.Variadic(&css)
	if err != nil {
		return nil, err
	}

	part := make([]string, 0, len(vals))

	for _, v := range vals {
		if v, err = value.Resolve(v); err != nil {
			return nil, err
		}

		part = append(part, v.String())
	}

	return value.Str(name + "(" + strings.Join(part, ", ") + ")"), nil
}
