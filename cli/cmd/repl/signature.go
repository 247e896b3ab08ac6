package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/scss/lang/args"
	"github.com/ardnew/scss/lang/builtin"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureDocStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name, possibly module-qualified (e.g., "math.div")
	argIndex int    // current argument index (0-based)
	argName  string // keyword of the current argument, if passed by name
	inCall   bool   // true if cursor is inside parameter list
}

// isNameRune reports whether r may appear in a function name.
func isNameRune(r rune) bool {
	return r == '.' || r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's argument list. It returns the function name, current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward from cursor to find the innermost unclosed '('.
	depth := 0
	open := -1

scan:
	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i

				break scan
			}

			depth--
		}
	}

	if open == -1 {
		return functionCall{}
	}

	nameStart := open

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if !isNameRune(r) {
			break
		}

		nameStart -= size
	}

	funcName := input[nameStart:open]
	if funcName == "" {
		return functionCall{}
	}

	// Count arguments by counting commas at depth 0 in the argument list.
	argIndex := 0
	argStart := open + 1
	depth = 0

	for i, r := range input[open+1 : cursor] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
				argStart = open + 1 + i + 1
			}
		}
	}

	return functionCall{
		name:     funcName,
		argIndex: argIndex,
		argName:  keyword(input[argStart:cursor]),
		inCall:   true,
	}
}

// keyword returns the parameter name of an argument passed as "$name: expr",
// or "" for a positional argument.
func keyword(arg string) string {
	arg = strings.TrimSpace(arg)

	name, ok := strings.CutPrefix(arg, "$")
	if !ok {
		return ""
	}

	name, _, ok = strings.Cut(name, ":")
	if !ok {
		return ""
	}

	name = strings.TrimSpace(name)
	if strings.IndexFunc(name, func(r rune) bool { return !isNameRune(r) || r == '.' }) >= 0 {
		return ""
	}

	return args.Canonical(name)
}

// signature describes the parameters of a builtin for rendering a hint.
type signature struct {
	name   string
	params args.FuncArgs
	doc    string
}

// getSignature retrieves the signature of the builtin named funcName.
func getSignature(funcs *builtin.Registry, funcName string) (signature, bool) {
	if funcs == nil {
		return signature{}, false
	}

	info, ok := funcs.Info(funcName)
	if !ok {
		return signature{}, false
	}

	params, err := args.ParseSignature(info.Signature)
	if err != nil {
		return signature{}, false
	}

	return signature{name: funcName, params: params, doc: info.Doc}, true
}

// current returns the index of the parameter receiving the argument at
// argIndex, or the parameter named argName if non-empty. It returns -1 when
// no parameter receives the argument.
func (s signature) current(argIndex int, argName string) int {
	if argName != "" {
		return s.params.Index(argName)
	}

	n := len(s.params)

	switch {
	case argIndex < n:
		return argIndex
	case n > 0 && s.params[n-1].Variadic:
		return n - 1
	}

	return -1
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(sig signature, call functionCall) string {
	if sig.name == "" {
		return ""
	}

	cur := sig.current(call.argIndex, call.argName)

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig.params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		if i == cur {
			b.WriteString(currentParamStyle.Render(param.String()))
		} else {
			b.WriteString(signatureStyle.Render(param.String()))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if sig.doc != "" {
		b.WriteString("  ")
		b.WriteString(signatureDocStyle.Render(sig.doc))
	}

	return b.String()
}
