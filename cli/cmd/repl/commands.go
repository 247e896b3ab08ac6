package repl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/lang/builtin"
	"github.com/ardnew/scss/lang/diag"
	"github.com/ardnew/scss/lang/value"
)

// Messages delivered when the external editor exits.
type (
	editVarsMsg      struct{ results []lang.Result }
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help           Print this cruft
  vars           List global variables
  funcs [query]  List builtin functions, optionally fuzzy-filtered
  edit           Edit global variables in external $EDITOR
  clear          Clear screen
  quit           Exit REPL

Usage:
  Type an expression to evaluate it, or "$name: expression" to assign
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// echo formats a submitted line with the prompt of mode.
func echo(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatError renders err with its source column when one is known.
func formatError(err error) string {
	var de *diag.Error
	if !errors.As(err, &de) {
		return "error: " + err.Error()
	}

	if pos := de.Position(); pos.Column > 0 {
		return fmt.Sprintf("error at column %d: %s", pos.Column, de.Cause())
	}

	return "error: " + de.Cause()
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Submission clears the unsubmitted input of both modes.
	m.saved = [2]inputState{}
	m.input.SetValue("")
	m.matches = nil

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("input", input))

		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	echoCmd := tea.Println(echo(modeEval, input))

	res, err := m.compiler.Exec(input)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result_type", "error"),
			slog.Any("error", err),
		)

		return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render(formatError(err))))
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.String("result_type", res.Type),
	)

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(res.String())))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(echo(modeCtrl, input))

	cmd, args := parts[0], parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echoCmd, tea.Println(m.listVars()))

	case "f", "funcs":
		return m, tea.Sequence(echoCmd, tea.Println(m.listFuncs(strings.Join(args, " "))))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editVarsCommand{
		compiler: m.compiler,
		ctxFunc:  m.ctxFunc,
		logger:   m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case len(cmd.results) == 0:
			return editCancelledMsg{}
		}

		return editVarsMsg{results: cmd.results}
	})
}

// listVars renders each global variable with its value and type.
func (m model) listVars() string {
	var b strings.Builder

	for name, v := range m.compiler.Vars() {
		kind, err := value.Kind(v)
		if err != nil {
			kind = "?"
		}

		fmt.Fprintf(&b, "  $%s: %s %s\n", name, v, hintStyle.Render(kind))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  no variables defined")
	}

	return b.String()
}

// listFuncs renders the builtins whose names fuzzy-match query, best match
// first, or all builtins if query is empty.
func (m model) listFuncs(query string) string {
	funcs := m.compiler.Funcs()

	var infos []builtin.Info

	if query == "" {
		for info := range funcs.All() {
			infos = append(infos, info)
		}
	} else {
		seen := make(map[string]bool)

		for _, match := range fuzzy.Find(query, funcs.Names()) {
			info, ok := funcs.Info(match.Str)
			if ok && !seen[info.Name] {
				seen[info.Name] = true
				infos = append(infos, info)
			}
		}
	}

	if len(infos) == 0 {
		return hintStyle.Render("  no functions match " + query)
	}

	var b strings.Builder

	for _, info := range infos {
		fmt.Fprintf(&b, "  %s%s %s\n",
			suggestionStyle.Render(info.Name),
			info.Signature,
			hintStyle.Render(info.Doc),
		)
	}

	return b.String()
}
