// Package repl implements the interactive session of the repl command.
//
// Statements are executed against a single [lang.Compiler], so variables
// assigned at the prompt stay visible to later statements. A second input
// mode, toggled with Esc, accepts session commands such as vars and funcs.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/log"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// inputState is the text and cursor position of the input line.
type inputState struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	compiler   *lang.Compiler
	logger     log.Logger
	history    *History
	historyIdx int

	matches    fuzzy.Matches // current fuzzy match results
	candidates []string      // backing candidate list
	wordStart  int           // byte offset of current word start
	wordEnd    int           // byte offset of current word end
	suggIdx    int           // selected candidate index
	tabActive  bool          // whether user is tab-cycling
	preTab     inputState    // input before tab-cycling began

	altNavActive bool       // whether user is in Alt+Up/Down navigation
	altNavMode   inputMode  // mode before Alt navigation
	altNav       inputState // input before Alt navigation

	saved    [2]inputState // unsubmitted input of each mode
	mode     inputMode
	width    int // terminal width for ellipsization
	quitting bool
}

// Run starts the REPL, executing statements with c. History is persisted
// in cacheDir unless it is empty.
func Run(
	ctx context.Context,
	c *lang.Compiler,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_compiler", c != nil),
	)

	if c == nil {
		return ErrNoCompiler
	}

	history := NewHistory(historyPath(cacheDir))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, c, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

// historyPath returns the history file in cacheDir, or the null device if
// there is no cache directory.
func historyPath(cacheDir string) string {
	if cacheDir == "" {
		return os.DevNull
	}

	return filepath.Join(cacheDir, baseHistory)
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	c *lang.Compiler,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		compiler:   c,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editVarsMsg:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("statements", len(msg.results)),
		)

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("✔ %d statement(s) executed", len(msg.results)),
		))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine returns the line shown below the input: the history position,
// a usage hint, the signature of the enclosing call, or completions.
func (m model) hintLine() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")

	case len(m.matches) > 0:
		return m.renderCandidateBar()

	case m.mode == modeEval:
		call := detectFunctionCall(input, m.input.Position())
		if !call.inCall {
			return ""
		}

		if sig, ok := getSignature(m.compiler.Funcs(), call.name); ok {
			return renderSignatureHint(sig, call)
		}
	}

	return ""
}

// setInput replaces the input line and recomputes completions.
func (m *model) setInput(s inputState) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
	refreshMatches(m, false)
}

// inputState returns the current text and cursor position.
func (m model) inputState() inputState {
	return inputState{text: m.input.Value(), cursor: m.input.Position()}
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	m.saved[m.mode] = m.inputState()
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.setInput(m.saved[mode])

	return m, nil
}
