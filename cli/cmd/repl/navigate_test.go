package repl

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/log"
)

func historyModel(t *testing.T, entries ...HistoryEntry) model {
	t.Helper()

	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	for _, e := range entries {
		if _, err := h.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatalf("WriteWithMode(%q) error = %v", e.Line, err)
		}
	}

	return newModel(t.Context(), lang.New(), h, log.Logger{})
}

func TestHistoryStep(t *testing.T) {
	t.Parallel()

	m := historyModel(t,
		HistoryEntry{"1px + 1px", modeEval},
		HistoryEntry{"vars", modeCtrl},
		HistoryEntry{"$a: 2em", modeEval},
	)

	steps := []struct {
		step int
		line string
		mode inputMode
	}{
		{-1, "$a: 2em", modeEval},
		{-1, "vars", modeCtrl},
		{-1, "1px + 1px", modeEval},
		{-1, "1px + 1px", modeEval}, // stays on the oldest entry
		{1, "vars", modeCtrl},
		{1, "$a: 2em", modeEval},
		{1, "", modeEval}, // past the newest entry
	}

	for i, s := range steps {
		m, _ = m.historyStep(s.step, nil)

		if got := m.input.Value(); got != s.line {
			t.Errorf("step %d: input = %q, want %q", i, got, s.line)
		}

		if m.mode != s.mode {
			t.Errorf("step %d: mode = %d, want %d", i, m.mode, s.mode)
		}
	}
}

func TestHistoryStepInMode(t *testing.T) {
	t.Parallel()

	m := historyModel(t,
		HistoryEntry{"1px", modeEval},
		HistoryEntry{"help", modeCtrl},
		HistoryEntry{"2px", modeEval},
	)

	m, _ = m.historyStep(-1, m.inMode(modeEval))
	m, _ = m.historyStep(-1, m.inMode(modeEval))

	if got := m.input.Value(); got != "1px" {
		t.Errorf("input = %q, want %q", got, "1px")
	}

	if m.mode != modeEval {
		t.Errorf("mode = %d, want eval", m.mode)
	}
}

func TestHistoryCtrlRestores(t *testing.T) {
	t.Parallel()

	m := historyModel(t,
		HistoryEntry{"funcs", modeCtrl},
		HistoryEntry{"1px", modeEval},
	)

	m.input.SetValue("3px + ")
	m.input.SetCursor(6)

	m, _ = m.historyCtrl(-1)

	if m.mode != modeCtrl || m.input.Value() != "funcs" {
		t.Fatalf("got mode %d input %q, want command mode input %q", m.mode, m.input.Value(), "funcs")
	}

	m, _ = m.historyCtrl(-1) // no older command

	if m.mode != modeEval {
		t.Errorf("mode = %d, want eval restored", m.mode)
	}

	if got := m.input.Value(); got != "3px + " {
		t.Errorf("input = %q, want %q", got, "3px + ")
	}

	if m.altNavActive {
		t.Error("altNavActive = true after restore")
	}
}

func TestSwitchToModePreservesInput(t *testing.T) {
	t.Parallel()

	m := historyModel(t)

	m.input.SetValue("round(")
	m, _ = m.toggleMode()

	if m.input.Value() != "" {
		t.Errorf("command input = %q, want empty", m.input.Value())
	}

	m.input.SetValue("fu")
	m, _ = m.toggleMode()

	if got := m.input.Value(); got != "round(" {
		t.Errorf("eval input = %q, want %q", got, "round(")
	}

	m, _ = m.toggleMode()

	if got := m.input.Value(); got != "fu" {
		t.Errorf("command input = %q, want %q", got, "fu")
	}
}

func TestCycleBackward(t *testing.T) {
	t.Parallel()

	m := testModel(t, "$width: 1px", "$wide: 2px")

	m.input.SetValue("$wi")
	m.input.SetCursor(3)
	refreshMatches(&m, false)

	if len(m.matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(m.matches))
	}

	last := m.matches[len(m.matches)-1].Str

	m, _ = m.cycle(-1)

	if got := m.input.Value(); got != last {
		t.Errorf("input = %q, want last candidate %q", got, last)
	}

	m.tabActive = false
	m.setInput(m.preTab)

	if got := m.input.Value(); got != "$wi" {
		t.Errorf("restored input = %q, want %q", got, "$wi")
	}
}

func TestExecuteInput(t *testing.T) {
	t.Parallel()

	m := historyModel(t)

	m.input.SetValue("$gap: 4px")
	m, _ = m.executeInput()

	if v, ok := m.compiler.Var("gap"); !ok || v.String() != "4px" {
		t.Errorf("Var(gap) = %v, %t; want 4px", v, ok)
	}

	if m.history.Len() != 1 {
		t.Errorf("history length = %d, want 1", m.history.Len())
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}

	if out := m.listVars(); !strings.Contains(out, "$gap: 4px") {
		t.Errorf("listVars() = %q, want $gap entry", out)
	}
}

func TestExecuteCommandQuit(t *testing.T) {
	t.Parallel()

	m := historyModel(t)

	m, _ = m.switchToMode(modeCtrl)
	m.input.SetValue("quit")
	m, cmd := m.executeInput()

	if !m.quitting {
		t.Error("quitting = false after quit")
	}

	if cmd == nil {
		t.Error("quit returned nil command")
	}

	if e, err := m.history.GetEntry(0); err != nil || e.Mode != modeCtrl {
		t.Errorf("GetEntry(0) = %+v, %v; want command entry", e, err)
	}
}

func TestListFuncs(t *testing.T) {
	t.Parallel()

	m := historyModel(t)

	if out := m.listFuncs(""); !strings.Contains(out, "percentage") || !strings.Contains(out, "math.div") {
		t.Errorf("listFuncs(\"\") missing builtins:\n%s", out)
	}

	out := m.listFuncs("math.is-unitless")
	if first, _, _ := strings.Cut(out, "\n"); !strings.Contains(first, "unitless") {
		t.Errorf("listFuncs first line = %q, want unitless", first)
	}

	if out := m.listFuncs("zzzzqqq"); !strings.Contains(out, "no functions match") {
		t.Errorf("listFuncs(no match) = %q", out)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	m := historyModel(t)

	_, err := m.compiler.Exec("$missing + 1")
	if err == nil {
		t.Fatal("Exec() error = nil, want error")
	}

	if got := formatError(err); !strings.HasPrefix(got, "error") || !strings.Contains(got, "$missing") {
		t.Errorf("formatError() = %q", got)
	}
}
