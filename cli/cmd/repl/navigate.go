package repl

import tea "github.com/charmbracelet/bubbletea"

// inMode returns a history filter accepting entries entered in mode.
func (m model) inMode(mode inputMode) func(HistoryEntry) bool {
	return func(e HistoryEntry) bool { return e.Mode == mode }
}

// seek moves from the current history position by step (-1 toward older
// entries, 1 toward newer) to the nearest entry accepted by keep, or any
// entry if keep is nil, and loads it into the input in its own mode. It
// reports whether such an entry exists.
func (m *model) seek(step int, keep func(HistoryEntry) bool) bool {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		e, err := m.history.GetEntry(i)
		if err != nil || (keep != nil && !keep(e)) {
			continue
		}

		m.historyIdx = i

		if m.mode != e.Mode {
			*m, _ = m.switchToMode(e.Mode)
		}

		m.setInput(inputState{text: e.Line, cursor: len(e.Line)})

		return true
	}

	return false
}

// historyStep navigates history with Up/Down (keep == nil) or, with a
// filter, Shift+Up/Shift+Down. Moving past the newest entry clears the input.
func (m model) historyStep(step int, keep func(HistoryEntry) bool) (model, tea.Cmd) {
	if m.seek(step, keep) || step < 0 {
		return m, nil
	}

	if m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput(inputState{})
	}

	return m, nil
}

// historyCtrl navigates command history with Alt+Up/Alt+Down, switching to
// command mode. Moving past either end restores the mode and input that
// were active when the navigation began.
func (m model) historyCtrl(step int) (model, tea.Cmd) {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavMode = m.mode
		m.altNav = m.inputState()

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	if m.seek(step, m.inMode(modeCtrl)) {
		return m, nil
	}

	m.altNavActive = false

	if m.mode != m.altNavMode {
		m, _ = m.switchToMode(m.altNavMode)
	}

	m.historyIdx = m.history.Len()
	m.setInput(m.altNav)

	return m, nil
}
