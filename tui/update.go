package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arthur-debert/nanoref/search"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case searchMsg:
		m.state = msg.State
		m.results = msg.Results
		if msg.Err != nil {
			m.notice = msg.Err.Error()
		}
		if m.cursor >= len(m.results) {
			m.cursor = len(m.results) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, m.waitForUpdate()

	case refsMsg:
		m.refs = msg
		return m, nil

	case catalogMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			m.mode = modeBrowse
			return m, nil
		}
		if len(msg.fields) == 0 {
			// Nothing resolves or nothing is referenced yet
			m.notice = "nothing to sort"
			m.mode = modeBrowse
			return m, nil
		}
		m.sortFields = msg.fields
		m.sortCursor = 0
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		return m, m.loadRefs()

	case RehydrateMsg:
		m.editor.Hydrate(msg.Refs)
		m.mode = modeBrowse
		return m, m.loadRefs()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case modeSort:
		return m.handleSortKey(msg)
	case modeConfirmClear:
		return m.handleConfirmKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Peel back one layer per press: notice, then search, then quit
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.editor.Search().ClearText()
			m.cursor = 0
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
		return m, nil

	case tea.KeyEnter:
		if len(m.results) == 0 {
			return m, nil
		}
		return m, m.addOne(m.results[m.cursor].ID)

	case tea.KeyCtrlA:
		if len(m.results) == 0 {
			return m, nil
		}
		cmd := m.addAll()
		m.input.SetValue("")
		m.cursor = 0
		return m, cmd

	case tea.KeyCtrlS:
		m.mode = modeSort
		m.sortFields = nil
		return m, m.loadCatalog()

	case tea.KeyCtrlX:
		if m.editor.Len() == 0 {
			return m, nil
		}
		m.editor.ArmRemoval()
		m.mode = modeConfirmClear
		return m, nil
	}

	// Everything else edits the query
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.editor.Search().SetText(m.input.Value())
	m.cursor = 0
	return m, cmd
}

func (m *Model) handleSortKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		return m, nil

	case tea.KeyUp:
		if m.sortCursor > 0 {
			m.sortCursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.sortCursor < len(m.sortFields)-1 {
			m.sortCursor++
		}
		return m, nil

	case tea.KeyEnter:
		if len(m.sortFields) == 0 {
			return m, nil
		}
		field := m.sortFields[m.sortCursor]
		m.mode = modeBrowse
		return m, m.applySort(field)
	}
	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		return m, m.clearAll()
	case "n", "N", "esc":
		m.editor.DisarmRemoval()
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

// searching reports whether a query is pending or in flight
func (m *Model) searching() bool {
	return m.state == search.StateDebouncing || m.state == search.StateQuerying
}
