// Package tui provides a terminal reference picker built on the
// editing core: a search box with live results, the current reference
// list, sort-field selection, and the gated clear. It talks to the
// host store only through the editor it is given.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arthur-debert/nanoref/nanoref"
	"github.com/arthur-debert/nanoref/search"
	"github.com/arthur-debert/nanoref/sorting"
)

// mode identifies which interaction the widget is in
type mode int

const (
	// modeBrowse is the default: typing searches, enter adds
	modeBrowse mode = iota
	// modeSort shows the sortable field catalog
	modeSort
	// modeConfirmClear awaits the second step of the clear gate
	modeConfirmClear
)

// opTimeout bounds the store round-trips a key press can trigger
const opTimeout = 5 * time.Second

// refRow is one line of the current-references pane
type refRow struct {
	ID    string
	Label string
}

// Model is the Bubble Tea model for editing one reference field
type Model struct {
	editor   *nanoref.Editor
	expander sorting.Expander
	updates  chan search.Update

	input      textinput.Model
	mode       mode
	state      search.State
	results    []search.Result
	cursor     int
	refs       []refRow
	sortFields []string
	sortCursor int
	notice     string
	width      int
	quitting   bool
}

// New creates the picker for an editor. The expander labels current
// references in the list pane; passing the same store the editor sorts
// through is typical. Wire the returned model's Notify method as the
// editor's search notification handler.
func New(editor *nanoref.Editor, expander sorting.Expander) *Model {
	input := textinput.New()
	input.Placeholder = "type to search"
	input.Prompt = "> "
	input.Focus()

	return &Model{
		editor:   editor,
		expander: expander,
		updates:  make(chan search.Update, 32),
		input:    input,
		state:    search.StateIdle,
	}
}

// Notify feeds a search session snapshot into the widget. Snapshots
// are complete, so when the widget falls behind, older ones give way
// to the newest rather than blocking the session.
func (m *Model) Notify(u search.Update) {
	for {
		select {
		case m.updates <- u:
			return
		default:
			select {
			case <-m.updates:
			default:
			}
		}
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate(), m.loadRefs())
}

// Messages

// searchMsg carries a search session snapshot into the update loop
type searchMsg search.Update

// refsMsg carries the refreshed current-references pane
type refsMsg []refRow

// catalogMsg carries the sortable field catalog, or the failure that
// kept sort mode closed
type catalogMsg struct {
	fields []string
	err    error
}

// opDoneMsg reports the outcome of a mutation triggered by a key press
type opDoneMsg struct {
	err error
}

// RehydrateMsg asks the widget to re-read the field value from the
// host, typically because a store watch reported an external change.
// Embedders deliver it through Program.Send.
type RehydrateMsg struct {
	Refs []nanoref.Reference
}

// Commands

// waitForUpdate blocks on the next search session snapshot
func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return searchMsg(<-m.updates)
	}
}

// loadRefs resolves the current references into labeled rows. IDs that
// no longer resolve keep their id as the label.
func (m *Model) loadRefs() tea.Cmd {
	ids := m.editor.IDs()
	expander := m.expander
	return func() tea.Msg {
		rows := make([]refRow, len(ids))
		for i, id := range ids {
			rows[i] = refRow{ID: id, Label: id}
		}
		if expander == nil || len(ids) == 0 {
			return refsMsg(rows)
		}

		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		docs, err := expander.Expand(ctx, ids)
		if err != nil {
			return refsMsg(rows)
		}
		titles := make(map[string]string, len(docs))
		for _, doc := range docs {
			titles[doc.ID] = doc.Title
		}
		for i, row := range rows {
			if title, ok := titles[row.ID]; ok && title != "" {
				rows[i].Label = title
			}
		}
		return refsMsg(rows)
	}
}

// loadCatalog fetches the sortable field catalog
func (m *Model) loadCatalog() tea.Cmd {
	editor := m.editor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		fields, err := editor.SortCatalog(ctx)
		return catalogMsg{fields: fields, err: err}
	}
}

// addOne commits the selected result
func (m *Model) addOne(id string) tea.Cmd {
	editor := m.editor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opDoneMsg{err: editor.AddOne(ctx, id)}
	}
}

// addAll commits every displayed result in one step
func (m *Model) addAll() tea.Cmd {
	editor := m.editor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opDoneMsg{err: editor.AddAll(ctx)}
	}
}

// clearAll commits the armed clear
func (m *Model) clearAll() tea.Cmd {
	editor := m.editor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opDoneMsg{err: editor.RemoveAll(ctx)}
	}
}

// applySort commits the toggled ordering for a field
func (m *Model) applySort(field string) tea.Cmd {
	editor := m.editor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opDoneMsg{err: editor.ApplySort(ctx, field)}
	}
}
