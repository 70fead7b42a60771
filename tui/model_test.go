package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arthur-debert/nanoref/nanoref"
	"github.com/arthur-debert/nanoref/search"
	"github.com/arthur-debert/nanoref/sorting"
	"github.com/arthur-debert/nanoref/testutil"
	"github.com/arthur-debert/nanoref/types"
)

// fixtureDocs is a small in-memory corpus for widget tests
var fixtureDocs = []types.Document{
	{ID: "p1", Kind: "product", Title: "Widget Alpha", Fields: map[string]interface{}{"price": 30}},
	{ID: "p2", Kind: "product", Title: "Widget Beta", Fields: map[string]interface{}{"price": 10}},
	{ID: "p3", Kind: "product", Title: "Widget Gamma", Fields: map[string]interface{}{"price": 20}},
}

func fixtureProvider() search.Provider {
	return search.ProviderFunc(func(ctx context.Context, req search.Request) ([]types.Document, error) {
		var out []types.Document
		for _, doc := range fixtureDocs {
			if strings.HasPrefix(strings.ToLower(doc.Title), strings.ToLower(req.Prefix)) {
				out = append(out, doc)
			}
		}
		return out, nil
	})
}

func fixtureExpander() sorting.Expander {
	return sorting.ExpanderFunc(func(ctx context.Context, ids []string) ([]types.Document, error) {
		var out []types.Document
		for _, id := range ids {
			for _, doc := range fixtureDocs {
				if doc.ID == id {
					out = append(out, doc)
				}
			}
		}
		return out, nil
	})
}

// newTestModel builds a widget over an editor wired to the in-memory
// fixture, with a short debounce so tests stay fast
func newTestModel(t *testing.T, initial ...types.Reference) (*Model, *testutil.RecordingCommitter) {
	t.Helper()

	committer := testutil.NewRecordingCommitter()
	opts := types.DefaultOptions()
	opts.DebounceInterval = time.Millisecond

	var m *Model
	editor, err := nanoref.New(nanoref.Config{
		Schema:    types.FieldSchema{Name: "related", Kinds: []string{"product"}},
		Options:   &opts,
		Provider:  fixtureProvider(),
		Expander:  fixtureExpander(),
		Committer: committer,
		Notify:    func(u search.Update) { m.Notify(u) },
		Initial:   initial,
	})
	if err != nil {
		t.Fatalf("failed to create editor: %v", err)
	}
	t.Cleanup(func() { _ = editor.Close() })

	m = New(editor, fixtureExpander())
	return m, committer
}

// drainUntil pumps search snapshots through the model until the
// session reaches the wanted state
func drainUntil(t *testing.T, m *Model, want search.State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u := <-m.updates:
			m.Update(searchMsg(u))
			if u.State == want {
				return
			}
		case <-deadline:
			t.Fatalf("session never reached state %v", want)
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTypingRunsSearch(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(keyRunes("w"))
	m.Update(keyRunes("i"))
	drainUntil(t, m, search.StateResolved)

	if len(m.results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(m.results))
	}
	view := m.View()
	if !strings.Contains(view, "Widget Alpha") {
		t.Errorf("view should list results, got:\n%s", view)
	}
}

func TestEnterAddsSelection(t *testing.T) {
	m, committer := newTestModel(t)

	m.Update(keyRunes("wi"))
	drainUntil(t, m, search.StateResolved)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a result should produce a command")
	}
	msg := cmd()
	done, ok := msg.(opDoneMsg)
	if !ok {
		t.Fatalf("expected opDoneMsg, got %T", msg)
	}
	if done.err != nil {
		t.Fatalf("add failed: %v", done.err)
	}

	ids := committer.LastCommitIDs()
	if len(ids) != 1 || ids[0] != "p2" {
		t.Errorf("expected commit of [p2], got %v", ids)
	}
}

func TestAddAllCommitsOnce(t *testing.T) {
	m, committer := newTestModel(t)

	m.Update(keyRunes("widget"))
	drainUntil(t, m, search.StateResolved)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if msg := cmd(); msg.(opDoneMsg).err != nil {
		t.Fatalf("add all failed: %v", msg.(opDoneMsg).err)
	}

	if committer.CommitCount() != 1 {
		t.Errorf("expected one commit, got %d", committer.CommitCount())
	}
	if got := committer.LastCommitIDs(); len(got) != 3 {
		t.Errorf("expected all 3 results committed, got %v", got)
	}
	if m.input.Value() != "" {
		t.Errorf("add all should clear the query, got %q", m.input.Value())
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	m, committer := newTestModel(t, types.Reference{ID: "p1"}, types.Reference{ID: "p2"})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if m.mode != modeConfirmClear {
		t.Fatal("ctrl+x should enter the confirmation mode")
	}
	if !m.editor.RemovalArmed() {
		t.Fatal("ctrl+x should arm the removal gate")
	}
	if !strings.Contains(m.View(), "remove all 2 references") {
		t.Errorf("confirmation prompt missing from view:\n%s", m.View())
	}

	// Declining keeps everything
	m.Update(keyRunes("n"))
	if m.mode != modeBrowse || m.editor.RemovalArmed() {
		t.Fatal("declining should disarm and return to browsing")
	}
	if m.editor.Len() != 2 {
		t.Fatalf("declining must not remove references, have %d", m.editor.Len())
	}

	// Confirming clears
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	_, cmd := m.Update(keyRunes("y"))
	if msg := cmd(); msg.(opDoneMsg).err != nil {
		t.Fatalf("clear failed: %v", msg.(opDoneMsg).err)
	}
	if m.editor.Len() != 0 {
		t.Errorf("expected empty reference list, have %d", m.editor.Len())
	}
	if committer.Unsets() != 1 {
		t.Errorf("expected one unset, got %d", committer.Unsets())
	}
}

func TestSortModeAppliesToggle(t *testing.T) {
	m, committer := newTestModel(t,
		types.Reference{ID: "p1"}, types.Reference{ID: "p2"}, types.Reference{ID: "p3"})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.mode != modeSort {
		t.Fatal("ctrl+s should enter sort mode")
	}

	// The catalog command resolves through the editor
	msg := m.loadCatalog()()
	m.Update(msg)
	if len(m.sortFields) == 0 {
		t.Fatalf("expected a field catalog, got none (%v)", msg)
	}

	// Select "price" and apply
	for m.sortFields[m.sortCursor] != "price" {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg := cmd(); msg.(opDoneMsg).err != nil {
		t.Fatalf("sort failed: %v", msg.(opDoneMsg).err)
	}
	if m.mode != modeBrowse {
		t.Error("applying a sort should return to browsing")
	}

	want := []string{"p2", "p3", "p1"}
	got := committer.LastCommitIDs()
	if len(got) != len(want) {
		t.Fatalf("expected commit %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ascending price order %v, got %v", want, got)
		}
	}
}

func TestSortModeDisablesOnEmptySet(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m.Update(m.loadCatalog()())

	if m.mode != modeBrowse {
		t.Error("empty catalog should leave sort mode")
	}
	if m.notice == "" {
		t.Error("expected a notice explaining why sorting is unavailable")
	}
}

func TestEscPeelsBackLayers(t *testing.T) {
	m, _ := newTestModel(t)

	m.notice = "search failed"
	m.input.SetValue("wi")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.notice != "" {
		t.Fatal("first esc should dismiss the notice")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.input.Value() != "" {
		t.Fatal("second esc should clear the query")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("third esc should quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected quit, got %v", msg)
	}
}

func TestRehydrateReplacesReferences(t *testing.T) {
	m, _ := newTestModel(t, types.Reference{ID: "p1"})

	m.Update(RehydrateMsg{Refs: []types.Reference{{ID: "p2"}, {ID: "p3"}}})

	ids := m.editor.IDs()
	if len(ids) != 2 || ids[0] != "p2" || ids[1] != "p3" {
		t.Errorf("expected hydrated ids [p2 p3], got %v", ids)
	}
}
