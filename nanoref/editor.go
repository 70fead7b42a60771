package nanoref

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/arthur-debert/nanoref/search"
	"github.com/arthur-debert/nanoref/sorting"
	"github.com/arthur-debert/nanoref/types"
)

// Committer persists the reference field on the owning document. The
// editor calls it under its mutation lock, so at most one commit is in
// flight at a time and commits land in trigger order.
//
// Implementations must not call back into the editor.
type Committer interface {
	// SetValue replaces the field with the given references
	SetValue(ctx context.Context, refs []types.Reference) error

	// Unset removes the field from the owning document entirely
	Unset(ctx context.Context) error
}

// SortState describes the last sort applied through the editor. It is
// presentation metadata only; whether the set is actually in order is
// always derived from current data.
type SortState struct {
	// Field the references were ordered by
	Field string

	// Ascending reports the direction that was applied
	Ascending bool
}

// Config assembles an Editor: the field being edited, the host store
// primitives, and the persistence callback
type Config struct {
	// Schema declares the reference field
	Schema types.FieldSchema

	// Options tunes editing behavior. Nil means DefaultOptions.
	Options *types.Options

	// Provider runs search queries against the host store
	Provider search.Provider

	// Expander resolves reference ids to documents for sorting
	Expander sorting.Expander

	// Committer persists the field value
	Committer Committer

	// Notify receives a snapshot after every search transition. Nil
	// means the embedder polls the search session instead.
	Notify func(search.Update)

	// Initial seeds the editor with the field's current references
	Initial []types.Reference

	// Collation selects the language for string ordering during
	// sorts. The zero value is language-neutral.
	Collation language.Tag
}

// Editor manages one reference collection field: an ordered,
// duplicate-free list of references to other documents. It owns the
// search session used to find documents, the add paths feeding the
// list, the gated clear, and sorting derived from the referenced
// documents themselves.
//
// All methods are safe for concurrent use. Mutations serialize through
// an internal lock, which also serializes commits to the host.
type Editor struct {
	schema    types.FieldSchema
	opts      types.Options
	committer Committer
	analyzer  *sorting.Analyzer
	session   *search.Controller

	locks *lockManager

	set       types.ReferenceSet
	armed     bool
	sortState *SortState
	closed    bool
}

// New creates an editor for one reference field
func New(cfg Config) (*Editor, error) {
	if err := cfg.Schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid field schema: %w", err)
	}

	opts := types.DefaultOptions()
	if cfg.Options != nil {
		opts = *cfg.Options
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if cfg.Provider == nil {
		return nil, fmt.Errorf("a search provider is required")
	}
	if cfg.Expander == nil {
		return nil, fmt.Errorf("a reference expander is required")
	}
	if cfg.Committer == nil {
		return nil, fmt.Errorf("a committer is required")
	}

	editor := &Editor{
		schema:    cfg.Schema,
		opts:      opts,
		committer: cfg.Committer,
		analyzer:  sorting.NewAnalyzerWithTag(cfg.Expander, cfg.Collation),
		locks:     newLockManager(),
		set:       types.HydrateReferenceSet(cfg.Initial, cfg.Schema.Weak),
	}

	executor := search.NewExecutor(cfg.Provider, cfg.Schema, opts)
	editor.session = search.NewController(executor, editor, cfg.Notify)
	return editor, nil
}

// Search returns the search session for this field. Input widgets
// forward text edits to it; results flow back through the Notify
// handler or the session getters.
func (e *Editor) Search() *search.Controller {
	return e.session
}

// Schema returns the field declaration the editor was built for
func (e *Editor) Schema() types.FieldSchema {
	return e.schema
}

// Options returns the editing configuration in effect
func (e *Editor) Options() types.Options {
	return e.opts
}

// Contains reports whether the field currently references the
// document. It implements search.Membership, so results arriving from
// a query reflect the reference list at arrival time.
func (e *Editor) Contains(id string) bool {
	found := false
	_ = e.locks.execute(readOperation, func() error {
		found = e.set.Contains(id)
		return nil
	})
	return found
}

// Current returns the reference set as it stands
func (e *Editor) Current() types.ReferenceSet {
	var set types.ReferenceSet
	_ = e.locks.execute(readOperation, func() error {
		set = e.set
		return nil
	})
	return set
}

// Refs returns the current references in order
func (e *Editor) Refs() []types.Reference {
	var refs []types.Reference
	_ = e.locks.execute(readOperation, func() error {
		refs = e.set.Refs()
		return nil
	})
	return refs
}

// IDs returns the current referenced document ids in order
func (e *Editor) IDs() []string {
	var ids []string
	_ = e.locks.execute(readOperation, func() error {
		ids = e.set.IDs()
		return nil
	})
	return ids
}

// Len returns the number of references in the field
func (e *Editor) Len() int {
	n := 0
	_ = e.locks.execute(readOperation, func() error {
		n = e.set.Len()
		return nil
	})
	return n
}

// AddOne appends a reference to the document with the given id. Adding
// a document already referenced is a no-op, not an error, and commits
// nothing. On success the new list is committed before the editor
// state changes; a failed commit leaves the list as it was.
func (e *Editor) AddOne(ctx context.Context, id string) error {
	added := false
	err := e.locks.execute(writeOperation, func() error {
		if e.closed {
			return types.ErrEditorClosed
		}
		if !e.opts.AllowAddOne {
			return types.ErrAddDisabled
		}
		if strings.TrimSpace(id) == "" || e.set.Contains(id) {
			e.armed = false
			return nil
		}

		next := e.set.WithAdded(id)
		if err := e.committer.SetValue(ctx, next.Refs()); err != nil {
			return fmt.Errorf("failed to commit reference: %w", err)
		}
		e.set = next
		e.afterMutationLocked()
		added = true
		return nil
	})
	if err != nil {
		return err
	}

	// The session lock is taken only after the editor lock is
	// released; the session calls Contains while resolving queries
	if added && e.opts.HideAdded {
		e.session.DropResult(id)
	}
	return nil
}

// AddAll appends every result the search session currently shows, in
// display order, as a single commit. Results already referenced are
// skipped. The search resets afterwards, concluding the interaction.
func (e *Editor) AddAll(ctx context.Context) error {
	results := e.session.Results()

	err := e.locks.execute(writeOperation, func() error {
		if e.closed {
			return types.ErrEditorClosed
		}
		if !e.opts.AllowAddAll {
			return types.ErrAddDisabled
		}
		if len(results) == 0 {
			e.armed = false
			return nil
		}

		ids := make([]string, len(results))
		for i, r := range results {
			ids[i] = r.ID
		}
		next := e.set.WithAdded(ids...)
		if next.Len() == e.set.Len() {
			// Every shown result was already referenced
			e.armed = false
			return nil
		}

		if err := e.committer.SetValue(ctx, next.Refs()); err != nil {
			return fmt.Errorf("failed to commit references: %w", err)
		}
		e.set = next
		e.afterMutationLocked()
		return nil
	})
	if err != nil {
		return err
	}

	e.session.ClearText()
	return nil
}

// ArmRemoval arms the gate RemoveAll requires. Arming expresses the
// first step of the two-step destructive clear; any other successful
// editor operation disarms it again.
func (e *Editor) ArmRemoval() {
	_ = e.locks.execute(writeOperation, func() error {
		if e.closed {
			return nil
		}
		e.armed = true
		return nil
	})
}

// DisarmRemoval dismisses a pending removal without clearing anything
func (e *Editor) DisarmRemoval() {
	_ = e.locks.execute(writeOperation, func() error {
		e.armed = false
		return nil
	})
}

// RemovalArmed reports whether RemoveAll would currently proceed
func (e *Editor) RemovalArmed() bool {
	armed := false
	_ = e.locks.execute(readOperation, func() error {
		armed = e.armed
		return nil
	})
	return armed
}

// RemoveAll clears the field by unsetting it on the owning document.
// It refuses with ErrRemovalNotArmed unless ArmRemoval was called
// first. A failed commit leaves the references and the armed gate in
// place, so the caller may retry.
func (e *Editor) RemoveAll(ctx context.Context) error {
	return e.locks.execute(writeOperation, func() error {
		if e.closed {
			return types.ErrEditorClosed
		}
		if !e.armed {
			return types.ErrRemovalNotArmed
		}

		if err := e.committer.Unset(ctx); err != nil {
			return fmt.Errorf("failed to clear references: %w", err)
		}
		e.set = e.set.Cleared()
		e.afterMutationLocked()
		return nil
	})
}

// ApplySort reorders the references by the given field and commits the
// new order. Direction alternates: if the references are already
// ascending by the field the sort applies descending, otherwise
// ascending. Documents missing the field and references that no longer
// resolve keep to the tail. When resolution fails the current order
// survives the attempt and no commit happens.
func (e *Editor) ApplySort(ctx context.Context, field string) error {
	return e.locks.execute(writeOperation, func() error {
		if e.closed {
			return types.ErrEditorClosed
		}
		if e.set.IsEmpty() {
			return nil
		}

		expansion, err := e.analyzer.ExpandSet(ctx, e.set)
		if err != nil {
			return err
		}
		if len(expansion.Docs) == 0 {
			// Nothing resolves, so no field values exist to order by
			return nil
		}

		ids, descending := e.analyzer.NextOrder(expansion.Docs, field)
		order := append(ids, expansion.Dangling...)

		next := e.set.Reordered(order)
		if sameOrder(next.IDs(), e.set.IDs()) {
			e.armed = false
			e.sortState = &SortState{Field: field, Ascending: !descending}
			return nil
		}

		if err := e.committer.SetValue(ctx, next.Refs()); err != nil {
			return fmt.Errorf("failed to commit order: %w", err)
		}
		e.set = next
		e.armed = false
		e.sortState = &SortState{Field: field, Ascending: !descending}
		return nil
	})
}

// SortCatalog returns the fields the references can be sorted by,
// derived from the referenced documents. An empty reference list (or
// one where nothing resolves) yields an empty catalog. Configured
// SortFields restrict the catalog without adding to it.
//
// Sorting paths take the mutation lock even though they read, because
// the collator backing string comparison keeps internal buffers.
func (e *Editor) SortCatalog(ctx context.Context) ([]string, error) {
	result, err := e.locks.executeWithResult(writeOperation, func() (interface{}, error) {
		if e.closed {
			return nil, types.ErrEditorClosed
		}
		if e.set.IsEmpty() {
			return []string(nil), nil
		}

		expansion, err := e.analyzer.ExpandSet(ctx, e.set)
		if err != nil {
			return nil, err
		}
		catalog := e.analyzer.Catalog(expansion.Docs)
		if len(e.opts.SortFields) > 0 {
			catalog = intersectFields(catalog, e.opts.SortFields)
		}
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// IsAscending reports whether the references are currently in
// ascending order by the field. The answer is derived from the
// documents every time; nothing caches it.
func (e *Editor) IsAscending(ctx context.Context, field string) (bool, error) {
	result, err := e.locks.executeWithResult(writeOperation, func() (interface{}, error) {
		if e.closed {
			return false, types.ErrEditorClosed
		}
		expansion, err := e.analyzer.ExpandSet(ctx, e.set)
		if err != nil {
			return false, err
		}
		return e.analyzer.IsAscending(expansion.Docs, field), nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// SortState returns the last sort applied through this editor, if any.
// Adds, clears and hydration reset it, since the recorded order no
// longer describes the list.
func (e *Editor) SortState() (SortState, bool) {
	var state SortState
	ok := false
	_ = e.locks.execute(readOperation, func() error {
		if e.sortState != nil {
			state = *e.sortState
			ok = true
		}
		return nil
	})
	return state, ok
}

// Hydrate replaces the editor's reference list with the field value as
// the host last persisted it, normalizing duplicates and blank entries
// away. Nothing is committed; this is for picking up external changes.
func (e *Editor) Hydrate(refs []types.Reference) {
	_ = e.locks.execute(writeOperation, func() error {
		if e.closed {
			return nil
		}
		e.set = types.HydrateReferenceSet(refs, e.schema.Weak)
		e.armed = false
		e.sortState = nil
		return nil
	})
}

// Close shuts the editor down. The search session stops, and further
// mutations fail with ErrEditorClosed. Close is idempotent.
func (e *Editor) Close() error {
	_ = e.locks.execute(writeOperation, func() error {
		e.closed = true
		return nil
	})
	e.session.Close()
	return nil
}

// afterMutationLocked applies the bookkeeping shared by successful
// mutations: the removal gate disarms and the recorded sort no longer
// describes the list
func (e *Editor) afterMutationLocked() {
	e.armed = false
	e.sortState = nil
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// intersectFields keeps the catalog entries the allow list names,
// preserving catalog order
func intersectFields(catalog, allowed []string) []string {
	keep := make(map[string]bool, len(allowed))
	for _, field := range allowed {
		keep[field] = true
	}
	var out []string
	for _, field := range catalog {
		if keep[field] {
			out = append(out, field)
		}
	}
	return out
}
