// Package nanoref provides an embeddable editing core for reference
// collection fields: document fields holding an ordered list of
// references to other documents.
//
// The package owns the editing semantics (debounced search over the
// host store, duplicate-free adds, a gated clear, sorting derived from
// the referenced documents) while the host application supplies the
// store primitives and persists the field through a Committer. The
// demo TUI and CLI under cmd/nanoref wire the core to the bundled
// docstore backend.
package nanoref

import (
	"github.com/arthur-debert/nanoref/search"
	"github.com/arthur-debert/nanoref/types"
)

// Reference is an alias for types.Reference
type Reference = types.Reference

// ReferenceSet is an alias for types.ReferenceSet
type ReferenceSet = types.ReferenceSet

// Document is an alias for types.Document
type Document = types.Document

// FieldSchema is an alias for types.FieldSchema
type FieldSchema = types.FieldSchema

// Options is an alias for types.Options
type Options = types.Options

// DefaultOptions returns the standard editing configuration
func DefaultOptions() Options {
	return types.DefaultOptions()
}

// Update is an alias for search.Update, the snapshot delivered after
// every search session transition
type Update = search.Update

// State is an alias for search.State
type State = search.State

// Search session states re-exported for embedders
const (
	StateIdle       = search.StateIdle
	StateDebouncing = search.StateDebouncing
	StateQuerying   = search.StateQuerying
	StateResolved   = search.StateResolved
	StateFailed     = search.StateFailed
)

// QueryError is an alias for types.QueryError, the recoverable
// failure a search query can end in
type QueryError = types.QueryError

// ResolutionError is an alias for types.ResolutionError, the failure
// a sort attempt ends in when references cannot be resolved
type ResolutionError = types.ResolutionError

// InvariantError is an alias for types.InvariantError
type InvariantError = types.InvariantError

// Error sentinels re-exported for embedders
var (
	// ErrRemovalNotArmed is returned by RemoveAll when the removal
	// gate was not armed first
	ErrRemovalNotArmed = types.ErrRemovalNotArmed

	// ErrAddDisabled is returned by the add operations when the
	// configuration disables them
	ErrAddDisabled = types.ErrAddDisabled

	// ErrEditorClosed is returned by operations on a closed editor
	ErrEditorClosed = types.ErrEditorClosed
)
