package search

import (
	"context"

	"github.com/arthur-debert/nanoref/types"
)

// Request describes one bounded query against the host store
type Request struct {
	// Kinds restricts matching to these document kinds. Empty means
	// any kind.
	Kinds []string

	// Prefix is the text to match at the start of the named fields
	Prefix string

	// Fields specifies which document fields to match against
	Fields []string

	// CaseSensitive controls whether matching is case-sensitive
	CaseSensitive bool

	// Limit caps the number of documents returned. Values <= 0 mean
	// no limit.
	Limit int
}

// Result is a single search hit shaped for display
type Result struct {
	// ID identifies the matched document in the host store
	ID string

	// Title is the primary display text
	Title string

	// Fields carries the remaining document values for rendering
	Fields map[string]interface{}
}

// Provider is the host store's query primitive. Implementations run
// the prefix match described by the request and honor context
// cancellation; result order is up to the host.
type Provider interface {
	Query(ctx context.Context, req Request) ([]types.Document, error)
}

// ProviderFunc adapts a plain function to the Provider interface
type ProviderFunc func(ctx context.Context, req Request) ([]types.Document, error)

// Query implements Provider by calling the function
func (f ProviderFunc) Query(ctx context.Context, req Request) ([]types.Document, error) {
	return f(ctx, req)
}

// Membership answers whether a document is already referenced. The
// controller consults it when results arrive, so answers reflect the
// live state rather than the state when the query was dispatched.
type Membership interface {
	Contains(id string) bool
}

// State identifies where the search session currently is
type State int

const (
	// StateIdle means no query is pending and no results are shown
	StateIdle State = iota
	// StateDebouncing means input changed and the quiet period is running
	StateDebouncing
	// StateQuerying means a query is in flight
	StateQuerying
	// StateResolved means results for the latest query are displayed
	StateResolved
	// StateFailed means the latest query failed recoverably
	StateFailed
)

// String returns the string representation of the State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateQuerying:
		return "querying"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Update is a complete snapshot of the search session, delivered to
// the notification handler after every transition
type Update struct {
	// State is the session state after the transition
	State State

	// Query is the input text the snapshot belongs to
	Query string

	// Results are the displayed results, already filtered
	Results []Result

	// Err is the failure when State is StateFailed, nil otherwise
	Err error
}
