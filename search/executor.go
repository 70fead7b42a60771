package search

import (
	"strings"

	"context"

	"github.com/arthur-debert/nanoref/types"
)

// Executor shapes input text into bounded prefix queries against a
// Provider and types the failures. It is stateless; the Controller
// layers debouncing and lifetime tracking on top.
type Executor struct {
	provider Provider
	schema   types.FieldSchema
	opts     types.Options
}

// NewExecutor creates an executor for one reference field
func NewExecutor(provider Provider, schema types.FieldSchema, opts types.Options) *Executor {
	return &Executor{
		provider: provider,
		schema:   schema,
		opts:     opts,
	}
}

// Options returns the editing configuration the executor was built with
func (e *Executor) Options() types.Options {
	return e.opts
}

// Search runs one query for the given text. Empty or whitespace-only
// text short-circuits to no results without touching the provider.
// Provider failures come back as a *types.QueryError so callers can
// treat them as recoverable.
func (e *Executor) Search(ctx context.Context, text string) ([]Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	req := Request{
		Kinds:         e.schema.Kinds,
		Prefix:        trimmed,
		Fields:        e.opts.SearchFields,
		CaseSensitive: e.opts.CaseSensitive,
		Limit:         e.opts.Limit,
	}

	docs, err := e.provider.Query(ctx, req)
	if err != nil {
		return nil, &types.QueryError{Query: trimmed, WrappedError: err}
	}

	// Enforce the bound even when the provider ignores it
	if e.opts.Limit > 0 && len(docs) > e.opts.Limit {
		docs = docs[:e.opts.Limit]
	}

	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		results = append(results, Result{
			ID:     doc.ID,
			Title:  doc.Title,
			Fields: doc.Fields,
		})
	}
	return results, nil
}
