// Package sorting derives sort behavior from the documents a reference
// field points at: it expands references into documents, discovers
// which fields can be sorted on, and computes orderings with a
// comparator that tolerates mixed and missing values.
package sorting

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/arthur-debert/nanoref/types"
)

// Expander is the host store's dereference primitive. Implementations
// resolve ids to documents; ids that no longer resolve are simply
// omitted from the result, and result order carries no meaning.
type Expander interface {
	Expand(ctx context.Context, ids []string) ([]types.Document, error)
}

// ExpanderFunc adapts a plain function to the Expander interface
type ExpanderFunc func(ctx context.Context, ids []string) ([]types.Document, error)

// Expand implements Expander by calling the function
func (f ExpanderFunc) Expand(ctx context.Context, ids []string) ([]types.Document, error) {
	return f(ctx, ids)
}

// Expansion is a reference set resolved into documents. Docs follow
// the reference order; Dangling lists the ids whose documents did not
// resolve, in reference order.
type Expansion struct {
	Docs     []types.Document
	Dangling []string
}

// IDs returns the resolved document ids in reference order
func (e Expansion) IDs() []string {
	ids := make([]string, len(e.Docs))
	for i, doc := range e.Docs {
		ids[i] = doc.ID
	}
	return ids
}

// Analyzer expands reference sets and computes sort orderings. String
// values compare through a locale-aware collator, so an Analyzer is
// not safe for concurrent use; callers serialize access.
type Analyzer struct {
	expander Expander
	collator *collate.Collator
}

// NewAnalyzer creates an analyzer with locale-neutral string ordering
func NewAnalyzer(expander Expander) *Analyzer {
	return NewAnalyzerWithTag(expander, language.Und)
}

// NewAnalyzerWithTag creates an analyzer ordering strings for the
// given language
func NewAnalyzerWithTag(expander Expander, tag language.Tag) *Analyzer {
	return &Analyzer{
		expander: expander,
		collator: collate.New(tag),
	}
}

// ExpandSet resolves every reference in the set to its document. A
// failed expansion comes back as a *types.ResolutionError; callers
// treat sorting as unavailable for the attempt rather than fatal.
func (a *Analyzer) ExpandSet(ctx context.Context, set types.ReferenceSet) (Expansion, error) {
	ids := set.IDs()
	if len(ids) == 0 {
		return Expansion{}, nil
	}

	docs, err := a.expander.Expand(ctx, ids)
	if err != nil {
		return Expansion{}, &types.ResolutionError{IDs: ids, WrappedError: err}
	}

	byID := make(map[string]types.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	var expansion Expansion
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			expansion.Docs = append(expansion.Docs, doc)
		} else {
			expansion.Dangling = append(expansion.Dangling, id)
		}
	}
	return expansion, nil
}

// Catalog returns the sortable field names: the fields present on the
// first document plus the title field, reserved names excluded, sorted
// for stable presentation. An empty expansion yields an empty catalog
// and sort mode disables itself.
func (a *Analyzer) Catalog(docs []types.Document) []string {
	if len(docs) == 0 {
		return nil
	}
	fields := []string{types.FieldTitle}
	for name := range docs[0].Fields {
		if strings.HasPrefix(name, types.ReservedFieldPrefix) {
			continue
		}
		if name == types.FieldTitle {
			continue
		}
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// OrderedIDs returns the document ids ordered by the given field.
// Documents missing the field trail the rest under either direction;
// ties keep their current relative order.
func (a *Analyzer) OrderedIDs(docs []types.Document, field string, descending bool) []string {
	valued, missing := a.partition(docs, field)

	sort.SliceStable(valued, func(i, j int) bool {
		cmp := a.Compare(valued[i], valued[j], field)
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})

	ids := make([]string, 0, len(docs))
	for _, doc := range valued {
		ids = append(ids, doc.ID)
	}
	for _, doc := range missing {
		ids = append(ids, doc.ID)
	}
	return ids
}

// IsAscending reports whether the documents are already in ascending
// order for the field. Direction is always derived from current data;
// nothing caches it. Zero or one document is trivially ascending.
func (a *Analyzer) IsAscending(docs []types.Document, field string) bool {
	if len(docs) <= 1 {
		return true
	}
	ascending := a.OrderedIDs(docs, field, false)
	for i, doc := range docs {
		if doc.ID != ascending[i] {
			return false
		}
	}
	return true
}

// NextOrder computes the ordering a sort request should apply: the
// descending permutation when the documents are already ascending, the
// ascending permutation otherwise (including when not sorted at all).
// The second return reports whether the produced order is descending.
func (a *Analyzer) NextOrder(docs []types.Document, field string) ([]string, bool) {
	if a.IsAscending(docs, field) {
		return a.OrderedIDs(docs, field, true), true
	}
	return a.OrderedIDs(docs, field, false), false
}

// partition splits documents into those carrying the field and those
// missing it, preserving relative order in both halves
func (a *Analyzer) partition(docs []types.Document, field string) ([]types.Document, []types.Document) {
	var valued, missing []types.Document
	for _, doc := range docs {
		if classifyField(doc, field).kind == kindMissing {
			missing = append(missing, doc)
		} else {
			valued = append(valued, doc)
		}
	}
	return valued, missing
}
