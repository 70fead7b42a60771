package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoref/search"
	"github.com/arthur-debert/nanoref/types"
)

// Query implements search.Provider: a prefix match over the requested
// fields, restricted to the requested kinds, bounded by the limit.
// Results order by creation time for stable presentation.
func (s *Store) Query(ctx context.Context, req search.Request) ([]types.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := req.Prefix
	if !req.CaseSensitive {
		prefix = strings.ToLower(prefix)
	}
	fields := req.Fields
	if len(fields) == 0 {
		fields = []string{types.FieldTitle}
	}

	var matched []Doc
	err := s.locks.execute(readOperation, func() error {
		for _, doc := range s.data.Documents {
			if len(req.Kinds) > 0 && !containsString(req.Kinds, doc.Kind) {
				continue
			}
			if matchesPrefix(doc, fields, prefix, req.CaseSensitive) {
				matched = append(matched, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortDocs(matched)
	if req.Limit > 0 && len(matched) > req.Limit {
		matched = matched[:req.Limit]
	}

	out := make([]types.Document, len(matched))
	for i, doc := range matched {
		out[i] = projectDoc(doc)
	}
	return out, nil
}

// Expand implements sorting.Expander: ids that do not resolve are
// omitted from the result
func (s *Store) Expand(ctx context.Context, ids []string) ([]types.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []types.Document
	err := s.locks.execute(readOperation, func() error {
		byID := make(map[string]Doc, len(s.data.Documents))
		for _, doc := range s.data.Documents {
			byID[doc.UUID] = doc
		}
		for _, id := range ids {
			if doc, ok := byID[id]; ok {
				out = append(out, projectDoc(doc))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// matchesPrefix reports whether any of the named fields starts with
// the prefix
func matchesPrefix(doc Doc, fields []string, prefix string, caseSensitive bool) bool {
	for _, field := range fields {
		value := fieldString(doc, field)
		if value == "" {
			continue
		}
		if !caseSensitive {
			value = strings.ToLower(value)
		}
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// fieldString renders a document field for matching
func fieldString(doc Doc, field string) string {
	if field == types.FieldTitle {
		return doc.Title
	}
	value, ok := doc.Fields[field]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

// projectDoc shapes a stored document into the view the editing core
// consumes
func projectDoc(doc Doc) types.Document {
	return types.Document{
		ID:     doc.UUID,
		Kind:   doc.Kind,
		Title:  doc.Title,
		Fields: doc.Fields,
	}
}
