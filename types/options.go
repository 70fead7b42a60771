package types

import (
	"fmt"
	"strings"
	"time"
)

// FieldSchema declares a reference field in the host schema: which
// document kinds it may point at and whether its references are weak
type FieldSchema struct {
	// Name identifies the field on the owning document
	Name string `json:"name" yaml:"name"`

	// Kinds lists the document kinds the field accepts. Empty means
	// any kind.
	Kinds []string `json:"kinds,omitempty" yaml:"kinds,omitempty"`

	// Weak disables integrity enforcement for references in this field
	Weak bool `json:"weak,omitempty" yaml:"weak,omitempty"`
}

// Validate checks the schema declaration for consistency
func (fs FieldSchema) Validate() error {
	if strings.TrimSpace(fs.Name) == "" {
		return fmt.Errorf("field schema requires a name")
	}
	if strings.HasPrefix(fs.Name, ReservedFieldPrefix) {
		return fmt.Errorf("field name %q uses the reserved prefix %q", fs.Name, ReservedFieldPrefix)
	}
	seen := make(map[string]bool, len(fs.Kinds))
	for _, kind := range fs.Kinds {
		if kind == "" {
			return fmt.Errorf("field %s: kinds cannot be empty", fs.Name)
		}
		if seen[kind] {
			return fmt.Errorf("field %s: duplicate kind '%s'", fs.Name, kind)
		}
		seen[kind] = true
	}
	return nil
}

// Options configures editing behavior for a reference field. The zero
// value is not usable; start from DefaultOptions.
type Options struct {
	// SearchFields names the document fields matched during search
	SearchFields []string `json:"search_fields" yaml:"search_fields"`

	// Limit caps the number of search results per query
	Limit int `json:"limit" yaml:"limit"`

	// DebounceInterval is how long input must be quiet before a
	// search query is dispatched
	DebounceInterval time.Duration `json:"debounce_interval" yaml:"debounce_interval"`

	// HideAdded filters documents already referenced out of search
	// results
	HideAdded bool `json:"hide_added" yaml:"hide_added"`

	// AllowAddOne enables adding a single selected result
	AllowAddOne bool `json:"allow_add_one" yaml:"allow_add_one"`

	// AllowAddAll enables adding every current result in one step
	AllowAddAll bool `json:"allow_add_all" yaml:"allow_add_all"`

	// SortFields restricts the sortable field catalog. Nil derives
	// the catalog from the referenced documents at runtime.
	SortFields []string `json:"sort_fields,omitempty" yaml:"sort_fields,omitempty"`

	// CaseSensitive makes search matching case sensitive
	CaseSensitive bool `json:"case_sensitive" yaml:"case_sensitive"`
}

// DefaultOptions returns the standard editing configuration: search
// over the title field, 50 results, 300ms debounce, already-referenced
// documents hidden, both add paths enabled.
func DefaultOptions() Options {
	return Options{
		SearchFields:     []string{FieldTitle},
		Limit:            50,
		DebounceInterval: 300 * time.Millisecond,
		HideAdded:        true,
		AllowAddOne:      true,
		AllowAddAll:      true,
	}
}

// Validate checks the options for consistency
func (o Options) Validate() error {
	if len(o.SearchFields) == 0 {
		return fmt.Errorf("at least one search field must be configured")
	}
	seen := make(map[string]bool, len(o.SearchFields))
	for _, field := range o.SearchFields {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("search fields cannot be empty")
		}
		if seen[field] {
			return fmt.Errorf("duplicate search field: %s", field)
		}
		seen[field] = true
	}
	if o.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", o.Limit)
	}
	if o.DebounceInterval < 0 {
		return fmt.Errorf("debounce interval cannot be negative, got %v", o.DebounceInterval)
	}
	for _, field := range o.SortFields {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("sort fields cannot be empty")
		}
		if strings.HasPrefix(field, ReservedFieldPrefix) {
			return fmt.Errorf("sort field %q uses the reserved prefix %q", field, ReservedFieldPrefix)
		}
	}
	return nil
}
