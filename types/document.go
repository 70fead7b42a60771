package types

// Document is the projected view of a referenced document as returned
// by the host store. Only the fields needed for display and sorting are
// carried; the store remains the source of truth.
type Document struct {
	// ID is the host store identifier the reference points at
	ID string `json:"id"`

	// Kind is the document type within the host schema
	Kind string `json:"kind"`

	// Title is the primary display field
	Title string `json:"title"`

	// Fields holds the remaining document values keyed by field name.
	// The field population is discovered at runtime, not declared up
	// front. Names beginning with "_" are reserved for internal use
	// and are excluded from sort catalogs.
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// Field returns the named field value. Title resolves through the
// dedicated field; anything else comes from the Fields map. The second
// return reports whether the document carries the field at all.
func (d Document) Field(name string) (interface{}, bool) {
	if name == FieldTitle {
		return d.Title, true
	}
	if d.Fields == nil {
		return nil, false
	}
	v, ok := d.Fields[name]
	return v, ok
}

// FieldTitle is the canonical name of the title field
const FieldTitle = "title"

// ReservedFieldPrefix marks internal field names excluded from
// user-facing catalogs
const ReservedFieldPrefix = "_"
