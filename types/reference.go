package types

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// keyAlphabet is the alphabet used for reference keys. Keys are only
// required to be unique within a single field value, so 12 characters
// leave a comfortable margin.
const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const keyLength = 12

// NewKey generates a fresh reference key
func NewKey() string {
	key, _ := gonanoid.Generate(keyAlphabet, keyLength)
	return key
}

// Reference is a single entry in a reference field: a pointer to a
// document in the host store plus the stable key the embedding form
// uses to track the entry across reorders
type Reference struct {
	// ID is the identifier of the referenced document
	ID string `json:"id" yaml:"id"`

	// Key is a stable per-entry identifier assigned when the reference
	// is created and never recomputed
	Key string `json:"key" yaml:"key"`

	// Weak marks references that do not enforce integrity: the
	// referenced document may be deleted without cascading here
	Weak bool `json:"weak,omitempty" yaml:"weak,omitempty"`
}

// ReferenceSet is an ordered collection of references with no duplicate
// IDs. It is a value type: every operation returns a new set backed by
// fresh storage, leaving the receiver untouched.
type ReferenceSet struct {
	refs []Reference
	weak bool
}

// NewReferenceSet returns an empty set. New entries added to it carry
// the given weak flag.
func NewReferenceSet(weak bool) ReferenceSet {
	return ReferenceSet{weak: weak}
}

// HydrateReferenceSet builds a set from stored field data, normalizing
// as it goes: duplicate IDs keep their first occurrence, and entries
// with empty keys get fresh ones. Hydration never fails; malformed
// stored data degrades to a valid set.
func HydrateReferenceSet(refs []Reference, weak bool) ReferenceSet {
	set := ReferenceSet{weak: weak}
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ref.ID == "" || seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		if ref.Key == "" {
			ref.Key = NewKey()
		}
		set.refs = append(set.refs, ref)
	}
	return set
}

// Len returns the number of references in the set
func (s ReferenceSet) Len() int {
	return len(s.refs)
}

// IsEmpty reports whether the set contains no references
func (s ReferenceSet) IsEmpty() bool {
	return len(s.refs) == 0
}

// Contains reports whether the set holds a reference to the given ID
func (s ReferenceSet) Contains(id string) bool {
	for _, ref := range s.refs {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// Refs returns the references in order. The returned slice is a copy.
func (s ReferenceSet) Refs() []Reference {
	out := make([]Reference, len(s.refs))
	copy(out, s.refs)
	return out
}

// IDs returns the referenced document IDs in order
func (s ReferenceSet) IDs() []string {
	out := make([]string, len(s.refs))
	for i, ref := range s.refs {
		out[i] = ref.ID
	}
	return out
}

// WithAdded returns a set with references to the given IDs appended in
// the order given. IDs already present (or repeated in the arguments)
// are skipped, so adding an existing ID is a no-op. Existing entries
// keep their positions and keys.
func (s ReferenceSet) WithAdded(ids ...string) ReferenceSet {
	out := ReferenceSet{weak: s.weak, refs: make([]Reference, len(s.refs), len(s.refs)+len(ids))}
	copy(out.refs, s.refs)
	seen := make(map[string]bool, len(s.refs)+len(ids))
	for _, ref := range s.refs {
		seen[ref.ID] = true
	}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out.refs = append(out.refs, Reference{ID: id, Key: NewKey(), Weak: s.weak})
	}
	return out
}

// Cleared returns an empty set that keeps the receiver's weak flag
func (s ReferenceSet) Cleared() ReferenceSet {
	return ReferenceSet{weak: s.weak}
}

// Reordered returns a set with the same references permuted to follow
// idOrder. IDs in idOrder that are not in the set are skipped.
// References absent from idOrder are dropped, so callers that must not
// lose entries are responsible for passing a complete order.
func (s ReferenceSet) Reordered(idOrder []string) ReferenceSet {
	byID := make(map[string]Reference, len(s.refs))
	for _, ref := range s.refs {
		byID[ref.ID] = ref
	}
	out := ReferenceSet{weak: s.weak}
	used := make(map[string]bool, len(idOrder))
	for _, id := range idOrder {
		ref, ok := byID[id]
		if !ok || used[id] {
			continue
		}
		used[id] = true
		out.refs = append(out.refs, ref)
	}
	return out
}

// Validate checks the no-duplicates invariant, returning an
// InvariantError naming the first offending ID. Sets built through the
// exported constructors and operations always pass.
func (s ReferenceSet) Validate() error {
	seen := make(map[string]bool, len(s.refs))
	for _, ref := range s.refs {
		if seen[ref.ID] {
			return &InvariantError{ID: ref.ID}
		}
		seen[ref.ID] = true
	}
	return nil
}
