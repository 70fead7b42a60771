package search

import (
	"context"
	"sync"

	"github.com/arthur-debert/nanoref/types"
)

// MockProvider implements Provider for testing
type MockProvider struct {
	mu        sync.Mutex
	docs      []types.Document
	err       error
	queries   []Request
	gate      chan struct{}
	ignoreCtx bool
}

// NewMockProvider creates a new mock returning the given documents
func NewMockProvider(docs []types.Document) *MockProvider {
	return &MockProvider{docs: docs}
}

// SetError configures the mock to fail every query
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDocuments replaces the documents returned by later queries
func (m *MockProvider) SetDocuments(docs []types.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = docs
}

// Gate makes every query block until a value is sent on the returned
// channel (or the query context ends)
func (m *MockProvider) Gate() chan<- struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
	return m.gate
}

// IgnoreContext makes gated queries block through cancellation, so a
// superseded query can still come back with results
func (m *MockProvider) IgnoreContext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignoreCtx = true
}

// Queries returns every request the mock has seen, in order
func (m *MockProvider) Queries() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.queries))
	copy(out, m.queries)
	return out
}

// Query records the request and returns the scripted outcome
func (m *MockProvider) Query(ctx context.Context, req Request) ([]types.Document, error) {
	m.mu.Lock()
	m.queries = append(m.queries, req)
	gate := m.gate
	ignoreCtx := m.ignoreCtx
	err := m.err
	docs := make([]types.Document, len(m.docs))
	copy(docs, m.docs)
	m.mu.Unlock()

	if gate != nil {
		if ignoreCtx {
			<-gate
		} else {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// MockMembership implements Membership with a mutable ID set
type MockMembership struct {
	mu  sync.Mutex
	ids map[string]bool
}

// NewMockMembership creates a membership containing the given IDs
func NewMockMembership(ids ...string) *MockMembership {
	m := &MockMembership{ids: make(map[string]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

// Add marks an ID as referenced
func (m *MockMembership) Add(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[id] = true
}

// Contains implements Membership
func (m *MockMembership) Contains(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[id]
}

// SampleDocuments provides sample documents for testing
func SampleDocuments() []types.Document {
	return []types.Document{
		{
			ID:    "p1",
			Kind:  "product",
			Title: "Widget Alpha",
			Fields: map[string]interface{}{
				"price": 30,
				"stock": 12,
			},
		},
		{
			ID:    "p2",
			Kind:  "product",
			Title: "Widget Beta",
			Fields: map[string]interface{}{
				"price": 10,
				"stock": 3,
			},
		},
		{
			ID:    "p3",
			Kind:  "product",
			Title: "Widget Gamma",
			Fields: map[string]interface{}{
				"stock": 7,
			},
		},
		{
			ID:    "p4",
			Kind:  "product",
			Title: "Gadget Delta",
			Fields: map[string]interface{}{
				"price": 25,
				"stock": 1,
			},
		},
	}
}
