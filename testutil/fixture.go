// Package testutil provides the shared test fixture: a document store
// seeded with a small catalog of products and people, shaped so search,
// sorting and editing scenarios all have the data they need.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/nanoref/docstore"
)

// Catalog provides typed access to the fixture documents
type Catalog struct {
	// Products. Prices are arranged so a price sort exercises the
	// missing-value rule: WidgetGamma has no price at all.
	WidgetAlpha docstore.Doc // ID "p1", price 30, stock 12
	WidgetBeta  docstore.Doc // ID "p2", price 10, stock 3
	WidgetGamma docstore.Doc // ID "p3", no price, stock 7
	GadgetDelta docstore.Doc // ID "p4", price 25, stock 1

	// People, for kind-restriction scenarios. Wilma shares the "wi"
	// prefix with the widgets.
	Wilma docstore.Doc // ID "a1"
	Amara docstore.Doc // ID "a2"

	// ByID maps every fixture document by its id
	ByID map[string]docstore.Doc
}

// Clock returns a deterministic clock advancing by step per call
func Clock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

// LoadCatalog creates a store in a temp directory and seeds it with
// the catalog. Creation timestamps advance deterministically in seed
// order, so list and search results have a stable order.
func LoadCatalog(t *testing.T) (*docstore.Store, *Catalog) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.json")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store, err := docstore.New(path, docstore.WithTimeFunc(Clock(base, time.Second)))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	seeds := []docstore.Doc{
		{UUID: "p1", Kind: "product", Title: "Widget Alpha", Fields: map[string]interface{}{"price": 30, "stock": 12}},
		{UUID: "p2", Kind: "product", Title: "Widget Beta", Fields: map[string]interface{}{"price": 10, "stock": 3}},
		{UUID: "p3", Kind: "product", Title: "Widget Gamma", Fields: map[string]interface{}{"stock": 7}},
		{UUID: "p4", Kind: "product", Title: "Gadget Delta", Fields: map[string]interface{}{"price": 25, "stock": 1}},
		{UUID: "a1", Kind: "person", Title: "Wilma", Fields: map[string]interface{}{"team": "sales"}},
		{UUID: "a2", Kind: "person", Title: "Amara", Fields: map[string]interface{}{"team": "support"}},
	}
	for _, doc := range seeds {
		if _, err := store.Put(doc); err != nil {
			t.Fatalf("failed to seed %q: %v", doc.Title, err)
		}
	}

	catalog := &Catalog{ByID: make(map[string]docstore.Doc)}
	for _, id := range []string{"p1", "p2", "p3", "p4", "a1", "a2"} {
		doc, err := store.Get(id)
		if err != nil {
			t.Fatalf("failed to read back %s: %v", id, err)
		}
		catalog.ByID[id] = doc
	}
	catalog.WidgetAlpha = catalog.ByID["p1"]
	catalog.WidgetBeta = catalog.ByID["p2"]
	catalog.WidgetGamma = catalog.ByID["p3"]
	catalog.GadgetDelta = catalog.ByID["p4"]
	catalog.Wilma = catalog.ByID["a1"]
	catalog.Amara = catalog.ByID["a2"]

	return store, catalog
}
