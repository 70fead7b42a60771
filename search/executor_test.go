package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/arthur-debert/nanoref/types"
)

func productSchema() types.FieldSchema {
	return types.FieldSchema{Name: "related", Kinds: []string{"product"}}
}

func TestExecutor_Search_EmptyText(t *testing.T) {
	provider := NewMockProvider(SampleDocuments())
	executor := NewExecutor(provider, productSchema(), types.DefaultOptions())

	for _, text := range []string{"", "   ", "\t\n"} {
		results, err := executor.Search(context.Background(), text)

		if err != nil {
			t.Errorf("Expected no error for %q, got %v", text, err)
		}
		if len(results) != 0 {
			t.Errorf("Expected 0 results for %q, got %d", text, len(results))
		}
	}
	if len(provider.Queries()) != 0 {
		t.Errorf("Expected provider untouched, saw %d queries", len(provider.Queries()))
	}
}

func TestExecutor_Search_RequestShape(t *testing.T) {
	provider := NewMockProvider(SampleDocuments())
	opts := types.DefaultOptions()
	opts.SearchFields = []string{"title", "sku"}
	opts.Limit = 10
	executor := NewExecutor(provider, productSchema(), opts)

	_, err := executor.Search(context.Background(), "  wid ")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	queries := provider.Queries()
	if len(queries) != 1 {
		t.Fatalf("Expected 1 query, got %d", len(queries))
	}
	req := queries[0]
	if req.Prefix != "wid" {
		t.Errorf("Expected trimmed prefix 'wid', got %q", req.Prefix)
	}
	if !reflect.DeepEqual(req.Kinds, []string{"product"}) {
		t.Errorf("Expected kinds [product], got %v", req.Kinds)
	}
	if !reflect.DeepEqual(req.Fields, []string{"title", "sku"}) {
		t.Errorf("Expected fields [title sku], got %v", req.Fields)
	}
	if req.Limit != 10 {
		t.Errorf("Expected limit 10, got %d", req.Limit)
	}
	if req.CaseSensitive {
		t.Error("Expected case-insensitive request")
	}
}

func TestExecutor_Search_ProviderError(t *testing.T) {
	provider := NewMockProvider(SampleDocuments())
	cause := errors.New("store unreachable")
	provider.SetError(cause)
	executor := NewExecutor(provider, productSchema(), types.DefaultOptions())

	_, err := executor.Search(context.Background(), "wid")

	if err == nil {
		t.Fatal("Expected error when provider fails")
	}
	var qErr *types.QueryError
	if !errors.As(err, &qErr) {
		t.Fatalf("Expected QueryError, got %T", err)
	}
	if qErr.Query != "wid" {
		t.Errorf("Expected query 'wid' in error, got %q", qErr.Query)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected wrapped cause to be reachable")
	}
}

func TestExecutor_Search_MapsDocuments(t *testing.T) {
	provider := NewMockProvider(SampleDocuments())
	executor := NewExecutor(provider, productSchema(), types.DefaultOptions())

	results, err := executor.Search(context.Background(), "wid")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}
	if results[0].ID != "p1" || results[0].Title != "Widget Alpha" {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
	if results[0].Fields["price"] != 30 {
		t.Errorf("Expected fields carried through, got %v", results[0].Fields)
	}
}

func TestExecutor_Search_EnforcesLimit(t *testing.T) {
	provider := NewMockProvider(SampleDocuments())
	opts := types.DefaultOptions()
	opts.Limit = 2
	executor := NewExecutor(provider, productSchema(), opts)

	results, err := executor.Search(context.Background(), "wid")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected limit of 2 enforced, got %d results", len(results))
	}
}

func TestExecutor_Search_ContextCancellation(t *testing.T) {
	provider := NewMockProvider(SampleDocuments())
	provider.Gate()
	executor := NewExecutor(provider, productSchema(), types.DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.Search(ctx, "wid")

	if err == nil {
		t.Fatal("Expected error from canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
}
