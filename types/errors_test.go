package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestQueryError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("failed to search: %w", &QueryError{Query: "wid", WrappedError: cause})

	var qErr *QueryError
	if !errors.As(err, &qErr) {
		t.Fatal("Expected errors.As to find QueryError")
	}
	if qErr.Query != "wid" {
		t.Errorf("Expected query wid, got %q", qErr.Query)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the wrapped cause")
	}
	if !strings.Contains(qErr.Error(), "wid") {
		t.Errorf("Expected message to name the query, got: %v", qErr)
	}
}

func TestResolutionError_Unwrap(t *testing.T) {
	cause := errors.New("not found")
	err := &ResolutionError{IDs: []string{"p1", "p2"}, WrappedError: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the wrapped cause")
	}
	if !strings.Contains(err.Error(), "p1, p2") {
		t.Errorf("Expected message to list the IDs, got: %v", err)
	}
}
