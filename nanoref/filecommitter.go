package nanoref

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"context"

	"github.com/arthur-debert/nanoref/types"
)

// FileCommitter persists a reference field as a standalone JSON file,
// for hosts without a document store of their own. Writes are atomic
// via a temp file and rename. The demo CLI keeps one sidecar file per
// edited field.
type FileCommitter struct {
	path  string
	field string
}

// fieldFile is the JSON structure a FileCommitter reads and writes
type fieldFile struct {
	Field      string            `json:"field"`
	References []types.Reference `json:"references"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewFileCommitter creates a committer persisting the named field at
// the given path
func NewFileCommitter(path, field string) *FileCommitter {
	return &FileCommitter{path: path, field: field}
}

// Path returns the file the committer writes
func (fc *FileCommitter) Path() string {
	return fc.path
}

// SetValue implements Committer.SetValue
func (fc *FileCommitter) SetValue(ctx context.Context, refs []types.Reference) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := fieldFile{
		Field:      fc.field,
		References: refs,
		UpdatedAt:  time.Now(),
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal references: %w", err)
	}

	tmpFile := fc.path + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, fc.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Unset implements Committer.Unset by removing the file. A missing
// file already counts as unset.
func (fc *FileCommitter) Unset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(fc.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// LoadFieldFile reads a reference field file written by a
// FileCommitter. A missing file yields no references, matching the
// unset state.
func LoadFieldFile(path string) ([]types.Reference, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var payload fieldFile
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return payload.References, nil
}
