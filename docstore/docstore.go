// Package docstore provides a JSON file document store implementing
// the host-side primitives the reference editing core consumes: the
// query primitive for search and the dereference primitive for
// sorting. It backs the demo CLI and integration tests; embedding
// applications supply their own store.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/nanoref/internal/validation"
)

// ErrNotFound is returned when a document id does not resolve
var ErrNotFound = errors.New("document not found")

// Doc is a document as persisted in the store
type Doc struct {
	UUID      string                 `json:"uuid"`
	Kind      string                 `json:"kind"`
	Title     string                 `json:"title"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// storeData is the complete structure persisted to the backing file
type storeData struct {
	Documents []Doc    `json:"documents"`
	Metadata  metadata `json:"metadata"`
}

// metadata carries store-level bookkeeping
type metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a JSON file document store. In-process access serializes
// through a read/write lock manager; cross-process access serializes
// through a lock file next to the store file.
type Store struct {
	filePath    string
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock
	locks       *lockManager

	data *storeData

	// timeFunc and idFunc default to time.Now and random UUIDs; tests
	// override them for determinism
	timeFunc func() time.Time
	idFunc   func() string
}

// New opens the store at filePath, creating state in memory if the
// file does not exist yet. The file is written on the first mutation.
func New(filePath string, opts ...Option) (*Store, error) {
	store := &Store{
		filePath: filePath,
		locks:    newLockManager(),
		timeFunc: time.Now,
		idFunc:   func() string { return uuid.New().String() },
		data: &storeData{
			Documents: []Doc{},
			Metadata: metadata{
				Version:   "1.0",
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
		},
	}

	for _, opt := range opts {
		opt(store)
	}

	if store.fs == nil {
		store.fs = &OSFileSystem{}
	}
	if store.lockFactory == nil {
		store.lockFactory = &FlockFactory{}
	}
	store.fileLock = store.lockFactory.New(filePath + ".lock")

	if err := store.loadWithLock(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return store, nil
}

// Constants for file locking
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// acquireLock attempts to acquire the cross-process lock with retries
func (s *Store) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

func (s *Store) releaseLock() error {
	return s.fileLock.Unlock()
}

// loadWithLock reads the backing file under the cross-process lock
func (s *Store) loadWithLock() error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.releaseLock() }()

	return s.load()
}

// load reads the JSON file into memory. Caller handles locking.
func (s *Store) load() error {
	if _, err := s.fs.Stat(s.filePath); errors.Is(err, os.ErrNotExist) {
		// No file yet, start empty
		return nil
	}

	raw, err := s.fs.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var data storeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	s.data = &data
	return nil
}

// saveWithLock writes the in-memory data under the cross-process lock
func (s *Store) saveWithLock() error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.releaseLock() }()

	return s.save()
}

// save writes the JSON file atomically via a temp file and rename.
// Caller handles locking.
func (s *Store) save() error {
	s.data.Metadata.UpdatedAt = s.timeFunc()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmpFile := s.filePath + ".tmp"
	if err := s.fs.WriteFile(tmpFile, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := s.fs.Rename(tmpFile, s.filePath); err != nil {
		_ = s.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Put inserts or replaces a document, keyed by UUID. A document
// without a UUID gets a fresh one. Field values must be simple types.
// Returns the document's UUID.
func (s *Store) Put(doc Doc) (string, error) {
	if doc.Kind == "" {
		return "", fmt.Errorf("document kind cannot be empty")
	}
	for name, value := range doc.Fields {
		if err := validation.ValidateFieldName(name); err != nil {
			return "", err
		}
		if err := validation.ValidateFieldValue(name, value); err != nil {
			return "", err
		}
	}

	var id string
	err := s.locks.execute(writeOperation, func() error {
		now := s.timeFunc()
		if doc.UUID == "" {
			doc.UUID = s.idFunc()
		}
		id = doc.UUID

		replaced := false
		for i, existing := range s.data.Documents {
			if existing.UUID == doc.UUID {
				doc.CreatedAt = existing.CreatedAt
				doc.UpdatedAt = now
				s.data.Documents[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			doc.CreatedAt = now
			doc.UpdatedAt = now
			s.data.Documents = append(s.data.Documents, doc)
		}
		return s.saveWithLock()
	})
	if err != nil {
		return "", fmt.Errorf("failed to put document: %w", err)
	}
	return id, nil
}

// Get returns the document with the given UUID
func (s *Store) Get(id string) (Doc, error) {
	var found Doc
	err := s.locks.execute(readOperation, func() error {
		for _, doc := range s.data.Documents {
			if doc.UUID == id {
				found = doc
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	})
	if err != nil {
		return Doc{}, err
	}
	return found, nil
}

// Delete removes the document with the given UUID. Reference fields on
// other documents are not touched; references to a deleted document
// simply stop resolving.
func (s *Store) Delete(id string) error {
	return s.locks.execute(writeOperation, func() error {
		for i, doc := range s.data.Documents {
			if doc.UUID == id {
				s.data.Documents = append(s.data.Documents[:i], s.data.Documents[i+1:]...)
				return s.saveWithLock()
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	})
}

// List returns documents, optionally restricted to the given kinds,
// ordered by creation time then UUID for stable output
func (s *Store) List(kinds ...string) ([]Doc, error) {
	var out []Doc
	err := s.locks.execute(readOperation, func() error {
		for _, doc := range s.data.Documents {
			if len(kinds) > 0 && !containsString(kinds, doc.Kind) {
				continue
			}
			out = append(out, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortDocs(out)
	return out, nil
}

// Len returns the number of documents in the store
func (s *Store) Len() int {
	n := 0
	_ = s.locks.execute(readOperation, func() error {
		n = len(s.data.Documents)
		return nil
	})
	return n
}

// Close releases store resources. Data is saved on every mutation, so
// only the lock file needs cleaning up.
func (s *Store) Close() error {
	return s.locks.execute(writeOperation, func() error {
		_ = s.fs.Remove(s.filePath + ".lock")
		return nil
	})
}

// containsString checks if a slice contains a string
func containsString(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

// sortDocs orders documents by creation time, then UUID for ties
func sortDocs(docs []Doc) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].UUID < docs[j].UUID
	})
}
