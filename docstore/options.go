package docstore

import "time"

// Option modifies Store configuration at construction
type Option func(*Store)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) Option {
	return func(s *Store) {
		s.lockFactory = factory
	}
}

// WithTimeFunc sets the clock used for document timestamps, so tests
// get deterministic times
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *Store) {
		s.timeFunc = fn
	}
}

// WithIDFunc sets the generator used for new document UUIDs, so tests
// get deterministic ids
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		s.idFunc = fn
	}
}
