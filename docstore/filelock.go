package docstore

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock is the cross-process lock guarding the store file
type FileLock interface {
	// TryLockContext attempts to acquire an exclusive lock, retrying
	// until the context ends
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)

	// Unlock releases the lock
	Unlock() error
}

// FileLockFactory creates FileLock instances for a lock file path
type FileLockFactory interface {
	New(path string) FileLock
}

// FlockWrapper adapts github.com/gofrs/flock to the FileLock interface
type FlockWrapper struct {
	flock *flock.Flock
}

// TryLockContext implements FileLock.TryLockContext
func (f *FlockWrapper) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	return f.flock.TryLockContext(ctx, retryInterval)
}

// Unlock implements FileLock.Unlock
func (f *FlockWrapper) Unlock() error {
	return f.flock.Unlock()
}

// FlockFactory is the default factory producing flock-backed locks
type FlockFactory struct{}

// New implements FileLockFactory.New
func (f *FlockFactory) New(path string) FileLock {
	return &FlockWrapper{flock: flock.New(path)}
}
