package nanoref

import (
	"sync"
)

// operationType defines whether an editor operation reads or mutates
// the reference set. The distinction lets the lockManager hand out
// shared locks to readers and an exclusive lock to mutations.
type operationType int

const (
	// readOperation indicates an operation that only reads editor
	// state. Multiple reads can proceed concurrently.
	readOperation operationType = iota

	// writeOperation indicates an operation that mutates editor
	// state or commits through the host. Writes are exclusive, which
	// also serializes commits in trigger order.
	writeOperation
)

// lockManager centralizes locking for editor operations. Routing every
// operation through execute keeps the read/write distinction in one
// place and guarantees at most one commit is in flight at a time.
//
// Mutations call back into host code (the Committer) while the write
// lock is held. Host callbacks must not call editor methods, or they
// deadlock against their own operation.
type lockManager struct {
	mu *sync.RWMutex
}

// newLockManager creates a lock manager ready for concurrent use
func newLockManager() *lockManager {
	return &lockManager{
		mu: &sync.RWMutex{},
	}
}

// execute runs fn under the lock appropriate for the operation type.
// The lock is released when fn returns, including on panic.
func (lm *lockManager) execute(opType operationType, fn func() error) error {
	switch opType {
	case readOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case writeOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}

// executeWithResult is execute for functions that produce a value.
// Callers type assert the returned interface{}.
func (lm *lockManager) executeWithResult(opType operationType, fn func() (interface{}, error)) (interface{}, error) {
	switch opType {
	case readOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case writeOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}
