package docstore

import (
	"sync"
)

// operationType defines whether an operation reads or writes store
// data, selecting the lock the lockManager acquires for it
type operationType int

const (
	// readOperation marks operations that only read data; multiple
	// reads proceed concurrently
	readOperation operationType = iota

	// writeOperation marks operations that modify data; a write is
	// exclusive against all other operations
	writeOperation
)

// lockManager centralizes in-process locking for store operations.
// Routing every operation through execute keeps the read/write
// distinction in one place instead of scattering RLock/Lock calls
// through the store methods.
type lockManager struct {
	mu *sync.RWMutex
}

func newLockManager() *lockManager {
	return &lockManager{mu: &sync.RWMutex{}}
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
