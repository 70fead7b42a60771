package docstore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests, with error
// injection per operation
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string]*mockFile

	StatError      error
	ReadFileError  error
	WriteFileError error
	RenameError    error
	RemoveError    error
}

type mockFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi mockFileInfo) Name() string       { return fi.name }
func (fi mockFileInfo) Size() int64        { return fi.size }
func (fi mockFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi mockFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi mockFileInfo) Sys() interface{}   { return nil }

// NewMockFileSystem creates an empty in-memory file system
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{files: make(map[string]*mockFile)}
}

// Stat implements FileSystem.Stat
func (m *MockFileSystem) Stat(name string) (fs.FileInfo, error) {
	if m.StatError != nil {
		return nil, m.StatError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	file, exists := m.files[name]
	if !exists {
		return nil, os.ErrNotExist
	}
	return mockFileInfo{
		name:    filepath.Base(name),
		size:    int64(len(file.content)),
		mode:    file.mode,
		modTime: file.modTime,
	}, nil
}

// ReadFile implements FileSystem.ReadFile
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileError != nil {
		return nil, m.ReadFileError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	file, exists := m.files[name]
	if !exists {
		return nil, os.ErrNotExist
	}
	content := make([]byte, len(file.content))
	copy(content, file.content)
	return content, nil
}

// WriteFile implements FileSystem.WriteFile
func (m *MockFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if m.WriteFileError != nil {
		return m.WriteFileError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	content := make([]byte, len(data))
	copy(content, data)
	m.files[name] = &mockFile{content: content, mode: perm, modTime: time.Now()}
	return nil
}

// Rename implements FileSystem.Rename
func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if m.RenameError != nil {
		return m.RenameError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	file, exists := m.files[oldpath]
	if !exists {
		return os.ErrNotExist
	}
	m.files[newpath] = file
	delete(m.files, oldpath)
	return nil
}

// Remove implements FileSystem.Remove
func (m *MockFileSystem) Remove(name string) error {
	if m.RemoveError != nil {
		return m.RemoveError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[name]; !exists {
		return os.ErrNotExist
	}
	delete(m.files, name)
	return nil
}

// FileExists reports whether a file is present
func (m *MockFileSystem) FileExists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[name]
	return exists
}

// FileContent returns a file's bytes
func (m *MockFileSystem) FileContent(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	file, exists := m.files[name]
	if !exists {
		return nil, false
	}
	content := make([]byte, len(file.content))
	copy(content, file.content)
	return content, true
}

// MockFileLock is an in-memory FileLock for tests
type MockFileLock struct {
	mu        sync.Mutex
	held      bool
	lockError error

	LockAttempts   int
	UnlockAttempts int
}

// TryLockContext implements FileLock.TryLockContext
func (m *MockFileLock) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LockAttempts++
	if m.lockError != nil {
		return false, m.lockError
	}
	if m.held {
		return false, nil
	}
	m.held = true
	return true, nil
}

// Unlock implements FileLock.Unlock
func (m *MockFileLock) Unlock() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UnlockAttempts++
	m.held = false
	return nil
}

// Hold marks the lock as held by another process
func (m *MockFileLock) Hold() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = true
}

// SetLockError makes lock attempts fail with err
func (m *MockFileLock) SetLockError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockError = err
}

// MockFileLockFactory hands out one MockFileLock per path so tests can
// reach the lock the store uses
type MockFileLockFactory struct {
	mu    sync.Mutex
	locks map[string]*MockFileLock
}

// NewMockFileLockFactory creates an empty factory
func NewMockFileLockFactory() *MockFileLockFactory {
	return &MockFileLockFactory{locks: make(map[string]*MockFileLock)}
}

// New implements FileLockFactory.New
func (f *MockFileLockFactory) New(path string) FileLock {
	f.mu.Lock()
	defer f.mu.Unlock()

	if lock, exists := f.locks[path]; exists {
		return lock
	}
	lock := &MockFileLock{}
	f.locks[path] = lock
	return lock
}

// Lock returns the mock lock for a path, creating it if needed
func (f *MockFileLockFactory) Lock(path string) *MockFileLock {
	return f.New(path).(*MockFileLock)
}
