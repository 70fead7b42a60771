package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/nanoref/types"
)

// RecordingCommitter captures every commit an editor makes, so tests
// can assert commit counts and payloads. It satisfies the editor's
// Committer interface.
type RecordingCommitter struct {
	mu      sync.Mutex
	commits [][]types.Reference
	unsets  int
	err     error
}

// NewRecordingCommitter creates an empty recorder
func NewRecordingCommitter() *RecordingCommitter {
	return &RecordingCommitter{}
}

// SetValue records the committed references
func (c *RecordingCommitter) SetValue(ctx context.Context, refs []types.Reference) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	committed := make([]types.Reference, len(refs))
	copy(committed, refs)
	c.commits = append(c.commits, committed)
	return nil
}

// Unset records a field removal
func (c *RecordingCommitter) Unset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	c.unsets++
	return nil
}

// SetError makes subsequent commits fail with err. Pass nil to heal.
func (c *RecordingCommitter) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Commits returns every recorded SetValue payload in order
func (c *RecordingCommitter) Commits() [][]types.Reference {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]types.Reference, len(c.commits))
	copy(out, c.commits)
	return out
}

// CommitCount returns how many SetValue calls succeeded
func (c *RecordingCommitter) CommitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.commits)
}

// LastCommit returns the most recent SetValue payload
func (c *RecordingCommitter) LastCommit() ([]types.Reference, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.commits) == 0 {
		return nil, false
	}
	return c.commits[len(c.commits)-1], true
}

// LastCommitIDs returns the document ids of the most recent commit
func (c *RecordingCommitter) LastCommitIDs() []string {
	refs, ok := c.LastCommit()
	if !ok {
		return nil
	}
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

// Unsets returns how many Unset calls succeeded
func (c *RecordingCommitter) Unsets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsets
}
