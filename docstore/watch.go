package docstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is emitted by Watch when the store file changes on disk
type Event struct {
	Path string
}

// watchCoalesceDelay batches rapid filesystem activity into a single
// event, since the atomic save produces several notifications per write
const watchCoalesceDelay = 100 * time.Millisecond

// Watch streams change events for the store file until ctx is
// cancelled, letting embedders re-read state another process modified.
// Events coalesce per burst of activity; the channel closes once ctx
// is done or the watcher fails. Callers should drain the channel.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() { _ = watcher.Close() })
	}

	// Watch the directory: the atomic save replaces the file by
	// rename, which a watch on the file itself would not survive
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan Event, 16)
	target := filepath.Clean(s.filePath)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func() {
			select {
			case events <- Event{Path: target}:
			default:
				// Consumer not ready; it will re-read on the next
				// event anyway
			}
		}

		throttle := newChangeThrottle(watchCoalesceDelay)
		defer throttle.stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Surface errors as a change so clients resynchronize
				throttle.enqueue(send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				throttle.enqueue(send)
			}
		}
	}()

	return events, nil
}

// changeThrottle coalesces notifications so one burst of writes emits
// one event
type changeThrottle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newChangeThrottle(delay time.Duration) *changeThrottle {
	return &changeThrottle{delay: delay}
}

func (t *changeThrottle) enqueue(fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		fire()
	})
}

func (t *changeThrottle) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
