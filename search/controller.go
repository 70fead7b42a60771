package search

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Controller runs the search session for one reference field: it owns
// the debounce timer, dispatches queries through an Executor, discards
// results of superseded queries, and filters out documents the field
// already references.
//
// Every transition produces an Update delivered to the notification
// handler. Handlers run sequentially in transition order and must not
// call back into the controller; the snapshot carries everything a
// renderer needs.
type Controller struct {
	executor   *Executor
	membership Membership
	notify     func(Update)

	mu         sync.Mutex
	state      State
	text       string
	results    []Result
	err        error
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	closed     bool

	// emitMu serializes handler calls so updates arrive in the order
	// the transitions happened
	emitMu sync.Mutex
}

// NewController creates a controller delivering updates to notify.
// notify may be nil when the caller polls the getters instead.
// membership may be nil to disable hide-added filtering regardless of
// configuration.
func NewController(executor *Executor, membership Membership, notify func(Update)) *Controller {
	return &Controller{
		executor:   executor,
		membership: membership,
		notify:     notify,
		state:      StateIdle,
	}
}

// SetText registers an input edit. Any pending quiet period restarts
// and any in-flight query becomes dead. Empty or whitespace-only text
// clears the results and returns to idle immediately.
func (c *Controller) SetText(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.invalidateLocked()
	c.text = text

	if strings.TrimSpace(text) == "" {
		c.state = StateIdle
		c.results = nil
		c.err = nil
		c.emitLocked()
		return
	}

	c.state = StateDebouncing
	gen := c.generation
	c.timer = time.AfterFunc(c.executor.Options().DebounceInterval, func() {
		c.dispatch(gen)
	})
	c.emitLocked()
}

// ClearText resets the session to idle, dropping results and any
// pending or in-flight query
func (c *Controller) ClearText() {
	c.SetText("")
}

// Flush skips the remainder of the quiet period, dispatching the
// pending query now. It does nothing unless the session is debouncing.
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.closed || c.state != StateDebouncing {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	gen := c.generation
	c.mu.Unlock()

	c.dispatch(gen)
}

// DropResult removes one document from the displayed results, used
// when a result was just added to the reference set and hide-added is
// in effect
func (c *Controller) DropResult(id string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	kept := c.results[:0]
	removed := false
	for _, r := range c.results {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		c.mu.Unlock()
		return
	}
	c.results = kept
	c.emitLocked()
}

// State returns the current session state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Text returns the current input text
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Results returns a copy of the displayed results
func (c *Controller) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyResults(c.results)
}

// Err returns the failure for the latest query, nil unless the
// session is in the failed state
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close shuts the session down: the debounce timer stops, any
// in-flight query is canceled, and later calls are no-ops. Close is
// idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.invalidateLocked()
}

// invalidateLocked advances the generation so in-flight work becomes
// dead, cancels it, and stops any pending timer. Callers hold c.mu.
func (c *Controller) invalidateLocked() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// dispatch moves a debounced query into flight. The generation guards
// against timers that fire after their edit was superseded.
func (c *Controller) dispatch(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.state = StateQuerying
	text := c.text
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx, gen, text)
	c.emitLocked()
}

// run executes one query and applies its outcome unless the query died
// while in flight. Dead queries change nothing, whether they succeeded
// or failed.
func (c *Controller) run(ctx context.Context, gen uint64, text string) {
	results, err := c.executor.Search(ctx, text)

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.cancel = nil

	if err != nil {
		c.state = StateFailed
		c.err = err
		c.results = nil
		c.emitLocked()
		return
	}

	c.state = StateResolved
	c.err = nil
	c.results = c.filterAdded(results)
	c.emitLocked()
}

// filterAdded drops documents the field already references, checked
// against the membership at arrival time
func (c *Controller) filterAdded(results []Result) []Result {
	if !c.executor.Options().HideAdded || c.membership == nil {
		return results
	}
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if c.membership.Contains(r.ID) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// emitLocked snapshots the session and delivers it to the handler.
// c.mu is held on entry and released here; emitMu keeps deliveries in
// transition order.
func (c *Controller) emitLocked() {
	update := Update{
		State:   c.state,
		Query:   c.text,
		Results: copyResults(c.results),
		Err:     c.err,
	}
	notify := c.notify
	if notify == nil {
		c.mu.Unlock()
		return
	}
	c.emitMu.Lock()
	c.mu.Unlock()
	notify(update)
	c.emitMu.Unlock()
}

func copyResults(results []Result) []Result {
	if results == nil {
		return nil
	}
	out := make([]Result, len(results))
	copy(out, results)
	return out
}
