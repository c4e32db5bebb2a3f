package store

import (
	"sync"
	"time"
)

// DefaultQuietWindow is the debounce interval for free-text input.
const DefaultQuietWindow = 300 * time.Millisecond

// Debouncer coalesces rapid successive values into a single commit after
// a quiet window. Each new value invalidates the previous pending token
// before scheduling a new one, so a stale value can never land after a
// newer one has already been committed.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	commit func(string)

	// commitMu serializes commits. It is taken before the token check so
	// that a commit stalled past the quiet window holds off the next one
	// instead of landing after it.
	commitMu sync.Mutex

	timer   *time.Timer
	token   uint64
	pending string
	has     bool
}

// NewDebouncer creates a debouncer committing through fn after delay.
// A non-positive delay falls back to DefaultQuietWindow.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultQuietWindow
	}
	return &Debouncer{delay: delay, commit: fn}
}

// Set records a new pending value and restarts the quiet window.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.token++
	token := d.token
	d.pending = value
	d.has = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(token) })
}

func (d *Debouncer) fire(token uint64) {
	d.commitMu.Lock()
	defer d.commitMu.Unlock()

	d.mu.Lock()
	if token != d.token || !d.has {
		// A newer value superseded this timer while it was in flight.
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.has = false
	d.mu.Unlock()

	d.commit(value)
}

// Flush commits the pending value immediately, if any.
func (d *Debouncer) Flush() {
	d.commitMu.Lock()
	defer d.commitMu.Unlock()

	d.mu.Lock()
	if !d.has {
		d.mu.Unlock()
		return
	}
	d.token++
	if d.timer != nil {
		d.timer.Stop()
	}
	value := d.pending
	d.has = false
	d.mu.Unlock()

	d.commit(value)
}

// Stop cancels any pending commit without applying it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token++
	d.has = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
