// Package state implements the interactive catalog view state: draft and
// applied filters, sort, pagination, the debounced search commit, and the
// URL query-string round-trip that makes the view shareable.
package state

import (
	"sync"
	"time"
)

// SearchDebounceDelay is the inactivity window before a typed search query is
// committed to the applied filters.
const SearchDebounceDelay = 500 * time.Millisecond

// Timer is a cancelable pending callback.
type Timer interface {
	// Stop cancels the callback. It reports false when the callback already
	// fired or was stopped.
	Stop() bool
}

// Clock schedules delayed callbacks. The production clock delegates to
// time.AfterFunc; tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realTimer struct{ t *time.Timer }

func (rt realTimer) Stop() bool { return rt.t.Stop() }

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// SystemClock is the wall-clock implementation of Clock.
var SystemClock Clock = realClock{}

// Debouncer coalesces rapid triggers into a single trailing-edge callback.
// Scheduling again before the delay elapses supersedes the pending callback.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	pending Timer
}

// NewDebouncer creates a debouncer on the given clock.
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: clock, delay: delay}
}

// Schedule arranges fn to run after the delay, replacing any pending callback.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.pending = d.clock.AfterFunc(d.delay, fn)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
