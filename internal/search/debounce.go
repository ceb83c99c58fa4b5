package search

import (
	"sync"
	"time"
)

// DefaultDebounce is how long typing must pause before a query is ranked.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer delays a call until input has been quiet for the window. Only the
// newest scheduled call in a burst runs.
//
// time.Timer.Stop cannot recall a callback that has already fired and is
// waiting on the lock. Every schedule therefore takes a generation number,
// and a callback whose generation is no longer current returns without
// running. Cancel after the call ran does nothing.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Debounce schedules fn and supersedes whatever was pending.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	gen := d.supersede()
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen, fn) })
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersede()
	d.timer = nil
}

// Immediate supersedes the pending call and runs fn on the caller's goroutine.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// supersede stops the current timer and invalidates its callback. d.mu must
// be held.
func (d *Debouncer) supersede() uint64 {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	return d.gen
}

func (d *Debouncer) fire(gen uint64, fn func()) {
	d.mu.Lock()
	current := gen == d.gen
	if current {
		d.timer = nil
	}
	d.mu.Unlock()
	if current {
		fn()
	}
}
