// Package debounce delays propagation of a rapidly-changing value until it
// has been stable for a fixed quiescence window.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds back updates to a value until the value has not changed
// for the configured delay. If Set is called again before the delay elapses,
// the pending fire is discarded and the timer restarts with the new value.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New creates a Debouncer that invokes fn with the most recent value once
// the input has been quiet for delay. fn runs on a timer goroutine.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		fn:    fn,
	}
}

// Set replaces the pending value and restarts the quiescence timer.
// Calling Set after Stop is a no-op.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	// Stopping the timer can lose the race against its expiry; the
	// generation check in fire keeps the superseded value from being
	// delivered anyway.
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen, v)
	})
}

// Stop cancels any pending fire. Safe to call more than once.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}
