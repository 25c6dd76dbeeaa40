package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a typed query is searched.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer delivers only the latest pushed text, once no new text has
// arrived for the delay. Each Push restarts the wait.
type Debouncer struct {
	delay time.Duration
	fn    func(text string)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a Debouncer calling fn on its own goroutine.
// A non-positive delay means DefaultDebounce.
func NewDebouncer(delay time.Duration, fn func(text string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Push records text as the latest input and restarts the wait. Pushes
// after Stop are ignored.
func (d *Debouncer) Push(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, text) })
}

// fire delivers text unless a later Push or Stop superseded it. A timer
// that had already started when it was stopped lands here with a stale gen.
func (d *Debouncer) fire(gen uint64, text string) {
	d.mu.Lock()
	current := gen == d.gen && !d.stopped
	d.mu.Unlock()

	if current {
		d.fn(text)
	}
}

// Stop cancels any pending delivery and disables the Debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
