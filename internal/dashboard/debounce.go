package dashboard

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of triggers into one execution after a quiet
// period. The zero value is not usable; create with newDebouncer.
type debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	pending  func()
	duration time.Duration
}

func newDebouncer(duration time.Duration) *debouncer {
	return &debouncer{duration: duration}
}

// Trigger schedules fn after the debounce window. Rapid successive calls
// replace the pending fn and reset the timer.
func (d *debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		fn := d.pending
		d.pending = nil
		d.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Flush runs any pending fn immediately and cancels the timer.
func (d *debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Cancel drops any pending fn without running it. Used on teardown so no
// write fires into a disposed scope.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
