package services

import (
	"context"
	"sync"
	"time"
)

const DefaultDebounceDelay = 500 * time.Millisecond

// Debouncer lets only the latest of a burst of calls through. Each Wait restarts the timer;
// a caller overtaken by a newer one is released with ErrSuperseded.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending *debounceTicket
}

type debounceTicket struct {
	timer *time.Timer
	done  chan error
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{delay: delay}
}

// Wait blocks until the delay elapses without a newer call. It returns nil when the caller
// should proceed, ErrSuperseded when a newer call took over, or the context error.
func (d *Debouncer) Wait(ctx context.Context) error {
	t := &debounceTicket{done: make(chan error, 1)}

	d.mu.Lock()
	if prev := d.pending; prev != nil {
		if prev.timer.Stop() {
			prev.done <- ErrSuperseded
		}
	}
	d.pending = t
	t.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending == t {
			d.pending = nil
		}
		d.mu.Unlock()
		t.done <- nil
	})
	d.mu.Unlock()

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		d.mu.Lock()
		if d.pending == t && t.timer.Stop() {
			d.pending = nil
		}
		d.mu.Unlock()
		return ctx.Err()
	}
}
