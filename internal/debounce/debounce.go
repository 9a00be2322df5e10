// Package debounce provides a generic value coalescer: a rapidly changing
// input settles into a single emission once it has been stable for a delay.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays propagation of a changing value until it has been stable
// for the configured interval. Each Push cancels the emission scheduled by
// the previous one, so only the last value of a burst is delivered on C.
// It is the sole mechanism keeping per-keystroke input from becoming a
// network request per keystroke.
type Debouncer[T any] struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	out   chan T
}

// New creates a debouncer with the given settle delay.
func New[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		out:   make(chan T, 1),
	}
}

// Push submits a new value, cancelling any pending emission.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.emit(v)
	})
}

// C delivers settled values. The channel has capacity one; an unconsumed
// settled value is replaced by the next one rather than blocking the timer.
func (d *Debouncer[T]) C() <-chan T {
	return d.out
}

// Flush emits the given value immediately, cancelling any pending emission.
func (d *Debouncer[T]) Flush(v T) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.emit(v)
}

// Stop cancels any pending emission. The debouncer remains usable.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) emit(v T) {
	for {
		select {
		case d.out <- v:
			return
		default:
			// Drop the stale unconsumed value
			select {
			case <-d.out:
			default:
			}
		}
	}
}
