// Package debounce delays keyed work so that only the latest of a burst of calls runs.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned by a pending call replaced by a newer one for the same key.
var ErrSuperseded = errors.New("debounce: superseded by a newer call")

type pending struct {
	superseded chan struct{}
}

// Debouncer holds at most one pending call per key.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pending
}

// New creates a debouncer that waits delay before running a call.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, pending: make(map[string]*pending)}
}

// Delay returns the configured cooldown.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Do waits for the cooldown and then runs fn, unless another Do for key arrives first,
// in which case it returns ErrSuperseded without running fn. Once fn starts it is no
// longer cancellable by newer calls.
func Do[T any](ctx context.Context, d *Debouncer, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	p := d.enter(key)

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-p.superseded:
		return zero, ErrSuperseded
	case <-ctx.Done():
		d.leave(key, p)
		return zero, ctx.Err()
	case <-timer.C:
	}

	d.leave(key, p)
	return fn(ctx)
}

func (d *Debouncer) enter(key string) *pending {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		close(prev.superseded)
	}
	p := &pending{superseded: make(chan struct{})}
	d.pending[key] = p
	return p
}

func (d *Debouncer) leave(key string, p *pending) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending[key] == p {
		delete(d.pending, key)
	}
}
