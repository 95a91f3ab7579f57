package core

import (
	"context"
	"sync"
)

// Future is a single-assignment result cell. The runtime returns one from
// SendMessage (resolved with the handler's return value) and PublishMessage
// (resolved with nil once fan-out completes). Exactly one of Resolve or
// Reject takes effect; later completions are ignored, which lets a linked
// CancellationToken race the handler without coordination.
type Future struct {
	done chan struct{}
	once sync.Once

	value any
	err   error
}

// NewFuture creates an unresolved future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve completes the future successfully. No-op if already completed.
func (f *Future) Resolve(value any) {
	f.once.Do(func() {
		f.value = value
		close(f.done)
	})
}

// Reject completes the future with an error. No-op if already completed.
func (f *Future) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Await blocks until the future completes or ctx is done, returning the
// resolved value or the rejection error. A context error does not complete
// the future; other waiters keep waiting.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
		return f.value, f.err
	}
}

// Done returns a channel closed when the future completes.
func (f *Future) Done() <-chan struct{} { return f.done }

// Completed reports whether the future has been resolved or rejected.
func (f *Future) Completed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
