package core

import (
	"sync"
	"time"
)

// CancellationToken is the cooperative cancellation primitive shared between
// a caller and its in-flight operations. The token is a one-way state
// machine: once cancelled it stays cancelled. Cancelling rejects every
// linked future, including futures created by nested sends performed while
// handling the original message, so cancellation is transitive along a call
// chain. Independent operations holding their own tokens are unaffected.
//
// Cancellation is cooperative, not preemptive: a handler that never awaits a
// future, selects on Done or checks Err cannot be interrupted.
type CancellationToken struct {
	mu        sync.Mutex
	cancelled bool
	done      chan struct{}
	nextID    int
	callbacks []cancelCallback
}

type cancelCallback struct {
	id int
	fn func()
}

// NewCancellationToken creates a token in the pending state.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{done: make(chan struct{})}
}

// WithTimeout creates a token that cancels itself after d elapses. This is
// the timeout primitive: there is no first-class deadline beyond a derived
// self-cancelling token.
func WithTimeout(d time.Duration) *CancellationToken {
	t := NewCancellationToken()
	time.AfterFunc(d, t.Cancel)
	return t
}

// Cancel transitions the token to the cancelled state and runs every
// registered callback (rejecting linked futures). Cancel is idempotent;
// subsequent calls are no-ops.
func (t *CancellationToken) Cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	cbs := t.callbacks
	t.callbacks = nil
	close(t.done)
	t.mu.Unlock()

	for _, cb := range cbs {
		cb.fn()
	}
}

// IsCancelled reports whether Cancel has been called.
func (t *CancellationToken) IsCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Err returns ErrCancelled once the token is cancelled, nil otherwise.
// Handlers use this to check for cancellation between units of work.
func (t *CancellationToken) Err() error {
	if t.IsCancelled() {
		return ErrCancelled
	}
	return nil
}

// Done returns a channel closed when the token is cancelled, for use in
// select statements at handler suspension points.
func (t *CancellationToken) Done() <-chan struct{} { return t.done }

// LinkFuture registers a future so that cancelling the token rejects it with
// ErrCancelled. Linking an already-rejected or resolved future is harmless.
// If the token is already cancelled the future is rejected immediately.
func (t *CancellationToken) LinkFuture(f *Future) {
	t.OnCancelled(func() { f.Reject(ErrCancelled) })
}

// OnCancelled registers a callback invoked exactly once when the token is
// cancelled. If the token is already cancelled the callback runs
// synchronously before OnCancelled returns. The returned func deregisters
// the callback; short-lived registrations (one per delivery on a long-lived
// token) must call it once they no longer need the notification, or the
// token accumulates callbacks unboundedly.
func (t *CancellationToken) OnCancelled(fn func()) func() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		fn()
		return func() {}
	}
	t.nextID++
	id := t.nextID
	t.callbacks = append(t.callbacks, cancelCallback{id: id, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, cb := range t.callbacks {
			if cb.id == id {
				t.callbacks = append(t.callbacks[:i], t.callbacks[i+1:]...)
				return
			}
		}
	}
}
