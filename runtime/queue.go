package runtime

import (
	"context"
	"sync"
)

// fifo is an unbounded FIFO of envelopes with a single logical consumer.
// Unbounded capacity keeps enqueue non-blocking, which matters because
// handlers enqueue nested sends while a delivery is in flight; a bounded
// queue could deadlock the run loop against its own producers.
type fifo struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*envelope
	closed bool
}

func newFIFO() *fifo {
	q := &fifo{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends an envelope. Returns false if the queue has been closed.
func (q *fifo) push(e *envelope) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, e)
	q.cond.Signal()
	return true
}

// pop blocks until an envelope is available or the queue is closed.
// The second return is false once the queue is closed and drained.
func (q *fifo) pop() (*envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}

// popCtx behaves like pop but additionally gives up when ctx is done. The
// second return is false when the queue is closed and drained or ctx fired;
// callers disambiguate via ctx.Err().
func (q *fifo) popCtx(ctx context.Context) (*envelope, bool) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}

// close marks the queue closed and returns any undelivered envelopes so the
// caller can reject their futures.
func (q *fifo) close() []*envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	rest := q.items
	q.items = nil
	q.cond.Broadcast()
	return rest
}
