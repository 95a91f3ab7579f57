package runtime

import "github.com/hupe1980/agentcore/core"

// mailbox serializes deliveries to one agent instance. Each mailbox has its
// own unbounded FIFO and a single drain goroutine, so handlers for the same
// recipient never overlap and run in the order the run loop routed them.
type mailbox struct {
	queue *fifo
	done  chan struct{}
}

// mailboxFor returns the recipient's mailbox, creating it (and its drain
// goroutine) on first use. Returns nil once Stop has closed the mailboxes:
// creating one after that point would leave its drain goroutine running
// forever and deliver the envelope past shutdown.
func (r *InProcessRuntime) mailboxFor(id core.AgentID) *mailbox {
	r.mailboxMu.Lock()
	defer r.mailboxMu.Unlock()

	if mb, ok := r.mailboxes[id]; ok {
		return mb
	}
	if r.mailboxesClosed {
		return nil
	}
	mb := &mailbox{queue: newFIFO(), done: make(chan struct{})}
	r.mailboxes[id] = mb
	go r.drainMailbox(mb)
	return mb
}

func (r *InProcessRuntime) drainMailbox(mb *mailbox) {
	defer close(mb.done)
	for {
		e, ok := mb.queue.pop()
		if !ok {
			return
		}
		r.deliver(r.baseCtx, e)
	}
}
