package runtime

import (
	"errors"
	"sync"

	"github.com/hupe1980/agentcore/core"
)

// envelope is one pending delivery task. RPC envelopes carry a future that
// is resolved with the handler's return value; broadcast envelopes carry a
// fanout tracker shared by every delivery of the same publish operation.
type envelope struct {
	message   any
	sender    *core.AgentID
	recipient core.AgentID
	topic     *core.TopicID
	isRPC     bool
	token     *core.CancellationToken
	messageID string

	future *core.Future // RPC only
	fanout *fanout      // broadcast only
}

// fanout tracks completion of all deliveries belonging to one publish. The
// publish future resolves once every delivery has finished. Per-subscriber
// errors are collected but only surfaced on the future in strict mode;
// otherwise isolation applies and the publish still resolves successfully.
type fanout struct {
	mu        sync.Mutex
	remaining int
	errs      []error

	future *core.Future
	strict bool
}

func newFanout(future *core.Future, recipients int, strict bool) *fanout {
	f := &fanout{remaining: recipients, future: future, strict: strict}
	if recipients == 0 {
		future.Resolve(nil)
	}
	return f
}

// done records the outcome of one delivery and completes the publish future
// when it was the last one outstanding.
func (f *fanout) done(err error) {
	f.mu.Lock()
	if err != nil {
		f.errs = append(f.errs, err)
	}
	f.remaining--
	last := f.remaining == 0
	errs := f.errs
	f.mu.Unlock()

	if !last {
		return
	}
	if f.strict && len(errs) > 0 {
		f.future.Reject(errors.Join(errs...))
		return
	}
	f.future.Resolve(nil)
}
