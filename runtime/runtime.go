package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
	"golang.org/x/sync/semaphore"
)

// Options configures an InProcessRuntime instance using the functional
// options pattern.
type Options struct {
	// Logger receives structured runtime diagnostics. Defaults to NoOp
	// logger if nil to ensure no logging dependencies.
	Logger logging.Logger

	// InterventionHandlers form the middleware chain applied to every send,
	// publish and RPC response, in slice order.
	InterventionHandlers []core.InterventionHandler

	// StrictSubscriberErrors re-raises broadcast handler errors on the
	// publish future instead of isolating and logging them. Intended for
	// tests that must not swallow failures. Unhandled-message conditions
	// stay soft even in strict mode.
	StrictSubscriberErrors bool

	// MaxConcurrentDeliveries caps the number of handler invocations in
	// flight at once. Zero means unlimited. A cap below the depth of your
	// deepest nested-send chain can stall that chain, so set it with care.
	MaxConcurrentDeliveries int64
}

// WithLogger sets the runtime logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithInterventionHandlers appends handlers to the intervention chain.
func WithInterventionHandlers(hs ...core.InterventionHandler) func(o *Options) {
	return func(o *Options) { o.InterventionHandlers = append(o.InterventionHandlers, hs...) }
}

// WithStrictSubscriberErrors enables eager re-raising of broadcast handler
// errors on the publish future.
func WithStrictSubscriberErrors() func(o *Options) {
	return func(o *Options) { o.StrictSubscriberErrors = true }
}

// WithMaxConcurrentDeliveries caps concurrent handler invocations.
func WithMaxConcurrentDeliveries(n int64) func(o *Options) {
	return func(o *Options) { o.MaxConcurrentDeliveries = n }
}

// InProcessRuntime is the single-process implementation of core.Runtime.
//
// It owns the only shared mutable state in the system: the agent type
// registry, the lazily-populated instance arena, the subscription table and
// the pending delivery queue. A single run loop drains the queue in FIFO
// order and hands each envelope to a per-recipient mailbox goroutine, so
// deliveries to one agent are serialized and ordered while independent
// recipients make progress concurrently. Handlers performing nested sends
// never block the loop.
//
// Construct with New, register agent types, then either call Start for the
// background run loop or step deliveries manually with ProcessNext.
type InProcessRuntime struct {
	logger        logging.Logger
	events        logging.DeliveryEventLogger // non-nil when logger supports structured events
	interventions []core.InterventionHandler
	strict        bool
	sem           *semaphore.Weighted // nil when unlimited

	mu       sync.RWMutex
	registry map[string]core.AgentFactory
	subs     []core.Subscription // registration order, drives fan-out determinism
	rules    map[string]struct{} // structural duplicate guard

	instMu    sync.Mutex
	instances map[core.AgentID]core.Agent

	queue *fifo

	mailboxMu       sync.Mutex
	mailboxes       map[core.AgentID]*mailbox
	mailboxesClosed bool

	pendingMu   sync.Mutex
	pendingCond *sync.Cond
	pending     int

	stateMu  sync.Mutex
	started  bool
	stopping bool
	loopDone chan struct{}

	baseCtx    context.Context
	baseCancel context.CancelFunc
}

var _ core.Runtime = (*InProcessRuntime)(nil)

// New creates an InProcessRuntime with sensible defaults. The runtime
// accepts messages immediately; queued messages are delivered once Start is
// called (or via ProcessNext).
func New(optFns ...func(o *Options)) *InProcessRuntime {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &InProcessRuntime{
		logger:        opts.Logger,
		interventions: opts.InterventionHandlers,
		strict:        opts.StrictSubscriberErrors,
		registry:      make(map[string]core.AgentFactory),
		rules:         make(map[string]struct{}),
		instances:     make(map[core.AgentID]core.Agent),
		queue:         newFIFO(),
		mailboxes:     make(map[core.AgentID]*mailbox),
		loopDone:      make(chan struct{}),
		baseCtx:       ctx,
		baseCancel:    cancel,
	}
	r.pendingCond = sync.NewCond(&r.pendingMu)
	if ev, ok := opts.Logger.(logging.DeliveryEventLogger); ok {
		r.events = ev
	}
	if opts.MaxConcurrentDeliveries > 0 {
		r.sem = semaphore.NewWeighted(opts.MaxConcurrentDeliveries)
	}
	return r
}

// Register binds an agent type to a factory and optional default
// subscriptions. Registering an already-known type fails, as does any
// subscription whose rule structurally duplicates one in the table (or a
// sibling in the same call). Validation happens before any mutation, so a
// failed Register leaves the table untouched.
func (r *InProcessRuntime) Register(agentType string, factory core.AgentFactory, subscriptions ...core.Subscription) error {
	if agentType == "" {
		return fmt.Errorf("agent type must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("agent factory must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.registry[agentType]; exists {
		return fmt.Errorf("agent type %q already registered", agentType)
	}

	seen := make(map[string]struct{}, len(subscriptions))
	for _, s := range subscriptions {
		rule := s.Rule()
		if _, dup := r.rules[rule]; dup {
			return &core.DuplicateSubscriptionError{Rule: rule}
		}
		if _, dup := seen[rule]; dup {
			return &core.DuplicateSubscriptionError{Rule: rule}
		}
		seen[rule] = struct{}{}
	}

	r.registry[agentType] = factory
	for _, s := range subscriptions {
		r.subs = append(r.subs, s)
		r.rules[s.Rule()] = struct{}{}
	}

	r.logger.Debug("registered agent type %s with %d subscription(s)", agentType, len(subscriptions))
	return nil
}

// AddSubscription adds a subscription to the table. Adding a structural
// duplicate fails with core.DuplicateSubscriptionError; this is a
// correctness guard, not a convenience dedup.
func (r *InProcessRuntime) AddSubscription(sub core.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule := sub.Rule()
	if _, dup := r.rules[rule]; dup {
		return &core.DuplicateSubscriptionError{Rule: rule}
	}
	r.subs = append(r.subs, sub)
	r.rules[rule] = struct{}{}
	return nil
}

// RemoveSubscription removes a subscription by its instance id. Removing an
// unknown id is an error so callers notice stale bookkeeping early.
func (r *InProcessRuntime) RemoveSubscription(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subs {
		if s.ID() != id {
			continue
		}
		delete(r.rules, s.Rule())
		r.subs = append(r.subs[:i], r.subs[i+1:]...)
		return nil
	}
	return fmt.Errorf("subscription %s not found", id)
}

// SendMessage delivers a message point-to-point to exactly one agent,
// returning a future that resolves with the handler's return value. The
// intervention chain runs synchronously before the message is queued; a
// drop or error there means the target agent is never invoked. All failure
// modes surface exclusively through the future.
func (r *InProcessRuntime) SendMessage(message any, recipient core.AgentID, optFns ...func(o *core.MessageOptions)) *core.Future {
	opts := applyMessageOptions(optFns)

	fut := core.NewFuture()
	token := opts.CancellationToken
	if token == nil {
		token = core.NewCancellationToken()
	}
	token.LinkFuture(fut)

	sender := senderPtr(opts.Sender)

	msg := message
	for _, h := range r.interventions {
		m, err := h.OnSend(r.baseCtx, msg, sender, recipient)
		if err != nil {
			fut.Reject(fmt.Errorf("intervention on send to %s: %w", recipient, err))
			return fut
		}
		if m == core.DropMessage {
			if r.events != nil {
				r.events.LogDropped("send", recipient.String())
			} else {
				r.logger.Info("send to %s dropped by intervention handler", recipient)
			}
			fut.Reject(fmt.Errorf("send to %s: %w", recipient, core.ErrMessageDropped))
			return fut
		}
		msg = m
	}

	r.enqueue(&envelope{
		message:   msg,
		sender:    sender,
		recipient: recipient,
		isRPC:     true,
		token:     token,
		messageID: opts.MessageID,
		future:    fut,
	})
	return fut
}

// PublishMessage delivers a message to every agent matched by the
// subscription table as it exists when PublishMessage is called; concurrent
// table changes never affect an in-flight publish. Matching subscriptions
// are evaluated in registration order and recipients are deduplicated, so
// each matching agent's handler runs exactly once per publish. The
// publishing agent itself is skipped: broadcasts do not echo back to their
// sender. The future resolves with nil once every delivery completes.
func (r *InProcessRuntime) PublishMessage(message any, topic core.TopicID, optFns ...func(o *core.MessageOptions)) *core.Future {
	start := time.Now()
	opts := applyMessageOptions(optFns)

	fut := core.NewFuture()
	token := opts.CancellationToken
	if token == nil {
		token = core.NewCancellationToken()
	}
	token.LinkFuture(fut)

	sender := senderPtr(opts.Sender)

	msg := message
	for _, h := range r.interventions {
		m, err := h.OnPublish(r.baseCtx, msg, sender, topic)
		if err != nil {
			fut.Reject(fmt.Errorf("intervention on publish to %s: %w", topic, err))
			return fut
		}
		if m == core.DropMessage {
			if r.events != nil {
				r.events.LogDropped("publish", topic.String())
			} else {
				r.logger.Info("publish to %s dropped by intervention handler", topic)
			}
			fut.Reject(fmt.Errorf("publish to %s: %w", topic, core.ErrMessageDropped))
			return fut
		}
		msg = m
	}

	recipients := r.resolveRecipients(topic, sender)
	fo := newFanout(fut, len(recipients), r.strict)
	if r.events != nil {
		r.events.LogPublish(topic.String(), len(recipients), time.Since(start))
	} else {
		r.logger.Debug("publishing %s to %d recipient(s)", topic, len(recipients))
	}

	for _, recipient := range recipients {
		t := topic
		r.enqueue(&envelope{
			message:   msg,
			sender:    sender,
			recipient: recipient,
			topic:     &t,
			isRPC:     false,
			token:     token,
			messageID: opts.MessageID,
			fanout:    fo,
		})
	}
	return fut
}

// resolveRecipients snapshots the subscription table and maps the topic to
// its recipient set, preserving subscription registration order.
func (r *InProcessRuntime) resolveRecipients(topic core.TopicID, sender *core.AgentID) []core.AgentID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var recipients []core.AgentID
	seen := make(map[core.AgentID]struct{})
	for _, s := range r.subs {
		if !s.Match(topic) {
			continue
		}
		id, err := s.MapToAgent(topic)
		if err != nil {
			r.logger.Warn("subscription %s failed to map topic %s: %v", s.ID(), topic, err)
			continue
		}
		if sender != nil && id == *sender {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}
	return recipients
}

// Start launches the background run loop. Start is idempotent; only the
// first call has an effect.
func (r *InProcessRuntime) Start() {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if r.started || r.stopping {
		return
	}
	r.started = true
	go r.runLoop()
}

// runLoop is the single consumer of the ingress queue. It routes each
// envelope to its recipient's mailbox in FIFO order, which fixes the
// per-recipient delivery order globally.
func (r *InProcessRuntime) runLoop() {
	defer close(r.loopDone)
	for {
		e, ok := r.queue.pop()
		if !ok {
			return
		}
		mb := r.mailboxFor(e.recipient)
		if mb == nil || !mb.queue.push(e) {
			r.rejectEnvelope(e, core.ErrRuntimeStopped)
		}
	}
}

// ProcessNext synchronously delivers exactly one pending message, blocking
// until one is available, the runtime stops, or ctx is done. It is the
// manual-stepping alternative to Start; mixing both on the same runtime
// forfeits the single-consumer ordering guarantee.
func (r *InProcessRuntime) ProcessNext(ctx context.Context) error {
	e, ok := r.queue.popCtx(ctx)
	if !ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		return core.ErrRuntimeStopped
	}
	r.deliver(ctx, e)
	return nil
}

// Stop halts the run loop without draining the queue. Undelivered envelopes
// have their futures rejected with core.ErrRuntimeStopped; in-flight
// handlers observe context cancellation. Stop blocks until the loop and all
// mailboxes finish or ctx expires.
func (r *InProcessRuntime) Stop(ctx context.Context) error {
	r.stateMu.Lock()
	alreadyStopping := r.stopping
	r.stopping = true
	started := r.started
	r.stateMu.Unlock()

	if !alreadyStopping {
		for _, e := range r.queue.close() {
			r.rejectEnvelope(e, core.ErrRuntimeStopped)
		}
		r.baseCancel()

		// Setting mailboxesClosed under the same lock keeps the run loop from
		// creating a fresh mailbox after this sweep; an envelope it already
		// popped is then rejected instead of delivered past shutdown.
		r.mailboxMu.Lock()
		r.mailboxesClosed = true
		for _, mb := range r.mailboxes {
			for _, e := range mb.queue.close() {
				r.rejectEnvelope(e, core.ErrRuntimeStopped)
			}
		}
		r.mailboxMu.Unlock()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if started {
			<-r.loopDone
		}
		r.mailboxMu.Lock()
		mbs := make([]*mailbox, 0, len(r.mailboxes))
		for _, mb := range r.mailboxes {
			mbs = append(mbs, mb)
		}
		r.mailboxMu.Unlock()
		for _, mb := range mbs {
			<-mb.done
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// StopWhenIdle blocks until the ingress queue is drained and no delivery is
// in flight, then stops the runtime.
func (r *InProcessRuntime) StopWhenIdle(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		r.pendingMu.Lock()
		r.pendingCond.Broadcast()
		r.pendingMu.Unlock()
	})
	defer stop()

	r.pendingMu.Lock()
	for r.pending > 0 && ctx.Err() == nil {
		r.pendingCond.Wait()
	}
	idle := r.pending == 0
	r.pendingMu.Unlock()

	if !idle {
		return ctx.Err()
	}
	return r.Stop(ctx)
}

// AgentInstance returns the instantiated agent for id, constructing it via
// the registered factory if needed. Introspection hook for tests and
// instrumentation; see core.UnderlyingAgent for the type-checked variant.
func (r *InProcessRuntime) AgentInstance(id core.AgentID) (core.Agent, error) {
	return r.instance(id)
}

// instance implements the lazy arena: at most one agent per id, constructed
// on first use. Factories run while the arena lock is held, so they must
// not call back into AgentInstance.
func (r *InProcessRuntime) instance(id core.AgentID) (core.Agent, error) {
	r.instMu.Lock()
	defer r.instMu.Unlock()

	if a, ok := r.instances[id]; ok {
		return a, nil
	}

	r.mu.RLock()
	factory, ok := r.registry[id.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, &core.UndeliverableError{Recipient: id}
	}

	a, err := factory(r, id)
	if err != nil {
		return nil, fmt.Errorf("agent factory for type %q: %w", id.Type, err)
	}
	r.instances[id] = a
	return a, nil
}

// enqueue accounts the envelope as pending and pushes it onto the ingress
// queue, rejecting it immediately when the runtime is stopping.
func (r *InProcessRuntime) enqueue(e *envelope) {
	if e.messageID == "" {
		e.messageID = uuid.NewString()
	}
	r.incPending()
	if !r.queue.push(e) {
		r.rejectEnvelope(e, core.ErrRuntimeStopped)
	}
}

// deliver executes one envelope to completion: instantiate the recipient,
// invoke its handler, then resolve the RPC future (through the OnResponse
// chain) or signal the publish fanout.
func (r *InProcessRuntime) deliver(ctx context.Context, e *envelope) {
	defer r.decPending()

	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			r.completeDelivery(e, nil, core.ErrRuntimeStopped)
			return
		}
		defer r.sem.Release(1)
	}

	if e.token.IsCancelled() {
		r.completeDelivery(e, nil, core.ErrCancelled)
		return
	}

	agent, err := r.instance(e.recipient)
	if err != nil {
		r.completeDelivery(e, nil, err)
		return
	}

	// Tie the handler context to both the runtime lifetime and the token.
	// The registration is deregistered after delivery so a long-lived token
	// does not accumulate one closure per delivery.
	hctx, cancel := context.WithCancel(ctx)
	defer cancel()
	remove := e.token.OnCancelled(cancel)
	defer remove()

	msgCtx := &core.MessageContext{
		Sender:            e.sender,
		Topic:             e.topic,
		IsRPC:             e.isRPC,
		CancellationToken: e.token,
		MessageID:         e.messageID,
	}

	start := time.Now()
	result, err := agent.OnMessage(hctx, e.message, msgCtx)
	if r.events != nil {
		r.events.LogDelivery(e.recipient.String(), e.isRPC, time.Since(start), err)
	} else {
		r.logger.Debug("delivered message %s to %s rpc=%t in %s", e.messageID, e.recipient, e.isRPC, time.Since(start))
	}

	r.completeDelivery(e, result, err)
}

// completeDelivery feeds the handler outcome back to the caller. RPC
// responses pass through the intervention chain before resolving the
// future; broadcast outcomes signal the fanout, where errors are isolated
// per subscriber.
func (r *InProcessRuntime) completeDelivery(e *envelope, result any, err error) {
	if e.isRPC {
		if err != nil {
			e.future.Reject(err)
			return
		}
		resp := result
		for _, h := range r.interventions {
			m, herr := h.OnResponse(r.baseCtx, resp, e.recipient, e.sender)
			if herr != nil {
				e.future.Reject(fmt.Errorf("intervention on response from %s: %w", e.recipient, herr))
				return
			}
			if m == core.DropMessage {
				if r.events != nil {
					r.events.LogDropped("response", e.recipient.String())
				} else {
					r.logger.Info("response from %s dropped by intervention handler", e.recipient)
				}
				e.future.Reject(fmt.Errorf("response from %s: %w", e.recipient, core.ErrMessageDropped))
				return
			}
			resp = m
		}
		e.future.Resolve(resp)
		return
	}

	if err != nil {
		if errors.Is(err, core.ErrCantHandle) {
			// Soft no-op: unhandled broadcast messages are logged, never raised.
			r.logger.Debug("agent %s has no handler for broadcast message %s", e.recipient, e.messageID)
			e.fanout.done(nil)
			return
		}
		r.logger.Warn("broadcast delivery to %s failed: %v", e.recipient, err)
		e.fanout.done(err)
		return
	}
	e.fanout.done(nil)
}

// rejectEnvelope disposes of an envelope that will never be delivered.
func (r *InProcessRuntime) rejectEnvelope(e *envelope, err error) {
	if e.isRPC {
		e.future.Reject(err)
	} else {
		e.fanout.done(err)
	}
	r.decPending()
}

func (r *InProcessRuntime) incPending() {
	r.pendingMu.Lock()
	r.pending++
	r.pendingMu.Unlock()
}

func (r *InProcessRuntime) decPending() {
	r.pendingMu.Lock()
	r.pending--
	if r.pending == 0 {
		r.pendingCond.Broadcast()
	}
	r.pendingMu.Unlock()
}

func applyMessageOptions(optFns []func(o *core.MessageOptions)) core.MessageOptions {
	var opts core.MessageOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

func senderPtr(id core.AgentID) *core.AgentID {
	if id.IsZero() {
		return nil
	}
	s := id
	return &s
}
