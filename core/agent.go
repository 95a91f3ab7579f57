package core

import "context"

// Agent is the capability contract implemented by user code. Agents receive
// messages through OnMessage, dispatched by the runtime's scheduler. The
// runtime serializes OnMessage calls per agent instance, so implementations
// need no internal locking for state touched only from handlers.
//
// For RPC deliveries the returned value resolves the caller's future; for
// broadcasts it is discarded. Returned errors reject the caller's future
// (RPC) or are logged per subscriber (broadcast).
type Agent interface {
	// ID returns the identity this instance was constructed for.
	ID() AgentID

	// OnMessage processes one delivery. ctx is cancelled when the delivery's
	// CancellationToken is cancelled or the runtime shuts down.
	OnMessage(ctx context.Context, message any, msgCtx *MessageContext) (any, error)
}

// AgentFactory constructs an agent instance for a concrete id. The runtime
// invokes it lazily on the first message addressed to that id and caches the
// instance for the runtime's lifetime. The runtime handle lets the new
// instance perform nested sends and publishes from inside its handlers.
type AgentFactory func(rt Runtime, id AgentID) (Agent, error)

// Runtime is the scheduling contract implemented by the in-process runtime.
// It owns the agent instance arena, the subscription table and the pending
// delivery queue; see the runtime package for the concrete implementation
// and its ordering guarantees.
type Runtime interface {
	// Register binds an agent type to a factory and optional default
	// subscriptions. Registering the same type twice is an error, as is any
	// structurally-duplicate subscription.
	Register(agentType string, factory AgentFactory, subscriptions ...Subscription) error

	// AddSubscription adds a subscription to the table. Adding a structural
	// duplicate of an existing rule fails with DuplicateSubscriptionError.
	AddSubscription(sub Subscription) error

	// RemoveSubscription removes a subscription by instance id. Removing an
	// unknown id is an error.
	RemoveSubscription(id string) error

	// SendMessage delivers a message point-to-point to exactly one agent and
	// returns a future resolved with the handler's return value. All
	// failures (intervention drop, no matching handler, cancellation,
	// handler error) surface as the future's rejection.
	SendMessage(message any, recipient AgentID, optFns ...func(o *MessageOptions)) *Future

	// PublishMessage delivers a message to every agent matched by the
	// subscription table as snapshotted at call time. The future resolves
	// with nil once every delivery completes; per-subscriber failures are
	// isolated and logged, never raised.
	PublishMessage(message any, topic TopicID, optFns ...func(o *MessageOptions)) *Future

	// Start launches the run loop. Messages may be enqueued before Start;
	// they are delivered once the loop runs.
	Start()

	// Stop halts the run loop without waiting for queued messages. Pending
	// RPC futures are rejected with ErrRuntimeStopped.
	Stop(ctx context.Context) error

	// StopWhenIdle blocks until the queue is drained and all in-flight
	// deliveries finish, then stops the run loop.
	StopWhenIdle(ctx context.Context) error

	// ProcessNext synchronously delivers exactly one pending message. It is
	// the manual-stepping alternative to Start for tests and embedders that
	// own their own loop.
	ProcessNext(ctx context.Context) error

	// AgentInstance returns the instantiated agent for id, constructing it
	// if the type is registered but the instance does not exist yet. Used
	// for testing and instrumentation.
	AgentInstance(id AgentID) (Agent, error)
}

// UnderlyingAgent fetches the instantiated agent for id and asserts its
// concrete type, failing if the instance is of a different type. It mirrors
// AgentInstance but saves callers the type assertion dance in tests.
func UnderlyingAgent[T Agent](rt Runtime, id AgentID) (T, error) {
	var zero T
	a, err := rt.AgentInstance(id)
	if err != nil {
		return zero, err
	}
	t, ok := a.(T)
	if !ok {
		return zero, &WrongAgentTypeError{ID: id, Actual: a}
	}
	return t, nil
}
