package agent

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// HandlerFunc processes one delivery of a message the agent routed to it.
type HandlerFunc func(ctx context.Context, message any, msgCtx *core.MessageContext) (any, error)

// Predicate decides whether a handler accepts a delivery, evaluated against
// the message and its delivery context. The canonical use is routing the
// same message type differently for RPC and broadcast arrivals.
type Predicate func(message any, msgCtx *core.MessageContext) bool

type handlerEntry struct {
	predicate Predicate // nil accepts everything
	fn        HandlerFunc
}

// RoutedOptions configures a RoutedAgent.
type RoutedOptions struct {
	// Logger used for unhandled-message diagnostics. Defaults to NoOp.
	Logger logging.Logger

	// Unhandled replaces the default fallback invoked when no handler
	// matches a delivery.
	Unhandled HandlerFunc
}

// RoutedAgent dispatches incoming messages to handlers registered by
// message type, optionally narrowed by a predicate over the delivery
// context. Handlers for a type are tried in registration order; the first
// whose predicate accepts wins. When nothing matches, the fallback logs the
// condition and, for RPC deliveries only, fails with core.ErrCantHandle —
// unmatched broadcasts are a soft no-op.
//
// Register handlers at construction time with Handle and HandleMatch; the
// dispatch table is not safe for mutation once the agent receives messages.
type RoutedAgent struct {
	BaseAgent
	handlers  map[reflect.Type][]handlerEntry
	unhandled HandlerFunc
	logger    logging.Logger
}

var _ core.Agent = (*RoutedAgent)(nil)

// NewRoutedAgent constructs a RoutedAgent with an empty dispatch table.
func NewRoutedAgent(rt core.Runtime, id core.AgentID, optFns ...func(o *RoutedOptions)) *RoutedAgent {
	opts := RoutedOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &RoutedAgent{
		BaseAgent: NewBaseAgent(rt, id),
		handlers:  make(map[reflect.Type][]handlerEntry),
		logger:    opts.Logger,
	}
	if opts.Unhandled != nil {
		a.unhandled = opts.Unhandled
	} else {
		a.unhandled = a.defaultUnhandled
	}
	return a
}

// WithRoutedLogger sets the logger used for unhandled-message diagnostics.
func WithRoutedLogger(l logging.Logger) func(o *RoutedOptions) {
	return func(o *RoutedOptions) { o.Logger = l }
}

// WithUnhandled replaces the fallback for deliveries no handler matches.
func WithUnhandled(fn HandlerFunc) func(o *RoutedOptions) {
	return func(o *RoutedOptions) { o.Unhandled = fn }
}

// OnMessage implements core.Agent by routing the message's concrete type
// through the dispatch table.
func (a *RoutedAgent) OnMessage(ctx context.Context, message any, msgCtx *core.MessageContext) (any, error) {
	for _, entry := range a.handlers[reflect.TypeOf(message)] {
		if entry.predicate != nil && !entry.predicate(message, msgCtx) {
			continue
		}
		return entry.fn(ctx, message, msgCtx)
	}
	return a.unhandled(ctx, message, msgCtx)
}

// defaultUnhandled logs the condition and fails RPC deliveries with
// core.ErrCantHandle. Broadcast deliveries return nil so they stay a soft,
// logged no-op.
func (a *RoutedAgent) defaultUnhandled(_ context.Context, message any, msgCtx *core.MessageContext) (any, error) {
	a.logger.Debug("agent %s has no handler for %T (rpc=%t)", a.ID(), message, msgCtx.IsRPC)
	if msgCtx.IsRPC {
		return nil, fmt.Errorf("message type %T: %w", message, core.ErrCantHandle)
	}
	return nil, nil
}

// register appends a handler entry for the given message type.
func (a *RoutedAgent) register(t reflect.Type, predicate Predicate, fn HandlerFunc) {
	a.handlers[t] = append(a.handlers[t], handlerEntry{predicate: predicate, fn: fn})
}

// Handle registers fn for deliveries whose message has concrete type T.
// Handlers must be registered with the concrete type the message is sent
// as; interface types never match.
func Handle[T any](a *RoutedAgent, fn func(ctx context.Context, message T, msgCtx *core.MessageContext) (any, error)) {
	HandleMatch(a, nil, fn)
}

// HandleMatch registers fn for messages of concrete type T that also
// satisfy the predicate. Entries for the same type are tried in
// registration order; the first accepting entry wins. A nil predicate
// accepts every delivery of T.
func HandleMatch[T any](a *RoutedAgent, predicate func(message T, msgCtx *core.MessageContext) bool, fn func(ctx context.Context, message T, msgCtx *core.MessageContext) (any, error)) {
	var p Predicate
	if predicate != nil {
		p = func(message any, msgCtx *core.MessageContext) bool {
			return predicate(message.(T), msgCtx)
		}
	}
	a.register(reflect.TypeOf((*T)(nil)).Elem(), p, func(ctx context.Context, message any, msgCtx *core.MessageContext) (any, error) {
		return fn(ctx, message.(T), msgCtx)
	})
}
