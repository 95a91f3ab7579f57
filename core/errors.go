package core

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced through RPC futures and registration calls.
// Callers should test with errors.Is since the runtime wraps these with
// delivery context.
var (
	// ErrCantHandle indicates no registered handler matched an RPC message's
	// runtime type (or all matching handlers' predicates rejected it). Fatal
	// to that RPC; broadcasts hitting the same condition are logged instead.
	ErrCantHandle = errors.New("agent cannot handle message type")

	// ErrMessageDropped indicates an intervention handler returned the
	// DropMessage sentinel. The target agent was never invoked.
	ErrMessageDropped = errors.New("message dropped by intervention handler")

	// ErrCancelled indicates a linked CancellationToken was cancelled before
	// the operation completed.
	ErrCancelled = errors.New("operation cancelled")

	// ErrRuntimeStopped indicates an operation was attempted against a
	// runtime that is no longer accepting messages.
	ErrRuntimeStopped = errors.New("runtime stopped")
)

// DuplicateSubscriptionError reports an attempt to add a subscription whose
// rule is structurally identical to one already in the table. Duplicate
// registration is a construction error, never a silent no-op.
type DuplicateSubscriptionError struct {
	Rule string
}

func (e *DuplicateSubscriptionError) Error() string {
	return fmt.Sprintf("subscription already exists: %s", e.Rule)
}

// UndeliverableError reports a message addressed to an agent type that was
// never registered with the runtime.
type UndeliverableError struct {
	Recipient AgentID
}

func (e *UndeliverableError) Error() string {
	return fmt.Sprintf("no agent type registered for recipient %s", e.Recipient)
}

// WrongAgentTypeError reports that an instantiated agent's concrete type did
// not match the type expected by an introspection call.
type WrongAgentTypeError struct {
	ID     AgentID
	Actual Agent
}

func (e *WrongAgentTypeError) Error() string {
	return fmt.Sprintf("agent %s has unexpected concrete type %T", e.ID, e.Actual)
}
