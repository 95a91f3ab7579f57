// Package runtime implements the in-process scheduler core of AgentCore.
//
// InProcessRuntime owns the agent instance arena, the subscription table and
// the pending delivery queue. A single run loop drains the queue in FIFO
// order and routes each delivery to a per-recipient mailbox, which executes
// handlers serially per agent instance. This preserves the two ordering
// guarantees of the system: messages to the same recipient are delivered in
// enqueue order, and no agent ever runs two handlers concurrently. No
// ordering is guaranteed across different recipients.
//
// Messages pass through the intervention handler chain synchronously before
// they are queued; a handler may rewrite the message, drop it (rejecting the
// operation with core.ErrMessageDropped) or fault it. Broadcast fan-out is
// resolved against a snapshot of the subscription table taken when
// PublishMessage is called, so concurrent subscription changes never affect
// an in-flight publish.
//
// Per-instance serialization has one sharp edge: a handler that sends an RPC
// to its own agent id and awaits the result deadlocks its mailbox, since the
// nested delivery queues behind the handler waiting for it.
package runtime
