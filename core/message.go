package core

// MessageContext carries the delivery metadata handed to an agent alongside
// each message. It tells the handler who sent the message, whether it
// arrived point-to-point (RPC) or via a topic broadcast, and which
// cancellation token governs the call chain. Handlers performing nested
// sends should forward CancellationToken so cancellation stays transitive.
type MessageContext struct {
	// Sender identifies the agent that sent the message, nil when the
	// message originated outside the runtime (application code).
	Sender *AgentID

	// Topic is set for broadcast deliveries and nil for RPC.
	Topic *TopicID

	// IsRPC is true for SendMessage deliveries (a response is expected) and
	// false for PublishMessage deliveries.
	IsRPC bool

	// CancellationToken governs this delivery and its causal descendants.
	// Never nil: the runtime substitutes a fresh token when the caller did
	// not supply one.
	CancellationToken *CancellationToken

	// MessageID uniquely identifies this send/publish operation for
	// correlation in logs.
	MessageID string
}

// MessageOptions configures a SendMessage or PublishMessage call.
type MessageOptions struct {
	// Sender attributes the message to an agent. Leave zero for messages
	// originating from application code.
	Sender AgentID

	// CancellationToken links the operation to an existing cancellation
	// scope. A fresh token is created when nil.
	CancellationToken *CancellationToken

	// MessageID overrides the generated correlation id.
	MessageID string
}

// WithSender attributes the message to the given agent id.
func WithSender(id AgentID) func(o *MessageOptions) {
	return func(o *MessageOptions) { o.Sender = id }
}

// WithCancellation links the operation to the given token.
func WithCancellation(t *CancellationToken) func(o *MessageOptions) {
	return func(o *MessageOptions) { o.CancellationToken = t }
}

// WithMessageID sets an explicit correlation id.
func WithMessageID(id string) func(o *MessageOptions) {
	return func(o *MessageOptions) { o.MessageID = id }
}
