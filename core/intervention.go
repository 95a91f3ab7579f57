package core

import "context"

// DropMessage is the sentinel an intervention handler returns in place of a
// message to drop the operation. The runtime rejects the caller's future
// with ErrMessageDropped and never invokes the target agent.
var DropMessage any = dropMessage{}

type dropMessage struct{}

// InterventionHandler is middleware invoked around every send, publish and
// RPC response. Handlers run synchronously in registration order before the
// message is queued; the first handler to drop or return an error
// short-circuits the rest of the chain and the operation never reaches the
// target agent.
//
// Each hook returns the (possibly rewritten) message to continue with,
// DropMessage to drop the operation, or an error to fault it.
type InterventionHandler interface {
	// OnSend runs before an RPC is enqueued.
	OnSend(ctx context.Context, message any, sender *AgentID, recipient AgentID) (any, error)

	// OnPublish runs before a broadcast is fanned out.
	OnPublish(ctx context.Context, message any, sender *AgentID, topic TopicID) (any, error)

	// OnResponse runs on the return path of an RPC, before the caller's
	// future is resolved. sender is the agent that produced the response;
	// recipient is the original caller (nil for application code).
	OnResponse(ctx context.Context, response any, sender AgentID, recipient *AgentID) (any, error)
}

// DefaultInterventionHandler is a pass-through InterventionHandler meant for
// embedding: override only the hooks you need.
type DefaultInterventionHandler struct{}

// OnSend returns the message unchanged.
func (DefaultInterventionHandler) OnSend(_ context.Context, message any, _ *AgentID, _ AgentID) (any, error) {
	return message, nil
}

// OnPublish returns the message unchanged.
func (DefaultInterventionHandler) OnPublish(_ context.Context, message any, _ *AgentID, _ TopicID) (any, error) {
	return message, nil
}

// OnResponse returns the response unchanged.
func (DefaultInterventionHandler) OnResponse(_ context.Context, response any, _ AgentID, _ *AgentID) (any, error) {
	return response, nil
}
