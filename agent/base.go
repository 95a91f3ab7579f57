package agent

import (
	"fmt"

	"github.com/hupe1980/agentcore/core"
)

// BaseAgent bundles the identity and runtime handle shared by all concrete
// agents. Embed it and implement OnMessage to satisfy core.Agent. The
// runtime serializes deliveries per instance, so embedded state mutated
// only from handlers needs no locking.
type BaseAgent struct {
	id          core.AgentID
	runtime     core.Runtime
	description string
}

// NewBaseAgent constructs a BaseAgent bound to the given runtime and id.
// Factories typically call this with the arguments they receive.
func NewBaseAgent(rt core.Runtime, id core.AgentID) BaseAgent {
	return BaseAgent{
		id:          id,
		runtime:     rt,
		description: fmt.Sprintf("Agent %s", id),
	}
}

// ID returns the identity this instance was constructed for.
func (b *BaseAgent) ID() core.AgentID { return b.id }

// Runtime returns the owning runtime, used for nested sends and publishes
// from inside handlers.
func (b *BaseAgent) Runtime() core.Runtime { return b.runtime }

// Description returns a human readable description of the agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// Send is a convenience wrapper performing a nested send attributed to this
// agent. The token should be the one from the current delivery's
// MessageContext so cancellation stays transitive along the call chain.
func (b *BaseAgent) Send(message any, recipient core.AgentID, token *core.CancellationToken) *core.Future {
	return b.runtime.SendMessage(message, recipient,
		core.WithSender(b.id),
		core.WithCancellation(token),
	)
}

// Publish is a convenience wrapper publishing a broadcast attributed to
// this agent.
func (b *BaseAgent) Publish(message any, topic core.TopicID, token *core.CancellationToken) *core.Future {
	return b.runtime.PublishMessage(message, topic,
		core.WithSender(b.id),
		core.WithCancellation(token),
	)
}
