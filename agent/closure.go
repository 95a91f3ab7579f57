package agent

import (
	"context"

	"github.com/hupe1980/agentcore/core"
)

// ClosureAgent wraps a single function as a core.Agent. It receives every
// message addressed to it regardless of type, making it the lightest way to
// stand up a subscriber in tests, examples and glue code.
type ClosureAgent struct {
	BaseAgent
	fn HandlerFunc
}

var _ core.Agent = (*ClosureAgent)(nil)

// NewClosureAgent constructs a ClosureAgent around fn.
func NewClosureAgent(rt core.Runtime, id core.AgentID, fn HandlerFunc) *ClosureAgent {
	return &ClosureAgent{BaseAgent: NewBaseAgent(rt, id), fn: fn}
}

// OnMessage implements core.Agent by delegating to the wrapped function.
func (a *ClosureAgent) OnMessage(ctx context.Context, message any, msgCtx *core.MessageContext) (any, error) {
	return a.fn(ctx, message, msgCtx)
}
