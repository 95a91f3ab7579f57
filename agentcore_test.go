package agentcore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore"
	"github.com/hupe1980/agentcore/agent"
	"github.com/hupe1980/agentcore/core"
)

func TestFacadeRoundTrip(t *testing.T) {
	rt := agentcore.New()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Stop(ctx)
	})

	require.NoError(t, rt.Register("echo", func(r core.Runtime, id core.AgentID) (core.Agent, error) {
		return agent.NewClosureAgent(r, id, func(_ context.Context, message any, _ *core.MessageContext) (any, error) {
			return message, nil
		}), nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	value, err := rt.SendMessage("hello", core.AgentID{Type: "echo", Key: "e1"}).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}
