package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Subscription = (*TypeSubscription)(nil)
	_ Subscription = (*TypePrefixSubscription)(nil)
)

func TestTypeSubscriptionMatch(t *testing.T) {
	sub := NewTypeSubscription("events", "worker")

	assert.True(t, sub.Match(TopicID{Type: "events", Source: "s1"}))
	assert.False(t, sub.Match(TopicID{Type: "other", Source: "s1"}))
	assert.False(t, sub.Match(TopicID{Type: "events.created", Source: "s1"}))
}

func TestTypeSubscriptionMapToAgent(t *testing.T) {
	sub := NewTypeSubscription("events", "worker")

	id, err := sub.MapToAgent(TopicID{Type: "events", Source: "session-1"})
	require.NoError(t, err)
	assert.Equal(t, AgentID{Type: "worker", Key: "session-1"}, id)

	_, err = sub.MapToAgent(TopicID{Type: "other", Source: "session-1"})
	assert.Error(t, err)
}

func TestTypeSubscriptionIdentity(t *testing.T) {
	a := NewTypeSubscription("events", "worker")
	b := NewTypeSubscription("events", "worker")

	// Same structural rule, distinct instance ids.
	assert.Equal(t, a.Rule(), b.Rule())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEmpty(t, a.ID())
}

func TestTypePrefixSubscription(t *testing.T) {
	sub := NewTypePrefixSubscription("orders.", "fulfillment")

	assert.True(t, sub.Match(TopicID{Type: "orders.created", Source: "s1"}))
	assert.True(t, sub.Match(TopicID{Type: "orders.cancelled", Source: "s1"}))
	assert.False(t, sub.Match(TopicID{Type: "payments.created", Source: "s1"}))

	id, err := sub.MapToAgent(TopicID{Type: "orders.created", Source: "shop-7"})
	require.NoError(t, err)
	assert.Equal(t, AgentID{Type: "fulfillment", Key: "shop-7"}, id)
}

func TestDefaultSubscription(t *testing.T) {
	sub := NewDefaultSubscription("worker")

	topic := DefaultTopic("session-1")
	assert.Equal(t, DefaultTopicType, topic.Type)
	assert.True(t, sub.Match(topic))

	id, err := sub.MapToAgent(topic)
	require.NoError(t, err)
	assert.Equal(t, AgentID{Type: "worker", Key: "session-1"}, id)
}
