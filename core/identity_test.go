package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentID(t *testing.T) {
	id, err := NewAgentID("worker", "alice")
	require.NoError(t, err)
	assert.Equal(t, "worker", id.Type)
	assert.Equal(t, "alice", id.Key)
	assert.Equal(t, "worker/alice", id.String())
}

func TestNewAgentIDValidation(t *testing.T) {
	_, err := NewAgentID("", "alice")
	assert.Error(t, err)

	_, err = NewAgentID("wor/ker", "alice")
	assert.Error(t, err)
}

func TestAgentIDEquality(t *testing.T) {
	a := AgentID{Type: "worker", Key: "alice"}
	b := AgentID{Type: "worker", Key: "alice"}
	c := AgentID{Type: "worker", Key: "bob"}

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Structural equality makes AgentID usable as a map key.
	m := map[AgentID]int{a: 1}
	m[b]++
	assert.Equal(t, 2, m[a])
}

func TestAgentIDIsZero(t *testing.T) {
	assert.True(t, AgentID{}.IsZero())
	assert.False(t, AgentID{Type: "worker", Key: "alice"}.IsZero())
}

func TestNewTopicID(t *testing.T) {
	topic, err := NewTopicID("events", "session-1")
	require.NoError(t, err)
	assert.Equal(t, "events", topic.Type)
	assert.Equal(t, "session-1", topic.Source)
	assert.Equal(t, "events/session-1", topic.String())
}

func TestNewTopicIDValidation(t *testing.T) {
	_, err := NewTopicID("", "session-1")
	assert.Error(t, err)

	_, err = NewTopicID("ev/ents", "session-1")
	assert.Error(t, err)
}
