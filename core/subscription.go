package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Subscription is a rule mapping topics to agent ids, used by the runtime to
// resolve broadcast fan-out. Implementations must be immutable value objects:
// Match and MapToAgent may be called concurrently and must be deterministic.
//
// ID uniquely identifies this subscription instance for later removal.
// Rule returns a canonical rendering of the matching rule; two subscriptions
// with equal Rule strings are structural duplicates and the runtime rejects
// adding both.
type Subscription interface {
	ID() string
	Rule() string
	Match(topic TopicID) bool
	MapToAgent(topic TopicID) (AgentID, error)
}

// TypeSubscription matches topics whose Type equals an exact topic type and
// maps each matched topic to AgentID{agentType, topic.Source}. This is the
// workhorse rule: one subscription fans a topic type out to one agent
// instance per topic source.
type TypeSubscription struct {
	id        string
	topicType string
	agentType string
}

// NewTypeSubscription creates a TypeSubscription with a fresh unique id.
func NewTypeSubscription(topicType, agentType string) *TypeSubscription {
	return &TypeSubscription{
		id:        uuid.NewString(),
		topicType: topicType,
		agentType: agentType,
	}
}

// ID returns the unique instance id used for removal.
func (s *TypeSubscription) ID() string { return s.id }

// Rule returns the canonical structural identity of this subscription.
func (s *TypeSubscription) Rule() string {
	return fmt.Sprintf("type:%s->%s", s.topicType, s.agentType)
}

// Match reports whether the topic's type equals the subscribed type.
func (s *TypeSubscription) Match(topic TopicID) bool { return topic.Type == s.topicType }

// MapToAgent maps a matched topic to the subscribed agent type, keyed by the
// topic source.
func (s *TypeSubscription) MapToAgent(topic TopicID) (AgentID, error) {
	if !s.Match(topic) {
		return AgentID{}, fmt.Errorf("topic %s does not match subscription %s", topic, s.Rule())
	}
	return AgentID{Type: s.agentType, Key: topic.Source}, nil
}

// TypePrefixSubscription matches every topic whose Type starts with a fixed
// prefix, mapping to AgentID{agentType, topic.Source} like TypeSubscription.
// Useful for hierarchical topic schemes ("orders.", "orders.created", ...).
type TypePrefixSubscription struct {
	id          string
	topicPrefix string
	agentType   string
}

// NewTypePrefixSubscription creates a TypePrefixSubscription with a fresh
// unique id.
func NewTypePrefixSubscription(topicPrefix, agentType string) *TypePrefixSubscription {
	return &TypePrefixSubscription{
		id:          uuid.NewString(),
		topicPrefix: topicPrefix,
		agentType:   agentType,
	}
}

// ID returns the unique instance id used for removal.
func (s *TypePrefixSubscription) ID() string { return s.id }

// Rule returns the canonical structural identity of this subscription.
func (s *TypePrefixSubscription) Rule() string {
	return fmt.Sprintf("prefix:%s->%s", s.topicPrefix, s.agentType)
}

// Match reports whether the topic's type starts with the subscribed prefix.
func (s *TypePrefixSubscription) Match(topic TopicID) bool {
	return strings.HasPrefix(topic.Type, s.topicPrefix)
}

// MapToAgent maps a matched topic to the subscribed agent type, keyed by the
// topic source.
func (s *TypePrefixSubscription) MapToAgent(topic TopicID) (AgentID, error) {
	if !s.Match(topic) {
		return AgentID{}, fmt.Errorf("topic %s does not match subscription %s", topic, s.Rule())
	}
	return AgentID{Type: s.agentType, Key: topic.Source}, nil
}

// DefaultTopicType is the topic type used by DefaultSubscription and
// DefaultTopic. It provides a conventional catch-all channel for applications
// that do not need a custom topic scheme.
const DefaultTopicType = "default"

// NewDefaultSubscription subscribes an agent type to the well-known default
// topic type.
func NewDefaultSubscription(agentType string) *TypeSubscription {
	return NewTypeSubscription(DefaultTopicType, agentType)
}

// DefaultTopic returns the default topic for a given source.
func DefaultTopic(source string) TopicID {
	return TopicID{Type: DefaultTopicType, Source: source}
}
