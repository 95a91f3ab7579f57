package core

import (
	"fmt"
	"strings"
)

// AgentID addresses a single logical agent instance. Type names a registered
// agent kind; Key disambiguates instances of that kind (commonly a tenant,
// session or conversation identifier). AgentID is a pure value: it never
// points at a live instance, the runtime owns instances in an arena keyed by
// this id. Equality is structural, so AgentID is usable as a map key.
type AgentID struct {
	Type string
	Key  string
}

// NewAgentID constructs an AgentID after validating the type component.
func NewAgentID(agentType, key string) (AgentID, error) {
	if err := validateIdentifierType(agentType); err != nil {
		return AgentID{}, fmt.Errorf("invalid agent type %q: %w", agentType, err)
	}
	return AgentID{Type: agentType, Key: key}, nil
}

// String renders the id as "type/key".
func (id AgentID) String() string { return id.Type + "/" + id.Key }

// IsZero reports whether the id is the zero value (unaddressed).
func (id AgentID) IsZero() bool { return id.Type == "" && id.Key == "" }

// TopicID addresses a broadcast channel. Type names the channel kind; Source
// commonly carries the originating agent's key so fan-out can be scoped per
// conversation. Like AgentID it is an immutable value with structural
// equality.
type TopicID struct {
	Type   string
	Source string
}

// NewTopicID constructs a TopicID after validating the type component.
func NewTopicID(topicType, source string) (TopicID, error) {
	if err := validateIdentifierType(topicType); err != nil {
		return TopicID{}, fmt.Errorf("invalid topic type %q: %w", topicType, err)
	}
	return TopicID{Type: topicType, Source: source}, nil
}

// String renders the topic as "type/source".
func (t TopicID) String() string { return t.Type + "/" + t.Source }

// validateIdentifierType enforces the shared constraints on AgentID.Type and
// TopicID.Type: non-empty and free of the "/" rendering separator.
func validateIdentifierType(s string) error {
	if s == "" {
		return fmt.Errorf("must not be empty")
	}
	if strings.Contains(s, "/") {
		return fmt.Errorf("must not contain '/'")
	}
	return nil
}
