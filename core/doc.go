// Package core provides the foundational domain types, interfaces and
// contracts used by AgentCore. It defines the core abstractions for:
//
//   - Agent identity (AgentID) and broadcast channels (TopicID)
//   - Subscriptions mapping topics to agent ids for fan-out resolution
//   - Cooperative cancellation (CancellationToken) and RPC futures (Future)
//   - The Agent capability contract and the Runtime scheduling contract
//   - Intervention handlers (middleware around send/publish/response)
//   - The shared error taxonomy for delivery failures
//
// The package intentionally keeps implementation concerns (scheduling,
// mailboxes, concrete agents) out of scope, exposing small interfaces to
// enable custom implementations and extensions.
package core
