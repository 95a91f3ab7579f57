// Package agent provides the default core.Agent implementations.
//
// BaseAgent bundles identity and the runtime handle for embedding in
// concrete agents. RoutedAgent adds a dispatch table mapping message types
// (plus optional predicates over the delivery context) to handler
// functions, replacing reflection-heavy dispatch with explicit registration
// at construction time. ClosureAgent wraps a plain function as an Agent and
// is the quickest way to stand up subscribers in tests and examples.
package agent
