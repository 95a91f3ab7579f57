// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug
// any structured logger. It also offers a richer RuntimeLogger with
// contextual helpers (component, message id) and domain specific logging
// helpers for deliveries, publishes and dropped messages.
//
// The runtime defaults to NoOpLogger so embedding the message core never
// forces a logging dependency on the host application.
package logging
