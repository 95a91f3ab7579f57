// Package agentcore provides a high-level façade over the in-process agent
// message runtime. Most applications interact with this package by:
//  1. Creating a runtime via New() (optionally configuring logging,
//     intervention handlers and delivery concurrency)
//  2. Registering one or more agent types with factories and subscriptions
//  3. Exchanging messages via SendMessage (RPC) and PublishMessage
//     (topic broadcast)
//
// The façade delegates scheduling to runtime.InProcessRuntime while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a structured logger.
package agentcore

import (
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/runtime"
)

// Options configures the runtime created by New.
type Options struct {
	// Logger receives runtime diagnostics (defaults to NoOp logger if nil).
	Logger logging.Logger

	// InterventionHandlers form the middleware chain applied to every
	// send, publish and RPC response, in slice order.
	InterventionHandlers []core.InterventionHandler

	// MaxConcurrentDeliveries caps concurrent handler invocations.
	// Zero means unlimited.
	MaxConcurrentDeliveries int64
}

// New creates a started InProcessRuntime with optional overrides. The
// returned runtime is ready for registration and message exchange; callers
// own its lifecycle and should stop it via Stop or StopWhenIdle.
func New(optFns ...func(o *Options)) core.Runtime {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	rt := runtime.New(func(o *runtime.Options) {
		o.Logger = opts.Logger
		o.InterventionHandlers = opts.InterventionHandlers
		o.MaxConcurrentDeliveries = opts.MaxConcurrentDeliveries
	})
	rt.Start()
	return rt
}
