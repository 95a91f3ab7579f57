// Package model defines the completion-client contract agents consume
// inside their handlers, together with adapters for concrete providers.
// The message runtime itself has no knowledge of models; it only requires
// implementations to respect the context handed to Generate, which the
// runtime cancels when the delivery's cancellation token is cancelled.
package model
