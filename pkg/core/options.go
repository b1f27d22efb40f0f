// Package core provides the collaboration intelligence engine and its public
// API surface.
package core

import "time"

// Option is a function type for configuring an Engine at construction.
//
// Options are applied using the functional options pattern, allowing flexible
// configuration without requiring all parameters.
type Option func(*engineOptions)

// engineOptions contains construction-time options for an Engine.
type engineOptions struct {
	// clock supplies the engine's notion of "now".
	clock func() time.Time

	// faultHandler is invoked with every ingestion validation fault.
	faultHandler func(error)
}

// applyOptions builds engineOptions from the given option functions.
func applyOptions(opts []Option) *engineOptions {
	options := &engineOptions{clock: time.Now}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithClock overrides the engine clock.
//
// The clock feeds every "current hour" and rolling-window computation, which
// makes scoring replayable in tests and batch replays.
//
// Example:
//
//	engine, _ := core.NewEngine(cfg, core.WithClock(func() time.Time { return fixed }))
func WithClock(clock func() time.Time) Option {
	return func(opts *engineOptions) {
		if clock != nil {
			opts.clock = clock
		}
	}
}

// WithFaultHandler registers a callback invoked with every ingestion
// validation fault.
//
// Ingestion is fire-and-forget, so rejected records are reported through this
// hook (and the Faults counter) instead of a return value.
//
// Example:
//
//	engine, _ := core.NewEngine(cfg, core.WithFaultHandler(func(err error) {
//	    log.Printf("dropped record: %v", err)
//	}))
func WithFaultHandler(handler func(error)) Option {
	return func(opts *engineOptions) {
		opts.faultHandler = handler
	}
}
