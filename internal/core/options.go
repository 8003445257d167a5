// Options for configuring Arbiter instances.
package core

import "github.com/rs/zerolog"

// Option applies configuration to an Arbiter via the functional options pattern.
type Option func(*Arbiter)

// WithID sets the arbiter ID used in snapshots and control events.
func WithID(id string) Option {
	return func(a *Arbiter) {
		a.id = id
	}
}

// WithLogger configures the Arbiter's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Arbiter) {
		a.log = l.With().Str("component", "arbiter").Logger()
	}
}

// WithRecorder configures the metrics Recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Arbiter) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithPublisher configures the Publisher notified on control transfers.
func WithPublisher(p Publisher) Option {
	return func(a *Arbiter) {
		a.publisher = p
	}
}

// WithPauseState shares an externally owned pause flag with the Arbiter.
func WithPauseState(s *PauseState) Option {
	return func(a *Arbiter) {
		if s != nil {
			a.pause = s
		}
	}
}
