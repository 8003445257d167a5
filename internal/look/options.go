package look

import "github.com/rs/zerolog"

// Recorder receives actuator write metrics.
type Recorder interface {
	ActuatorWrite(mode string)
}

type nopRecorder struct{}

func (nopRecorder) ActuatorWrite(mode string) {}

// Option applies configuration to a LookSync.
type Option func(*LookSync)

// WithLogger configures the LookSync's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *LookSync) {
		s.log = l.With().Str("component", "look").Logger()
	}
}

// WithRand replaces the jitter source.
func WithRand(r Rand) Option {
	return func(s *LookSync) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithRecorder configures the metrics Recorder.
func WithRecorder(r Recorder) Option {
	return func(s *LookSync) {
		if r != nil {
			s.recorder = r
		}
	}
}
