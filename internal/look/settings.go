package look

import (
	"math/rand/v2"
)

// Settings are the externally configured look policies.
type Settings struct {
	// Conceal hides non-forced yaw writes from the observer by reverting
	// them at POST.
	Conceal bool
	// JitterMagnitude scales the random perturbation added to targets.
	JitterMagnitude float64
	// AlwaysForce treats every update as forced.
	AlwaysForce bool
	// PitchMin and PitchMax bound the neutral band the pitch drifts toward.
	PitchMin float64
	PitchMax float64
}

// DefaultSettings returns concealment off, no jitter and a -20..10 band.
func DefaultSettings() Settings {
	return Settings{
		PitchMin: -20,
		PitchMax: 10,
	}
}

// Rand is the random source used for jitter. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewSeededRand returns a deterministic source for reproducible runs.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64()
}
