// Package look reconciles the arbiter's orientation target onto the shared
// actuator across the PRE and POST halves of a tick.
//
// # States
//
//	Idle            no target
//	PendingForced   applied at PRE directly (forced, or concealment disabled)
//	PendingSilent   concealed target waiting for PRE
//	AwaitingRevert  concealed yaw written at PRE, restored at POST
//
// The rotation-move hook can consume a pending target between PRE and POST.
//
// Not safe for concurrent use; the tick goroutine owns a LookSync.
package look

// Actuator is the explicit handle to the orientation being steered.
type Actuator interface {
	Yaw() float64
	Pitch() float64
	SetYaw(yaw float64)
	SetPitch(pitch float64)
}

// ActuatorProvider yields the actuator for the current tick. ok is false when
// there is nothing to steer (for example no active agent).
type ActuatorProvider interface {
	Actuator() (Actuator, bool)
}

// ProviderFunc adapts a function to ActuatorProvider.
type ProviderFunc func() (Actuator, bool)

func (f ProviderFunc) Actuator() (Actuator, bool) {
	return f()
}

// StaticProvider always yields the same actuator; a nil actuator means none.
func StaticProvider(a Actuator) ActuatorProvider {
	return ProviderFunc(func() (Actuator, bool) {
		return a, a != nil
	})
}
