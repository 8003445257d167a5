package realtime

import "github.com/comalice/arbiterx/internal/primitives"

// Listener receives the per-tick notifications.
type Listener interface {
	OnTick(ev primitives.TickEvent) error
	OnPlayerUpdate(ev primitives.PlayerUpdateEvent)
	OnRotationMove(ev *primitives.RotationMoveEvent)
}

// BaseListener implements Listener with no-ops. Embed it to handle only the
// notifications you care about.
type BaseListener struct{}

func (BaseListener) OnTick(primitives.TickEvent) error            { return nil }
func (BaseListener) OnPlayerUpdate(primitives.PlayerUpdateEvent)  {}
func (BaseListener) OnRotationMove(*primitives.RotationMoveEvent) {}

// Status is what the simulation reports at the start of a tick.
type Status struct {
	CalcFailed   bool
	SafeToCancel bool
}

// Simulation is the external world the runtime steps.
type Simulation interface {
	// Status reports the path-planning state for the upcoming tick.
	Status() Status
	// Advance runs the world's movement for tick. The world calls hook for
	// every rotation-dependent movement computation it performs.
	Advance(tick uint64, hook func(*primitives.RotationMoveEvent))
}
