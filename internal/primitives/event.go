// Event types delivered by the external simulation once per tick.
//
// TickEvent and PlayerUpdateEvent are values and must not be mutated after
// construction. RotationMoveEvent is passed by pointer because listeners are
// allowed to rewrite the yaw the simulation is about to apply.
package primitives

import "fmt"

// Phase is the half of a tick a player update belongs to.
type Phase int

const (
	PhasePre Phase = iota
	PhasePost
)

func (p Phase) String() string {
	switch p {
	case PhasePre:
		return "pre"
	case PhasePost:
		return "post"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// TickEvent starts a tick. CalcFailed and SafeToCancel are supplied by the
// simulation each tick.
type TickEvent struct {
	Tick         uint64
	CalcFailed   bool
	SafeToCancel bool
}

// NewTickEvent creates a TickEvent.
func NewTickEvent(tick uint64, calcFailed, safeToCancel bool) TickEvent {
	return TickEvent{Tick: tick, CalcFailed: calcFailed, SafeToCancel: safeToCancel}
}

// PlayerUpdateEvent marks the PRE or POST half of a tick.
type PlayerUpdateEvent struct {
	Tick  uint64
	Phase Phase
}

// MoveType identifies which orientation-adjustment point fired the hook.
type MoveType int

const (
	// MoveMotionUpdate fires when the simulation applies movement input.
	MoveMotionUpdate MoveType = iota
	// MoveJump fires when the simulation computes a jump impulse.
	MoveJump
)

func (m MoveType) String() string {
	switch m {
	case MoveMotionUpdate:
		return "motion_update"
	case MoveJump:
		return "jump"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// RotationMoveEvent carries the orientation the simulation is about to use
// for a movement computation. Listeners may override the yaw.
type RotationMoveEvent struct {
	Tick  uint64
	Type  MoveType
	Yaw   float64
	Pitch float64
}

// NewRotationMoveEvent creates a RotationMoveEvent.
func NewRotationMoveEvent(tick uint64, typ MoveType, yaw, pitch float64) *RotationMoveEvent {
	return &RotationMoveEvent{Tick: tick, Type: typ, Yaw: yaw, Pitch: pitch}
}

// SetYaw overrides the yaw used for this movement computation.
func (e *RotationMoveEvent) SetYaw(yaw float64) {
	e.Yaw = yaw
}
