package look

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/comalice/arbiterx/internal/primitives"
)

// State is the synchronizer's position in the tick state machine.
type State int

const (
	StateIdle State = iota
	StatePendingForced
	StatePendingSilent
	StateAwaitingRevert
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingForced:
		return "pending_forced"
	case StatePendingSilent:
		return "pending_silent"
	case StateAwaitingRevert:
		return "awaiting_revert"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Write modes reported to the Recorder.
const (
	ModeDirect  = "direct"
	ModeConceal = "conceal"
	ModeRevert  = "revert"
	ModeHook    = "hook"
	ModeRide    = "ride"
)

// LookSync owns the rotation target and, during the write window, the
// externally visible actuator value.
type LookSync struct {
	settings Settings
	provider ActuatorProvider

	target    *primitives.Rotation
	force     bool
	lastYaw   float64
	reverting bool

	rand     Rand
	log      zerolog.Logger
	recorder Recorder
}

// New creates a LookSync steering the actuator yielded by provider.
func New(provider ActuatorProvider, settings Settings, opts ...Option) *LookSync {
	s := &LookSync{
		settings: settings,
		provider: provider,
		rand:     globalRand{},
		log:      zerolog.Nop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the active settings.
func (s *LookSync) Settings() Settings {
	return s.settings
}

// SetSettings replaces the settings; they apply from the next update.
func (s *LookSync) SetSettings(settings Settings) {
	s.settings = settings
}

// State reports the current state.
func (s *LookSync) State() State {
	switch {
	case s.reverting:
		return StateAwaitingRevert
	case s.target == nil:
		return StateIdle
	case s.direct():
		return StatePendingForced
	default:
		return StatePendingSilent
	}
}

// Target returns the pending target, if any.
func (s *LookSync) Target() (primitives.Rotation, bool) {
	if s.target == nil {
		return primitives.Rotation{}, false
	}
	return *s.target, true
}

// UpdateTarget is the only write entry point. Non-forced targets get a random
// yaw offset before storage; offsets that would be suspiciously small are
// amplified fourfold.
func (s *LookSync) UpdateTarget(target primitives.Rotation, force bool) {
	if !force {
		offset := s.rand.Float64() - 0.5
		if math.Abs(offset) < 0.1 {
			offset *= 4
		}
		target.Yaw += offset * s.settings.JitterMagnitude
	}
	s.target = &target
	s.force = force || s.settings.AlwaysForce
}

func (s *LookSync) direct() bool {
	return s.force || !s.settings.Conceal
}

func (s *LookSync) clear() {
	s.target = nil
	s.force = false
	s.reverting = false
}

// OnPlayerUpdate drives the PRE/POST transitions.
func (s *LookSync) OnPlayerUpdate(ev primitives.PlayerUpdateEvent) {
	if s.target == nil && !s.reverting {
		return
	}
	act, ok := s.provider.Actuator()
	if !ok {
		if ev.Phase == primitives.PhasePost && s.reverting {
			// Nothing left to revert onto.
			s.clear()
		}
		s.log.Debug().Uint64("tick", ev.Tick).Stringer("phase", ev.Phase).Msg("no actuator, skipping")
		return
	}

	switch ev.Phase {
	case primitives.PhasePre:
		if s.reverting {
			return
		}
		if s.direct() {
			s.applyDirect(act)
			s.clear()
			s.recorder.ActuatorWrite(ModeDirect)
			return
		}
		s.lastYaw = act.Yaw()
		act.SetYaw(s.target.Yaw)
		s.reverting = true
		s.recorder.ActuatorWrite(ModeConceal)
	case primitives.PhasePost:
		if !s.reverting {
			return
		}
		act.SetYaw(s.lastYaw)
		s.clear()
		s.recorder.ActuatorWrite(ModeRevert)
	}
}

func (s *LookSync) applyDirect(act Actuator) {
	oldPitch := act.Pitch()
	desiredPitch := s.target.Pitch
	act.SetYaw(s.target.Yaw + s.jitter())
	act.SetPitch(desiredPitch + s.jitter())
	if desiredPitch == oldPitch && !s.settings.Conceal {
		s.nudgeToLevel(act)
	}
}

func (s *LookSync) jitter() float64 {
	return (s.rand.Float64() - 0.5) * s.settings.JitterMagnitude
}

// nudgeToLevel drifts the pitch one degree per tick toward the neutral band.
func (s *LookSync) nudgeToLevel(act Actuator) {
	pitch := act.Pitch()
	switch {
	case pitch < s.settings.PitchMin:
		act.SetPitch(pitch + 1)
	case pitch > s.settings.PitchMax:
		act.SetPitch(pitch - 1)
	}
}

// OnRotationMove overrides the yaw of a movement computation with the pending
// target. Only a motion update consumes a target, and never while forced or
// concealing: those are finished at PRE/POST.
func (s *LookSync) OnRotationMove(ev *primitives.RotationMoveEvent) {
	if s.target == nil {
		return
	}
	ev.SetYaw(s.target.Yaw)
	s.recorder.ActuatorWrite(ModeHook)
	if !s.settings.Conceal && !s.force && ev.Type == primitives.MoveMotionUpdate {
		s.target = nil
		s.force = false
	}
}

// SyncRide copies the pending yaw onto a ridden mount so it turns with the
// rider.
func (s *LookSync) SyncRide(mount Actuator) {
	if s.target == nil || mount == nil {
		return
	}
	mount.SetYaw(s.target.Yaw)
	s.recorder.ActuatorWrite(ModeRide)
}
