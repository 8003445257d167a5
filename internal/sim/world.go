// Package sim is a small deterministic world used by the CLI and tests. It
// stands in for the game client: it owns the player orientation, reports
// planner status, runs the movement computations that consult the rotation
// hook, and records what an outside observer would have seen.
package sim

import (
	"math"

	"github.com/comalice/arbiterx/internal/look"
	"github.com/comalice/arbiterx/internal/primitives"
	"github.com/comalice/arbiterx/realtime"
)

// Player is the orientation the look synchronizer writes to.
type Player struct {
	yaw, pitch float64
}

func (p *Player) Yaw() float64           { return p.yaw }
func (p *Player) Pitch() float64         { return p.pitch }
func (p *Player) SetYaw(yaw float64)     { p.yaw = yaw }
func (p *Player) SetPitch(pitch float64) { p.pitch = pitch }

// Window is an inclusive tick range.
type Window struct {
	From, To uint64
}

func (w Window) contains(tick uint64) bool {
	return tick >= w.From && tick <= w.To
}

// Position is the player's horizontal position.
type Position struct {
	X, Z float64
}

// Observation is one tick as seen from outside. Sent is the yaw the movement
// computation used; Visible is the orientation left on the player after POST.
type Observation struct {
	Tick    uint64
	Sent    float64
	Visible primitives.Rotation
}

// World implements realtime.Simulation, look.ActuatorProvider and, to record
// observations, realtime.Listener. Register it with the dispatcher after the
// look synchronizer.
type World struct {
	realtime.BaseListener

	player   *Player
	attached bool
	pos      Position
	speed    float64

	unsafe     []Window
	calcFailed map[uint64]bool
	jumpEvery  uint64

	tick     uint64
	sent     float64
	observed []Observation
}

// Option configures a World.
type Option func(*World)

// WithOrientation sets the starting orientation.
func WithOrientation(yaw, pitch float64) Option {
	return func(w *World) { w.player.yaw, w.player.pitch = yaw, pitch }
}

// WithUnsafeWindow reports SafeToCancel false for ticks in [from, to].
func WithUnsafeWindow(from, to uint64) Option {
	return func(w *World) { w.unsafe = append(w.unsafe, Window{From: from, To: to}) }
}

// WithCalcFailures reports CalcFailed on the given ticks.
func WithCalcFailures(ticks ...uint64) Option {
	return func(w *World) {
		for _, t := range ticks {
			w.calcFailed[t] = true
		}
	}
}

// WithJumpEvery issues a jump computation every n ticks. Zero disables jumps.
func WithJumpEvery(n uint64) Option {
	return func(w *World) { w.jumpEvery = n }
}

// WithSpeed sets the distance moved per tick.
func WithSpeed(v float64) Option {
	return func(w *World) { w.speed = v }
}

// NewWorld creates a World with an attached player at the origin.
func NewWorld(opts ...Option) *World {
	w := &World{
		player:     &Player{},
		attached:   true,
		speed:      0.2,
		calcFailed: make(map[uint64]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Actuator returns the player until Detach is called.
func (w *World) Actuator() (look.Actuator, bool) {
	if !w.attached {
		return nil, false
	}
	return w.player, true
}

// Detach simulates the player leaving the world.
func (w *World) Detach() { w.attached = false }

// Attach brings the player back.
func (w *World) Attach() { w.attached = true }

// Player returns the player's current orientation.
func (w *World) Player() primitives.Rotation {
	return primitives.NewRotation(w.player.yaw, w.player.pitch)
}

// Position returns the player's position.
func (w *World) Position() Position {
	return w.pos
}

// Status reports the planner state for the tick about to begin.
func (w *World) Status() realtime.Status {
	next := w.tick + 1
	st := realtime.Status{SafeToCancel: true, CalcFailed: w.calcFailed[next]}
	for _, win := range w.unsafe {
		if win.contains(next) {
			st.SafeToCancel = false
			break
		}
	}
	return st
}

// Advance runs the tick's movement. Every rotation-dependent computation
// starts from the player's yaw and passes through hook.
func (w *World) Advance(tick uint64, hook func(*primitives.RotationMoveEvent)) {
	w.tick = tick
	if w.jumpEvery > 0 && tick%w.jumpEvery == 0 {
		hook(primitives.NewRotationMoveEvent(tick, primitives.MoveJump, w.player.yaw, w.player.pitch))
	}
	ev := primitives.NewRotationMoveEvent(tick, primitives.MoveMotionUpdate, w.player.yaw, w.player.pitch)
	hook(ev)
	w.sent = ev.Yaw

	rad := ev.Yaw * math.Pi / 180
	w.pos.X -= math.Sin(rad) * w.speed
	w.pos.Z += math.Cos(rad) * w.speed
}

// OnPlayerUpdate records the observation at POST.
func (w *World) OnPlayerUpdate(ev primitives.PlayerUpdateEvent) {
	if ev.Phase != primitives.PhasePost {
		return
	}
	w.observed = append(w.observed, Observation{
		Tick:    ev.Tick,
		Sent:    w.sent,
		Visible: w.Player(),
	})
}

// Observations returns everything recorded so far.
func (w *World) Observations() []Observation {
	return append([]Observation(nil), w.observed...)
}

var (
	_ realtime.Simulation   = (*World)(nil)
	_ realtime.Listener     = (*World)(nil)
	_ look.ActuatorProvider = (*World)(nil)
)
