// Package builder constructs function-backed processes for the arbiter.
//
//	wander := builder.New("wander",
//		builder.Decide(func(calcFailed, safe bool) (primitives.Command, error) {
//			return primitives.SetTarget(next(), false), nil
//		}),
//		builder.Priority(core.DefaultPriority),
//	)
//	arbiter.MustRegister(wander)
package builder

import (
	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/primitives"
)

// DecideFunc computes a process's command for one tick.
type DecideFunc func(calcFailed, safeToCancel bool) (primitives.Command, error)

// Process is a core.Process assembled from functions.
type Process struct {
	name        string
	priority    float64
	temporary   bool
	active      bool
	activeFn    func() bool
	decide      DecideFunc
	onLost      func()
	deactOnLost bool
}

// Option configures a Process.
type Option func(*Process)

// New creates an active process named name. Without a Decide option the
// process issues CommandNone.
func New(name string, opts ...Option) *Process {
	p := &Process{
		name:     name,
		priority: core.DefaultPriority,
		active:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Priority sets the ranking priority. Higher wins.
func Priority(v float64) Option {
	return func(p *Process) { p.priority = v }
}

// Temporary marks the process as removed after it wins once.
func Temporary() Option {
	return func(p *Process) { p.temporary = true }
}

// ActiveWhen replaces the active flag with a predicate.
func ActiveWhen(fn func() bool) Option {
	return func(p *Process) { p.activeFn = fn }
}

// Decide sets the decision function.
func Decide(fn DecideFunc) Option {
	return func(p *Process) { p.decide = fn }
}

// Target makes the process always request r.
func Target(r primitives.Rotation, force bool) Option {
	return Decide(func(bool, bool) (primitives.Command, error) {
		return primitives.SetTarget(r, force), nil
	})
}

// OnLostControl sets the callback run when another process takes over.
func OnLostControl(fn func()) Option {
	return func(p *Process) { p.onLost = fn }
}

// DeactivateOnLoss makes losing control clear the active flag.
func DeactivateOnLoss() Option {
	return func(p *Process) { p.deactOnLost = true }
}

func (p *Process) Name() string      { return p.name }
func (p *Process) IsTemporary() bool { return p.temporary }
func (p *Process) Priority() float64 { return p.priority }

func (p *Process) IsActive() bool {
	if p.activeFn != nil {
		return p.activeFn()
	}
	return p.active
}

// SetActive toggles the flag used when no ActiveWhen predicate is set.
func (p *Process) SetActive(active bool) {
	p.active = active
}

func (p *Process) Decide(calcFailed, safeToCancel bool) (primitives.Command, error) {
	if p.decide == nil {
		return primitives.NoCommand(), nil
	}
	return p.decide(calcFailed, safeToCancel)
}

func (p *Process) OnLostControl() {
	if p.deactOnLost {
		p.active = false
	}
	if p.onLost != nil {
		p.onLost()
	}
}

var _ core.Process = (*Process)(nil)
