package realtime

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/comalice/arbiterx/internal/primitives"
)

// ErrTickSequence is returned for a notification that does not fit the
// current tick: skipped or repeated ticks, a move outside PRE/POST, or a POST
// for a tick that was never begun. Nothing is delivered in that case.
var ErrTickSequence = errors.New("realtime: notification out of tick sequence")

// ErrListenerPanic wraps a panic recovered from a single listener.
var ErrListenerPanic = errors.New("realtime: listener panicked")

// Dispatcher fans tick notifications out to listeners in registration order.
// The arbiter-side listener always comes first and the actuator sync second,
// so a decision made in OnTick is visible to the sync before PRE.
type Dispatcher struct {
	listeners []Listener
	log       zerolog.Logger

	last    uint64
	started bool
	open    bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(l zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = l.With().Str("component", "dispatcher").Logger()
	}
}

// NewDispatcher creates a Dispatcher. control and sync may not be nil.
func NewDispatcher(control, sync Listener, opts ...DispatcherOption) *Dispatcher {
	if control == nil || sync == nil {
		panic("realtime: nil control or sync listener")
	}
	d := &Dispatcher{
		listeners: []Listener{control, sync},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add appends an auxiliary listener after the pinned two.
func (d *Dispatcher) Add(l Listener) {
	if l != nil {
		d.listeners = append(d.listeners, l)
	}
}

// Listeners returns the number of registered listeners.
func (d *Dispatcher) Listeners() int {
	return len(d.listeners)
}

// LastTick returns the most recently begun tick and whether it is still open.
func (d *Dispatcher) LastTick() (tick uint64, open bool) {
	return d.last, d.open
}

// BeginTick delivers OnTick and then PRE for ev.Tick. Ticks must be
// consecutive. Listener errors and panics do not stop delivery; they are
// joined and returned after PRE went out.
func (d *Dispatcher) BeginTick(ev primitives.TickEvent) error {
	if d.open {
		return fmt.Errorf("%w: tick %d begun while %d is open", ErrTickSequence, ev.Tick, d.last)
	}
	if d.started && ev.Tick != d.last+1 {
		return fmt.Errorf("%w: tick %d follows %d", ErrTickSequence, ev.Tick, d.last)
	}
	d.last, d.started, d.open = ev.Tick, true, true

	var errs []error
	for i, l := range d.listeners {
		errs = append(errs, d.deliver(ev.Tick, i, "tick", func() error { return l.OnTick(ev) }))
	}
	pre := primitives.PlayerUpdateEvent{Tick: ev.Tick, Phase: primitives.PhasePre}
	errs = append(errs, d.update(pre)...)
	return errors.Join(errs...)
}

// RotationMove delivers a movement computation of the open tick.
func (d *Dispatcher) RotationMove(ev *primitives.RotationMoveEvent) error {
	if !d.open || ev.Tick != d.last {
		return fmt.Errorf("%w: move for tick %d", ErrTickSequence, ev.Tick)
	}
	var errs []error
	for i, l := range d.listeners {
		errs = append(errs, d.deliver(ev.Tick, i, "move", func() error {
			l.OnRotationMove(ev)
			return nil
		}))
	}
	return errors.Join(errs...)
}

// EndTick delivers POST and closes the tick, even when a listener fails.
func (d *Dispatcher) EndTick(tick uint64) error {
	if !d.open || tick != d.last {
		return fmt.Errorf("%w: end of tick %d", ErrTickSequence, tick)
	}
	post := primitives.PlayerUpdateEvent{Tick: tick, Phase: primitives.PhasePost}
	errs := d.update(post)
	d.open = false
	return errors.Join(errs...)
}

func (d *Dispatcher) update(ev primitives.PlayerUpdateEvent) []error {
	errs := make([]error, 0, len(d.listeners))
	for i, l := range d.listeners {
		errs = append(errs, d.deliver(ev.Tick, i, ev.Phase.String(), func() error {
			l.OnPlayerUpdate(ev)
			return nil
		}))
	}
	return errs
}

// deliver runs one listener callback. A panic is turned into an
// ErrListenerPanic so the remaining listeners still see the notification.
func (d *Dispatcher) deliver(tick uint64, idx int, stage string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: listener %d on %s of tick %d: %v", ErrListenerPanic, idx, stage, tick, r)
			d.log.Error().Uint64("tick", tick).Int("listener", idx).Str("stage", stage).
				Interface("panic", r).Msg("recovered listener panic")
		}
	}()
	return fn()
}
