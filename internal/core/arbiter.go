package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/comalice/arbiterx/internal/primitives"
)

// Resolution is the outcome of one tick of arbitration.
// OK is false when no process wanted control.
type Resolution struct {
	Process Process
	Command primitives.Command
	OK      bool
}

// Arbiter owns the process registry and selects at most one process to own
// the actuator per tick.
type Arbiter struct {
	id        string
	entries   []*entry // insertion ordered
	nextSeq   uint64
	pause     *PauseState
	inControl Process // winner of the previous tick
	lastCmd   primitives.Command
	tick      uint64

	log       zerolog.Logger
	recorder  Recorder
	publisher Publisher
}

// NewArbiter creates an Arbiter with the built-in pause process registered
// in the first slot.
func NewArbiter(opts ...Option) *Arbiter {
	a := &Arbiter{
		id:       uuid.NewString(),
		pause:    &PauseState{},
		log:      zerolog.Nop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.entries = append(a.entries, &entry{proc: &pauseProcess{state: a.pause}, seq: a.nextSeq, builtin: true})
	a.nextSeq++
	return a
}

// ID returns the arbiter ID.
func (a *Arbiter) ID() string {
	return a.id
}

// Register appends p to the registry. Nil (including typed nil pointers),
// non-comparable and duplicate processes are rejected without side effects.
func (a *Arbiter) Register(p Process) error {
	if isNil(p) {
		return ErrNilProcess
	}
	if !reflect.TypeOf(p).Comparable() {
		return fmt.Errorf("%w: %T", ErrUncomparableProcess, p)
	}
	if a.find(p) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateProcess, p.Name())
	}
	a.entries = append(a.entries, &entry{proc: p, seq: a.nextSeq})
	a.nextSeq++
	a.log.Info().Str("process", p.Name()).Float64("priority", p.Priority()).
		Bool("temporary", p.IsTemporary()).Msg("registered process")
	return nil
}

// MustRegister is like Register but panics on registry misuse.
func (a *Arbiter) MustRegister(p Process) {
	if err := a.Register(p); err != nil {
		panic(err)
	}
}

// Resolve runs one tick of arbitration. Every error it returns wraps one or
// more *DecisionError values, one per faulty process; the returned Resolution
// is still valid. A faulty winner yields CommandNone, and a process whose
// IsActive, Priority or IsTemporary panics sits the tick out.
func (a *Arbiter) Resolve(ev primitives.TickEvent) (Resolution, error) {
	a.tick = ev.Tick
	a.recorder.ObserveTick()

	candidates, faults := a.candidates()
	if len(candidates) == 0 {
		a.transfer(nil, primitives.NoCommand())
		return Resolution{}, errors.Join(faults...)
	}

	// Stable sort keeps registration order among equal priorities.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority > candidates[j].priority
	})

	winner := a.pick(candidates, ev.SafeToCancel)
	previous := a.inControl

	cmd, err := a.decide(winner.proc, ev.CalcFailed && winner.proc == previous, ev.SafeToCancel)
	if err != nil {
		faults = append(faults, err)
	}

	if winner.temporary && !winner.builtin {
		a.retire(winner.entry)
	}
	if previous != nil && previous != winner.proc && !winner.temporary && a.find(previous) >= 0 {
		a.lostControl(previous)
	}
	a.transfer(winner.proc, cmd)

	return Resolution{Process: winner.proc, Command: cmd, OK: true}, errors.Join(faults...)
}

// candidate is an active entry with its flags read once for the tick.
type candidate struct {
	*entry
	priority  float64
	temporary bool
}

// candidates returns the active entries in registration order, plus one
// fault per process that panicked while being polled.
func (a *Arbiter) candidates() ([]candidate, []error) {
	out := make([]candidate, 0, len(a.entries))
	var faults []error
	for _, e := range a.entries {
		c, ok, err := a.poll(e)
		if err != nil {
			faults = append(faults, err)
			continue
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, faults
}

func (a *Arbiter) poll(e *entry) (c candidate, active bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, active = candidate{}, false
			err = a.fault(e.proc, fmt.Errorf("panic: %v", r))
		}
	}()
	if !e.proc.IsActive() {
		return candidate{}, false, nil
	}
	return candidate{entry: e, priority: e.proc.Priority(), temporary: e.proc.IsTemporary()}, true, nil
}

// pick walks the priority-sorted candidates. A candidate other than the
// current holder is only permitted when the simulation reports it is safe to
// cancel; an active holder is therefore kept regardless of priority. If the
// holder is no longer a candidate the gate does not apply.
func (a *Arbiter) pick(sorted []candidate, safeToCancel bool) candidate {
	if safeToCancel || a.inControl == nil {
		return sorted[0]
	}
	for _, e := range sorted {
		if e.proc == a.inControl {
			return e
		}
	}
	return sorted[0]
}

// decide isolates a process fault so it cannot corrupt the registry.
func (a *Arbiter) decide(p Process, calcFailed, safeToCancel bool) (cmd primitives.Command, err error) {
	defer func() {
		if r := recover(); r != nil {
			cmd, err = primitives.NoCommand(), a.fault(p, fmt.Errorf("panic: %v", r))
		}
	}()

	cmd, err = p.Decide(calcFailed, safeToCancel)
	if err != nil {
		return primitives.NoCommand(), a.fault(p, err)
	}
	return cmd, nil
}

// fault records and logs a misbehaving process.
func (a *Arbiter) fault(p Process, cause error) *DecisionError {
	err := &DecisionError{Process: p.Name(), Tick: a.tick, Err: cause}
	a.recorder.DecisionFault(err.Process)
	a.log.Warn().Err(err).Str("process", err.Process).Uint64("tick", a.tick).Msg("decision fault")
	return err
}

// lostControl notifies p; a panic is logged and otherwise ignored.
func (a *Arbiter) lostControl(p Process) {
	defer func() {
		if r := recover(); r != nil {
			a.fault(p, fmt.Errorf("panic in OnLostControl: %v", r))
		}
	}()
	p.OnLostControl()
}

func (a *Arbiter) retire(e *entry) {
	idx := a.find(e.proc)
	if idx < 0 {
		return
	}
	a.entries = append(a.entries[:idx], a.entries[idx+1:]...)
	a.log.Debug().Str("process", e.proc.Name()).Uint64("tick", a.tick).Msg("retired temporary process")
}

// transfer records the new holder and publishes when it changed.
func (a *Arbiter) transfer(to Process, cmd primitives.Command) {
	from := a.inControl
	a.inControl = to
	a.lastCmd = cmd
	if from == to {
		return
	}

	fromName, toName := nameOf(from), nameOf(to)
	a.recorder.ControlTransfer(fromName, toName)
	a.log.Debug().Str("from", fromName).Str("to", toName).Uint64("tick", a.tick).Msg("control transferred")

	if a.publisher != nil {
		ev := ControlEvent{
			ArbiterID: a.id,
			Tick:      a.tick,
			From:      fromName,
			To:        toName,
			Command:   cmd,
			Timestamp: time.Now(),
		}
		if err := a.publisher.Publish(context.Background(), ev); err != nil {
			a.log.Warn().Err(err).Msg("publish control event")
		}
	}
}

func (a *Arbiter) find(p Process) int {
	for i, e := range a.entries {
		if e.proc == p {
			return i
		}
	}
	return -1
}

// isNil reports whether p is nil or wraps a nil pointer-like value.
func isNil(p Process) bool {
	if p == nil {
		return true
	}
	switch v := reflect.ValueOf(p); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func nameOf(p Process) string {
	if p == nil {
		return ""
	}
	return p.Name()
}

// RequestPause sets the pause flag.
func (a *Arbiter) RequestPause() error {
	if err := a.pause.Pause(); err != nil {
		return err
	}
	a.log.Info().Msg("paused")
	return nil
}

// RequestResume clears the pause flag. It fails with ErrInvalidState when
// not paused, leaving the flag unchanged.
func (a *Arbiter) RequestResume() error {
	if err := a.pause.Resume(); err != nil {
		return err
	}
	a.log.Info().Msg("resumed")
	return nil
}

// Paused reports whether a pause is in effect.
func (a *Arbiter) Paused() bool {
	return a.pause.Paused()
}

// CancelEverything clears the pause flag and asks every active process to
// drop control. The next Resolve starts with no holder.
func (a *Arbiter) CancelEverything() {
	a.pause.Clear()
	candidates, _ := a.candidates()
	for _, c := range candidates {
		a.lostControl(c.proc)
	}
	a.inControl = nil
	a.lastCmd = primitives.NoCommand()
	a.log.Info().Uint64("tick", a.tick).Msg("canceled everything")
}

// InControl returns the winner of the most recent tick.
func (a *Arbiter) InControl() (Process, bool) {
	return a.inControl, a.inControl != nil
}

// Processes returns the registry in slot order.
func (a *Arbiter) Processes() []ProcessInfo {
	out := make([]ProcessInfo, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.info(a.inControl))
	}
	return out
}

// Snapshot captures the arbiter state for persistence and diagnostics.
func (a *Arbiter) Snapshot() Snapshot {
	return Snapshot{
		ArbiterID:   a.id,
		Tick:        a.tick,
		Paused:      a.pause.Paused(),
		InControl:   nameOf(a.inControl),
		LastCommand: a.lastCmd,
		Processes:   a.Processes(),
		Timestamp:   time.Now(),
	}
}
