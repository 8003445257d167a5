// Package core provides the arbitration tier of the engine: the Process
// contract, the ordered process registry and the per-tick winner selection.
//
// Stdlib-only apart from structured logging and ID generation.
// Not safe for concurrent use: every method must be called from the goroutine
// that drives ticks (see realtime.Runtime.Submit for operator calls).
package core

import "github.com/comalice/arbiterx/internal/primitives"

const (
	// DefaultPriority is the priority of an ordinary behavior process.
	DefaultPriority = -1.0
	// PausePriority outranks ordinary processes but not processes that
	// intentionally keep running while paused.
	PausePriority = DefaultPriority + 1
)

// Process is an autonomous behavior unit competing for the actuator.
type Process interface {
	// Name is used for diagnostics only.
	Name() string

	// IsActive reports whether the process wants control this tick.
	IsActive() bool

	// IsTemporary processes are deregistered right after their first win.
	IsTemporary() bool

	// Priority orders candidates; higher wins.
	Priority() float64

	// Decide is called on the winner only. calcFailed is true only when the
	// winner also held control on the previous tick and the simulation
	// reported a failed calculation.
	Decide(calcFailed, safeToCancel bool) (primitives.Command, error)

	// OnLostControl tells the process to drop whatever it was doing.
	OnLostControl()
}

// ProcessInfo is a diagnostic view of one registry slot.
type ProcessInfo struct {
	Name      string  `json:"name" yaml:"name"`
	Slot      uint64  `json:"slot" yaml:"slot"`
	Priority  float64 `json:"priority" yaml:"priority"`
	Active    bool    `json:"active" yaml:"active"`
	Temporary bool    `json:"temporary" yaml:"temporary"`
	Builtin   bool    `json:"builtin,omitempty" yaml:"builtin,omitempty"`
	InControl bool    `json:"inControl,omitempty" yaml:"inControl,omitempty"`
	Faulted   bool    `json:"faulted,omitempty" yaml:"faulted,omitempty"`
}

// entry is one registry slot. seq is the stable insertion index used to break
// priority ties.
type entry struct {
	proc    Process
	seq     uint64
	builtin bool
}

// info reads the slot for diagnostics. A process that panics while being
// read is reported inactive and faulted.
func (e *entry) info(inControl Process) (pi ProcessInfo) {
	pi = ProcessInfo{
		Slot:      e.seq,
		Builtin:   e.builtin,
		InControl: inControl != nil && e.proc == inControl,
	}
	defer func() {
		if recover() != nil {
			pi.Active, pi.Faulted = false, true
		}
	}()
	pi.Name = e.proc.Name()
	pi.Priority = e.proc.Priority()
	pi.Temporary = e.proc.IsTemporary()
	pi.Active = e.proc.IsActive()
	return pi
}
