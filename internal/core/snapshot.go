package core

import (
	"context"
	"time"

	"github.com/comalice/arbiterx/internal/primitives"
)

// Pluggable components. Implementations live in internal/production and
// internal/observability. The Arbiter treats a nil Publisher or Recorder as a
// no-op; Persister is for callers that save Snapshots themselves.

type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, arbiterID string) (Snapshot, error)
}

type Publisher interface {
	Publish(ctx context.Context, event ControlEvent) error
	Close() error
}

// Recorder receives arbitration metrics.
type Recorder interface {
	ObserveTick()
	ControlTransfer(from, to string)
	DecisionFault(process string)
}

// Snapshot is the serializable view of the arbiter after a tick.
type Snapshot struct {
	ArbiterID   string             `json:"arbiterID" yaml:"arbiterID"`
	Tick        uint64             `json:"tick" yaml:"tick"`
	Paused      bool               `json:"paused" yaml:"paused"`
	InControl   string             `json:"inControl,omitempty" yaml:"inControl,omitempty"`
	LastCommand primitives.Command `json:"lastCommand" yaml:"lastCommand"`
	Processes   []ProcessInfo      `json:"processes" yaml:"processes"`
	Timestamp   time.Time          `json:"timestamp" yaml:"timestamp"`
}

// ControlEvent is published whenever control moves to a different process.
// From or To is empty when nobody held or takes control.
type ControlEvent struct {
	ArbiterID string             `json:"arbiterID" yaml:"arbiterID"`
	Tick      uint64             `json:"tick" yaml:"tick"`
	From      string             `json:"from" yaml:"from"`
	To        string             `json:"to" yaml:"to"`
	Command   primitives.Command `json:"command" yaml:"command"`
	Timestamp time.Time          `json:"timestamp" yaml:"timestamp"`
}

type nopRecorder struct{}

func (nopRecorder) ObserveTick()                    {}
func (nopRecorder) ControlTransfer(from, to string) {}
func (nopRecorder) DecisionFault(process string)    {}
