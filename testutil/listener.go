package testutil

import (
	"fmt"

	"github.com/comalice/arbiterx/internal/primitives"
)

// RecordingListener records every notification it receives as a short
// string, e.g. "name:tick:1", "name:pre:1", "name:move:1:jump", "name:post:1".
// Log may be shared between listeners to observe delivery order.
type RecordingListener struct {
	Name string
	Log  *[]string
	Err  error
}

// NewRecordingListener creates a listener appending to log.
func NewRecordingListener(name string, log *[]string) *RecordingListener {
	return &RecordingListener{Name: name, Log: log}
}

func (l *RecordingListener) record(format string, args ...any) {
	*l.Log = append(*l.Log, l.Name+":"+fmt.Sprintf(format, args...))
}

func (l *RecordingListener) OnTick(ev primitives.TickEvent) error {
	l.record("tick:%d", ev.Tick)
	return l.Err
}

func (l *RecordingListener) OnPlayerUpdate(ev primitives.PlayerUpdateEvent) {
	l.record("%s:%d", ev.Phase, ev.Tick)
}

func (l *RecordingListener) OnRotationMove(ev *primitives.RotationMoveEvent) {
	l.record("move:%d:%s", ev.Tick, ev.Type)
}
