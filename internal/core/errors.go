package core

import (
	"errors"
	"fmt"
)

var (
	ErrNilProcess          = errors.New("core: nil process")
	ErrUncomparableProcess = errors.New("core: process type is not comparable")
	ErrDuplicateProcess    = errors.New("core: duplicate process")
	ErrInvalidState        = errors.New("core: invalid state")
)

// DecisionError reports a process whose Decide failed, or whose Decide or
// per-tick flags panicked. A faulty winner counts as having produced a
// CommandNone for that tick.
type DecisionError struct {
	Process string
	Tick    uint64
	Err     error
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("core: process %q failed to decide on tick %d: %v", e.Process, e.Tick, e.Err)
}

func (e *DecisionError) Unwrap() error {
	return e.Err
}
