package core

import (
	"fmt"

	"github.com/comalice/arbiterx/internal/primitives"
)

// PauseState is the operator pause flag. It is owned by the Arbiter (or
// shared explicitly through WithPauseState) and never captured implicitly.
type PauseState struct {
	paused bool
}

// Paused reports whether a pause is in effect.
func (s *PauseState) Paused() bool {
	return s.paused
}

// Pause sets the flag. Pausing twice is an invalid state; the flag stays set.
func (s *PauseState) Pause() error {
	if s.paused {
		return fmt.Errorf("%w: already paused", ErrInvalidState)
	}
	s.paused = true
	return nil
}

// Resume clears the flag. Resuming while not paused is an invalid state.
func (s *PauseState) Resume() error {
	if !s.paused {
		return fmt.Errorf("%w: not paused", ErrInvalidState)
	}
	s.paused = false
	return nil
}

// Clear drops the flag unconditionally.
func (s *PauseState) Clear() {
	s.paused = false
}

// pauseProcess is the built-in candidate offered while paused. It is an
// ordinary Process; the only thing the Arbiter does differently is keep it out
// of temporary retirement, since the pause lasts until resumed.
type pauseProcess struct {
	state *PauseState
}

func (p *pauseProcess) Name() string      { return "Pause/Resume Commands" }
func (p *pauseProcess) IsActive() bool    { return p.state.Paused() }
func (p *pauseProcess) IsTemporary() bool { return true }
func (p *pauseProcess) Priority() float64 { return PausePriority }
func (p *pauseProcess) OnLostControl()    {}

func (p *pauseProcess) Decide(calcFailed, safeToCancel bool) (primitives.Command, error) {
	return primitives.RequestPause(), nil
}
