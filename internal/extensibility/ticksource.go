// Package extensibility holds adapters for driving and observing the
// arbiter from outside: tick sources for hosts that own their own clock,
// and a process decorator that logs decisions.
package extensibility

import (
	"context"
	"sync"
	"time"
)

// TickSource delivers one value per tick to drive. The channel is closed when
// the source ends.
type TickSource interface {
	Ticks() <-chan struct{}
}

// Stepper runs one tick. *realtime.Runtime satisfies it.
type Stepper interface {
	Step() error
}

// Drive steps s once per tick from src until ctx is done or src closes.
// Step errors go to onErr, which may be nil.
func Drive(ctx context.Context, src TickSource, s Stepper, onErr func(error)) error {
	ticks := src.Ticks()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if err := s.Step(); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

// ChannelTickSource is fired by the host, e.g. from a game client's own tick
// callback.
type ChannelTickSource struct {
	mu     sync.Mutex
	ch     chan struct{}
	closed bool
}

// NewChannelTickSource creates a source buffering up to size pending ticks.
func NewChannelTickSource(size int) *ChannelTickSource {
	return &ChannelTickSource{ch: make(chan struct{}, size)}
}

func (s *ChannelTickSource) Ticks() <-chan struct{} {
	return s.ch
}

// Fire queues one tick. It reports false if the buffer is full or the
// source is closed; the tick is dropped.
func (s *ChannelTickSource) Fire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Close ends the source.
func (s *ChannelTickSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// TimerTickSource fires every d until stopped.
type TimerTickSource struct {
	ch       chan struct{}
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewTimerTickSource starts a source ticking every d. Ticks are dropped when
// the consumer falls behind.
func NewTimerTickSource(d time.Duration) *TimerTickSource {
	t := &TimerTickSource{
		ch:     make(chan struct{}, 1),
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerTickSource) run() {
	defer close(t.done)
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- struct{}{}:
			default:
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

func (t *TimerTickSource) Ticks() <-chan struct{} {
	return t.ch
}

// Stop ends the source and waits for its goroutine. Safe to call twice.
func (t *TimerTickSource) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}
