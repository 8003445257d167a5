package production

import (
	"context"
	"errors"
	"sync"

	"github.com/comalice/arbiterx/internal/core"
)

var ErrPublisherClosed = errors.New("production: publisher closed")

// ChannelPublisher forwards control events to a channel. Publish never
// blocks the tick: when the channel is full the event is dropped and
// counted.
type ChannelPublisher struct {
	mu      sync.Mutex
	ch      chan<- core.ControlEvent
	closed  bool
	dropped uint64
}

// NewChannelPublisher creates a ChannelPublisher writing to ch.
func NewChannelPublisher(ch chan<- core.ControlEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, ev core.ControlEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped++
		return nil
	}
}

// Dropped reports how many events were discarded on backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close closes the channel. Further calls are no-ops.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}

var _ core.Publisher = (*ChannelPublisher)(nil)
