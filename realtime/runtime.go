package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/arbiterx/internal/primitives"
)

var (
	ErrQueueFull = errors.New("realtime: op queue full")
	ErrRunning   = errors.New("realtime: runtime already running")
	ErrTickPanic = errors.New("realtime: tick panicked")
)

const (
	DefaultTickRate      = 50 * time.Millisecond // 20 ticks per second
	DefaultMaxOpsPerTick = 1000
)

// Config configures the runtime.
type Config struct {
	TickRate      time.Duration `yaml:"tick_rate"`
	MaxOpsPerTick int           `yaml:"max_ops_per_tick"`
}

// Runtime steps a Simulation at a fixed rate and feeds a Dispatcher.
type Runtime struct {
	d        *Dispatcher
	sim      Simulation
	tickRate time.Duration
	maxOps   int
	log      zerolog.Logger
	onError  func(tick uint64, err error)

	stepMu sync.Mutex // serializes Step

	mu      sync.Mutex // guards the fields below
	tickNum uint64
	ops     []queuedOp
	seq     uint64
	running bool
	cancel  context.CancelFunc
	stopped chan struct{}
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeLogger sets the logger.
func WithRuntimeLogger(l zerolog.Logger) RuntimeOption {
	return func(rt *Runtime) {
		rt.log = l.With().Str("component", "runtime").Logger()
	}
}

// WithErrorHandler is called from the tick goroutine for every tick that
// returned an error. The default logs it.
func WithErrorHandler(fn func(tick uint64, err error)) RuntimeOption {
	return func(rt *Runtime) {
		rt.onError = fn
	}
}

// NewRuntime creates a Runtime. Zero config fields take their defaults.
func NewRuntime(d *Dispatcher, sim Simulation, cfg Config, opts ...RuntimeOption) *Runtime {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.MaxOpsPerTick <= 0 {
		cfg.MaxOpsPerTick = DefaultMaxOpsPerTick
	}
	rt := &Runtime{
		d:        d,
		sim:      sim,
		tickRate: cfg.TickRate,
		maxOps:   cfg.MaxOpsPerTick,
		log:      zerolog.Nop(),
		ops:      make([]queuedOp, 0, cfg.MaxOpsPerTick),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.onError == nil {
		rt.onError = func(tick uint64, err error) {
			rt.log.Warn().Err(err).Uint64("tick", tick).Msg("tick failed")
		}
	}
	return rt
}

// Start begins fixed-rate execution. The loop ends when ctx is canceled or
// Stop is called.
func (rt *Runtime) Start(ctx context.Context) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.running {
		return ErrRunning
	}
	loopCtx, cancel := context.WithCancel(ctx)
	rt.running = true
	rt.cancel = cancel
	rt.stopped = make(chan struct{})

	go rt.tickLoop(loopCtx, rt.stopped)
	rt.log.Info().Dur("tick_rate", rt.tickRate).Msg("runtime started")
	return nil
}

// Stop ends the loop and waits for the in-flight tick to finish. Stopping a
// runtime that is not running is a no-op.
func (rt *Runtime) Stop() error {
	rt.mu.Lock()
	if !rt.running {
		rt.mu.Unlock()
		return nil
	}
	cancel, stopped := rt.cancel, rt.stopped
	rt.mu.Unlock()

	cancel()
	<-stopped
	return nil
}

func (rt *Runtime) tickLoop(ctx context.Context, stopped chan struct{}) {
	ticker := time.NewTicker(rt.tickRate)
	defer func() {
		ticker.Stop()
		rt.mu.Lock()
		rt.running = false
		rt.mu.Unlock()
		close(stopped)
		rt.log.Info().Uint64("tick", rt.TickNumber()).Msg("runtime stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rt.Step(); err != nil {
				rt.onError(rt.TickNumber(), err)
			}
		}
	}
}

// Step runs exactly one tick: queued ops, OnTick and PRE, the simulation's
// movement with its rotation hooks, then POST. It is safe to call from tests
// without Start. Panics in an op, the simulation or a listener are recovered
// and returned as ErrTickPanic or ErrListenerPanic; once PRE went out, POST is
// always delivered. The tick number is only consumed when the tick began.
func (rt *Runtime) Step() error {
	rt.stepMu.Lock()
	defer rt.stepMu.Unlock()

	rt.mu.Lock()
	tick := rt.tickNum + 1
	rt.mu.Unlock()

	var errs []error
	ops := rt.collectOps()
	sortOps(ops)
	for _, op := range ops {
		errs = append(errs, rt.guard(tick, "op", op.fn))
	}

	var st Status
	errs = append(errs, rt.guard(tick, "status", func() { st = rt.sim.Status() }))

	if err := rt.d.BeginTick(primitives.NewTickEvent(tick, st.CalcFailed, st.SafeToCancel)); err != nil {
		if errors.Is(err, ErrTickSequence) {
			return errors.Join(append(errs, err)...)
		}
		errs = append(errs, err)
	}
	rt.mu.Lock()
	rt.tickNum = tick
	rt.mu.Unlock()

	advanceErr := rt.guard(tick, "advance", func() {
		rt.sim.Advance(tick, func(ev *primitives.RotationMoveEvent) {
			if err := rt.d.RotationMove(ev); err != nil {
				errs = append(errs, err)
			}
		})
	})
	errs = append(errs, advanceErr, rt.d.EndTick(tick))
	return errors.Join(errs...)
}

// guard runs fn and turns a panic into ErrTickPanic.
func (rt *Runtime) guard(tick uint64, stage string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: tick %d: %s: %v", ErrTickPanic, tick, stage, r)
			rt.log.Error().Uint64("tick", tick).Str("stage", stage).Interface("panic", r).Msg("recovered tick panic")
		}
	}()
	fn()
	return nil
}

// Submit queues op for the start of the next tick. Safe for concurrent use.
func (rt *Runtime) Submit(op func()) error {
	if op == nil {
		return nil
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if len(rt.ops) >= rt.maxOps {
		return ErrQueueFull
	}
	rt.ops = append(rt.ops, queuedOp{fn: op, seq: rt.seq})
	rt.seq++
	return nil
}

// TickNumber returns the number of ticks begun so far.
func (rt *Runtime) TickNumber() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tickNum
}

// Running reports whether the tick loop is active.
func (rt *Runtime) Running() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.running
}
