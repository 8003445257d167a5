package arbiterx

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/comalice/arbiterx/internal/command"
	"github.com/comalice/arbiterx/internal/config"
	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/look"
	"github.com/comalice/arbiterx/internal/observability"
	"github.com/comalice/arbiterx/internal/primitives"
	"github.com/comalice/arbiterx/realtime"
)

// Bot bundles the arbiter, the look synchronizer and the dispatcher that
// orders their notifications. It is driven from a single goroutine; use
// Runtime.Submit to reach it from others.
type Bot struct {
	cfg        config.Config
	arbiter    *core.Arbiter
	look       *look.LookSync
	dispatcher *realtime.Dispatcher
	commands   *command.Manager
	log        zerolog.Logger

	last core.Resolution
}

type botOptions struct {
	log         zerolog.Logger
	metrics     *observability.Collectors
	rand        look.Rand
	arbiterOpts []core.Option
	lookOpts    []look.Option
	listeners   []realtime.Listener
}

// BotOption configures NewBot.
type BotOption func(*botOptions)

// WithLogger sets the logger shared by every component.
func WithLogger(l zerolog.Logger) BotOption {
	return func(o *botOptions) { o.log = l }
}

// WithMetrics records arbitration and actuator metrics into c.
func WithMetrics(c *observability.Collectors) BotOption {
	return func(o *botOptions) { o.metrics = c }
}

// WithRand overrides the jitter source chosen from the config.
func WithRand(r look.Rand) BotOption {
	return func(o *botOptions) { o.rand = r }
}

// WithArbiterOptions passes extra options to the arbiter.
func WithArbiterOptions(opts ...core.Option) BotOption {
	return func(o *botOptions) { o.arbiterOpts = append(o.arbiterOpts, opts...) }
}

// WithLookOptions passes extra options to the look synchronizer.
func WithLookOptions(opts ...look.Option) BotOption {
	return func(o *botOptions) { o.lookOpts = append(o.lookOpts, opts...) }
}

// WithListener adds an auxiliary listener after the arbiter and look.
func WithListener(l realtime.Listener) BotOption {
	return func(o *botOptions) { o.listeners = append(o.listeners, l) }
}

// NewBot validates cfg and assembles the components.
func NewBot(cfg config.Config, provider look.ActuatorProvider, opts ...BotOption) (*Bot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("arbiterx: nil actuator provider")
	}
	o := botOptions{log: zerolog.Nop(), rand: cfg.Look.Rand()}
	for _, opt := range opts {
		opt(&o)
	}

	arbiterOpts := []core.Option{core.WithLogger(o.log)}
	lookOpts := []look.Option{look.WithLogger(o.log), look.WithRand(o.rand)}
	if o.metrics != nil {
		arbiterOpts = append(arbiterOpts, core.WithRecorder(o.metrics))
		lookOpts = append(lookOpts, look.WithRecorder(o.metrics))
	}

	b := &Bot{
		cfg:     cfg,
		arbiter: core.NewArbiter(append(arbiterOpts, o.arbiterOpts...)...),
		look:    look.New(provider, cfg.Look.Settings(), append(lookOpts, o.lookOpts...)...),
		log:     o.log.With().Str("component", "bot").Logger(),
	}
	b.commands = command.NewDefaultManager(b.arbiter, command.WithLogger(o.log))
	b.dispatcher = realtime.NewDispatcher(controlListener{b}, syncListener{s: b.look},
		realtime.WithDispatcherLogger(o.log))
	for _, l := range o.listeners {
		b.dispatcher.Add(l)
	}
	return b, nil
}

// Register adds a process to the arbiter.
func (b *Bot) Register(p Process) error {
	return b.arbiter.Register(p)
}

// MustRegister is like Register but panics on error.
func (b *Bot) MustRegister(p Process) {
	b.arbiter.MustRegister(p)
}

// Execute runs an operator command such as "pause" or "resume".
func (b *Bot) Execute(line string) (string, error) {
	return b.commands.Execute(line)
}

// NewRuntime creates a runtime stepping sim at the configured rate.
func (b *Bot) NewRuntime(sim Simulation, opts ...realtime.RuntimeOption) *realtime.Runtime {
	opts = append([]realtime.RuntimeOption{realtime.WithRuntimeLogger(b.log)}, opts...)
	return realtime.NewRuntime(b.dispatcher, sim, b.cfg.Runtime.Realtime(), opts...)
}

func (b *Bot) Arbiter() *core.Arbiter           { return b.arbiter }
func (b *Bot) Look() *look.LookSync             { return b.look }
func (b *Bot) Dispatcher() *realtime.Dispatcher { return b.dispatcher }
func (b *Bot) Commands() *command.Manager       { return b.commands }
func (b *Bot) Config() config.Config            { return b.cfg }
func (b *Bot) LastResolution() core.Resolution  { return b.last }
func (b *Bot) Snapshot() core.Snapshot          { return b.arbiter.Snapshot() }

// controlListener resolves the tick and forwards the winner's target.
type controlListener struct {
	b *Bot
}

func (c controlListener) OnTick(ev primitives.TickEvent) error {
	res, err := c.b.arbiter.Resolve(ev)
	c.b.last = res
	if err != nil {
		c.b.log.Warn().Err(err).Uint64("tick", ev.Tick).Msg("resolve")
	}
	if res.OK && res.Command.HasTarget() {
		c.b.look.UpdateTarget(*res.Command.Target, res.Command.Force)
	}
	return err
}

func (controlListener) OnPlayerUpdate(primitives.PlayerUpdateEvent)  {}
func (controlListener) OnRotationMove(*primitives.RotationMoveEvent) {}

// syncListener adapts the look synchronizer to the dispatcher.
type syncListener struct {
	realtime.BaseListener
	s *look.LookSync
}

func (l syncListener) OnPlayerUpdate(ev primitives.PlayerUpdateEvent) {
	l.s.OnPlayerUpdate(ev)
}

func (l syncListener) OnRotationMove(ev *primitives.RotationMoveEvent) {
	l.s.OnRotationMove(ev)
}
