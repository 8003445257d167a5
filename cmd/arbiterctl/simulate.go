package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comalice/arbiterx"
	"github.com/comalice/arbiterx/builder"
	"github.com/comalice/arbiterx/internal/config"
	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/extensibility"
	"github.com/comalice/arbiterx/internal/logging"
	"github.com/comalice/arbiterx/internal/observability"
	"github.com/comalice/arbiterx/internal/primitives"
	"github.com/comalice/arbiterx/internal/production"
	"github.com/comalice/arbiterx/internal/sim"
	"github.com/comalice/arbiterx/realtime"
)

type simulateOptions struct {
	ticks       uint64
	conceal     bool
	metricsAddr string
	snapshotDir string
	format      string
	script      string
	realtime    bool
	stdin       bool
	dot         bool
	verbose     bool
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the arbiter against the toy world",
		Long: `Runs a wander process and a higher priority look-at process against a
small deterministic world and prints every change of control.

Operator commands can be scripted with --script "10:pause,20:resume" or, with
--realtime, typed on stdin when --stdin is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&opts.ticks, "ticks", 100, "number of ticks to run")
	f.BoolVar(&opts.conceal, "conceal", false, "hide non-forced yaw writes from the observer")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.StringVar(&opts.snapshotDir, "snapshot-dir", "", "save the final snapshot into this directory")
	f.StringVar(&opts.format, "format", "json", "snapshot format: json or yaml")
	f.StringVar(&opts.script, "script", "", "operator commands as tick:command pairs")
	f.BoolVar(&opts.realtime, "realtime", false, "tick at the configured rate instead of as fast as possible")
	f.BoolVar(&opts.stdin, "stdin", false, "read operator commands from stdin (with --realtime)")
	f.BoolVar(&opts.dot, "dot", false, "print the final registry as Graphviz DOT")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	return cmd
}

// lockedWriter serializes output from the tick goroutine and the event
// printer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format, args...)
}

func runSimulate(cmd *cobra.Command, opts simulateOptions) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("conceal") {
		cfg.Look.Conceal = opts.conceal
	}
	script, err := parseScript(opts.script)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, opts.verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	out := &lockedWriter{w: cmd.OutOrStdout()}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewCollectors(reg)
	if err != nil {
		return err
	}
	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: observability.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", opts.metricsAddr).Msg("serving metrics")
	}

	events := make(chan core.ControlEvent, 256)
	pub := production.NewChannelPublisher(events)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for ev := range events {
			out.Printf("tick %4d  %s -> %s  %s\n", ev.Tick, orNone(ev.From), orNone(ev.To), ev.Command)
		}
	}()

	world := sim.NewWorld(
		sim.WithJumpEvery(5),
		sim.WithUnsafeWindow(28, 34),
		sim.WithCalcFailures(12),
	)
	bot, err := arbiterx.NewBot(cfg, world,
		arbiterx.WithLogger(log),
		arbiterx.WithMetrics(metrics),
		arbiterx.WithListener(world),
		arbiterx.WithArbiterOptions(core.WithPublisher(pub)),
	)
	if err != nil {
		return err
	}
	registerDemoProcesses(bot, log)

	rt := bot.NewRuntime(world, realtime.WithErrorHandler(func(tick uint64, err error) {
		log.Warn().Err(err).Uint64("tick", tick).Msg("tick error")
	}))
	driver := &scriptedStepper{rt: rt, bot: bot, script: script, limit: opts.ticks, out: out, done: cancel}

	if opts.realtime {
		if opts.stdin {
			go readCommands(cmd.InOrStdin(), rt, driver)
		}
		src := extensibility.NewTimerTickSource(cfg.Runtime.TickRate)
		err = extensibility.Drive(ctx, src, driver, func(err error) {
			log.Warn().Err(err).Msg("tick error")
		})
		src.Stop()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		for rt.TickNumber() < opts.ticks {
			if stepErr := driver.Step(); stepErr != nil {
				log.Warn().Err(stepErr).Uint64("tick", rt.TickNumber()).Msg("tick error")
			}
		}
	}
	pub.Close()
	<-printed
	if err != nil {
		return err
	}

	// ctx is canceled once the tick limit is reached.
	return report(cmd.Context(), out, bot, world, opts)
}

func newLogger(cfg config.Config, verbose bool, w io.Writer) (zerolog.Logger, error) {
	opts := logging.ProfileOptions(logging.ProfileRuntime)
	opts.Out = w
	opts.NoColor = cfg.Log.NoColor
	if cfg.Log.Level != "" {
		lvl, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return zerolog.Nop(), err
		}
		opts.Level = lvl
	}
	if verbose {
		opts.Level = zerolog.DebugLevel
	}
	return logging.Build("arbiterctl", opts), nil
}

// registerDemoProcesses adds a wander process that turns a few degrees per
// tick and a look-at process that takes over between ticks 25 and 60.
func registerDemoProcesses(bot *arbiterx.Bot, log zerolog.Logger) {
	currentTick := func() uint64 {
		tick, _ := bot.Dispatcher().LastTick()
		return tick
	}
	heading := 0.0
	wander := builder.New("wander", builder.Decide(func(calcFailed, _ bool) (primitives.Command, error) {
		if calcFailed {
			heading += 90
		}
		heading += 3
		return primitives.SetTarget(primitives.NewRotation(heading, 0), false), nil
	}))
	lookAt := builder.New("look-at",
		builder.Priority(arbiterx.DefaultPriority+2),
		builder.ActiveWhen(func() bool {
			t := currentTick()
			return t >= 25 && t <= 60
		}),
		builder.Target(primitives.NewRotation(180, -45), true),
	)
	bot.MustRegister(extensibility.NewLoggingProcess(wander, log))
	bot.MustRegister(extensibility.NewLoggingProcess(lookAt, log))
}

// scriptedStepper submits scripted commands due before each tick and stops
// the driver after limit ticks.
type scriptedStepper struct {
	rt     *realtime.Runtime
	bot    *arbiterx.Bot
	script []scriptEntry
	limit  uint64
	out    *lockedWriter
	done   func()
}

func (s *scriptedStepper) Step() error {
	next := s.rt.TickNumber() + 1
	for len(s.script) > 0 && s.script[0].Tick <= next {
		line := s.script[0].Line
		s.script = s.script[1:]
		if err := s.rt.Submit(func() { s.exec(line) }); err != nil {
			return err
		}
	}
	err := s.rt.Step()
	if s.rt.TickNumber() >= s.limit {
		s.done()
	}
	return err
}

// exec runs on the tick goroutine.
func (s *scriptedStepper) exec(line string) {
	tick := s.rt.TickNumber()
	msg, err := s.bot.Execute(line)
	if err != nil {
		s.out.Printf("tick %4d  > %s: %v\n", tick, line, err)
		return
	}
	s.out.Printf("tick %4d  > %s: %s\n", tick, line, msg)
}

func readCommands(r io.Reader, rt *realtime.Runtime, s *scriptedStepper) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if err := rt.Submit(func() { s.exec(line) }); err != nil {
			s.out.Printf("> %s: %v\n", line, err)
		}
	}
}

func report(ctx context.Context, out *lockedWriter, bot *arbiterx.Bot, world *sim.World, opts simulateOptions) error {
	snap := bot.Snapshot()
	concealed := 0
	for _, ob := range world.Observations() {
		if ob.Sent != ob.Visible.Yaw {
			concealed++
		}
	}
	out.Printf("done: %d ticks, in control %s, paused %t, %d concealed ticks, final %s\n",
		snap.Tick, orNone(snap.InControl), snap.Paused, concealed, world.Player())

	if opts.snapshotDir != "" {
		p, err := production.NewPersister(opts.format, opts.snapshotDir)
		if err != nil {
			return err
		}
		if err := p.Save(ctx, snap); err != nil {
			return err
		}
		out.Printf("snapshot %s saved to %s\n", snap.ArbiterID, opts.snapshotDir)
	}
	if opts.dot {
		out.Printf("%s", (&production.DefaultVisualizer{}).ExportDOT(snap))
	}
	return nil
}

func orNone(name string) string {
	if name == "" {
		return "none"
	}
	return name
}
