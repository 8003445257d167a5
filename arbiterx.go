// Package arbiterx wires a process arbiter to an actuator synchronizer and
// drives both from a tick dispatcher.
//
// Each tick the arbiter ranks the active processes and lets exactly one of
// them decide. A SET_TARGET from the winner is handed to the look
// synchronizer, which writes the orientation directly or, when concealing,
// only for the duration of the movement computation.
//
//	bot, err := arbiterx.NewBot(cfg, provider, arbiterx.WithLogger(log))
//	bot.MustRegister(builder.New("wander", builder.Decide(wander)))
//	rt := bot.NewRuntime(world)
//	rt.Start(ctx)
package arbiterx

import (
	"github.com/comalice/arbiterx/internal/config"
	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/look"
	"github.com/comalice/arbiterx/internal/primitives"
	"github.com/comalice/arbiterx/realtime"
)

type (
	Process          = core.Process
	ProcessInfo      = core.ProcessInfo
	Resolution       = core.Resolution
	Snapshot         = core.Snapshot
	Command          = primitives.Command
	Rotation         = primitives.Rotation
	TickEvent        = primitives.TickEvent
	Actuator         = look.Actuator
	ActuatorProvider = look.ActuatorProvider
	Simulation       = realtime.Simulation
	Listener         = realtime.Listener
	Config           = config.Config
)

const (
	DefaultPriority = core.DefaultPriority
	PausePriority   = core.PausePriority
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig resolves defaults, the TOML file at path (if any) and ARBITERX_*
// environment overrides.
func LoadConfig(path string) (Config, error) {
	return config.Resolve(path)
}
