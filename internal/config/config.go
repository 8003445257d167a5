// Package config loads arbiterx settings from a TOML file and environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/comalice/arbiterx/internal/look"
	"github.com/comalice/arbiterx/realtime"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the effective configuration.
type Config struct {
	Look    LookConfig    `yaml:"look" envPrefix:"ARBITERX_LOOK_"`
	Runtime RuntimeConfig `yaml:"runtime" envPrefix:"ARBITERX_RUNTIME_"`
	Log     LogConfig     `yaml:"log" envPrefix:"ARBITERX_LOG_"`
}

type LookConfig struct {
	Conceal         bool    `yaml:"conceal" env:"CONCEAL"`
	JitterMagnitude float64 `yaml:"jitter_magnitude" env:"JITTER_MAGNITUDE"`
	AlwaysForce     bool    `yaml:"always_force" env:"ALWAYS_FORCE"`
	PitchMin        float64 `yaml:"pitch_min" env:"PITCH_MIN"`
	PitchMax        float64 `yaml:"pitch_max" env:"PITCH_MAX"`
	// Seed makes jitter reproducible; zero draws from the global source.
	Seed uint64 `yaml:"seed" env:"SEED"`
}

type RuntimeConfig struct {
	TickRate      time.Duration `yaml:"tick_rate" env:"TICK_RATE"`
	MaxOpsPerTick int           `yaml:"max_ops_per_tick" env:"MAX_OPS_PER_TICK"`
}

type LogConfig struct {
	Level   string `yaml:"level" env:"LEVEL"`
	NoColor bool   `yaml:"no_color" env:"NOCOLOR"`
}

// Default returns the built-in configuration.
func Default() Config {
	s := look.DefaultSettings()
	return Config{
		Look: LookConfig{
			Conceal:         s.Conceal,
			JitterMagnitude: s.JitterMagnitude,
			AlwaysForce:     s.AlwaysForce,
			PitchMin:        s.PitchMin,
			PitchMax:        s.PitchMax,
		},
		Runtime: RuntimeConfig{
			TickRate:      realtime.DefaultTickRate,
			MaxOpsPerTick: realtime.DefaultMaxOpsPerTick,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Settings converts to look settings.
func (c LookConfig) Settings() look.Settings {
	return look.Settings{
		Conceal:         c.Conceal,
		JitterMagnitude: c.JitterMagnitude,
		AlwaysForce:     c.AlwaysForce,
		PitchMin:        c.PitchMin,
		PitchMax:        c.PitchMax,
	}
}

// Rand returns a seeded jitter source, or nil when Seed is zero.
func (c LookConfig) Rand() look.Rand {
	if c.Seed == 0 {
		return nil
	}
	return look.NewSeededRand(c.Seed)
}

// Realtime converts to runtime config.
func (c RuntimeConfig) Realtime() realtime.Config {
	return realtime.Config{TickRate: c.TickRate, MaxOpsPerTick: c.MaxOpsPerTick}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Look.JitterMagnitude < 0:
		return fmt.Errorf("%w: look.jitter_magnitude must not be negative", ErrInvalid)
	case c.Look.PitchMin >= c.Look.PitchMax:
		return fmt.Errorf("%w: look.pitch_min %v must be below pitch_max %v", ErrInvalid, c.Look.PitchMin, c.Look.PitchMax)
	case c.Runtime.TickRate <= 0:
		return fmt.Errorf("%w: runtime.tick_rate must be positive", ErrInvalid)
	case c.Runtime.MaxOpsPerTick <= 0:
		return fmt.Errorf("%w: runtime.max_ops_per_tick must be positive", ErrInvalid)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return nil
}

// YAML renders the configuration for display.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

// ApplyEnv overrides cfg with any ARBITERX_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the file at path
// if non-empty, then the environment. The result is validated.
func Resolve(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
