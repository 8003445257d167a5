package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Look struct {
		Conceal         bool    `toml:"conceal"`
		JitterMagnitude float64 `toml:"jitter_magnitude"`
		AlwaysForce     bool    `toml:"always_force"`
		PitchMin        float64 `toml:"pitch_min"`
		PitchMax        float64 `toml:"pitch_max"`
		Seed            int64   `toml:"seed"`
	} `toml:"look"`
	Runtime struct {
		TickRate      string `toml:"tick_rate"`
		TickRateMS    int64  `toml:"tick_rate_ms"`
		MaxOpsPerTick int    `toml:"max_ops_per_tick"`
	} `toml:"runtime"`
	Log struct {
		Level   string `toml:"level"`
		NoColor bool   `toml:"no_color"`
	} `toml:"log"`
}

// Load reads a TOML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}

	if meta.IsDefined("look", "conceal") {
		cfg.Look.Conceal = raw.Look.Conceal
	}
	if meta.IsDefined("look", "jitter_magnitude") {
		cfg.Look.JitterMagnitude = raw.Look.JitterMagnitude
	}
	if meta.IsDefined("look", "always_force") {
		cfg.Look.AlwaysForce = raw.Look.AlwaysForce
	}
	if meta.IsDefined("look", "pitch_min") {
		cfg.Look.PitchMin = raw.Look.PitchMin
	}
	if meta.IsDefined("look", "pitch_max") {
		cfg.Look.PitchMax = raw.Look.PitchMax
	}
	if meta.IsDefined("look", "seed") {
		if raw.Look.Seed < 0 {
			return Config{}, fmt.Errorf("%w: look.seed must not be negative", ErrInvalid)
		}
		cfg.Look.Seed = uint64(raw.Look.Seed)
	}

	if meta.IsDefined("runtime", "tick_rate") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Runtime.TickRate))
		if err != nil {
			return Config{}, fmt.Errorf("parse runtime.tick_rate: %w", err)
		}
		cfg.Runtime.TickRate = d
	}
	if meta.IsDefined("runtime", "tick_rate_ms") {
		cfg.Runtime.TickRate = time.Duration(raw.Runtime.TickRateMS) * time.Millisecond
	}
	if meta.IsDefined("runtime", "max_ops_per_tick") {
		cfg.Runtime.MaxOpsPerTick = raw.Runtime.MaxOpsPerTick
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	return cfg, nil
}
