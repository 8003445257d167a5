// Package logging builds the zerolog loggers used across arbiterx.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Profile selects defaults for a process kind.
type Profile int

const (
	// ProfileRuntime logs info and above to stderr with timestamps.
	ProfileRuntime Profile = iota
	// ProfileTest logs everything without timestamps so output is stable.
	ProfileTest
)

// Options control logger construction.
type Options struct {
	Level     zerolog.Level
	NoColor   bool
	Timestamp bool
	Out       io.Writer
}

// ProfileOptions returns the defaults for p.
func ProfileOptions(p Profile) Options {
	switch p {
	case ProfileTest:
		return Options{Level: zerolog.DebugLevel, NoColor: true, Out: os.Stderr}
	default:
		return Options{Level: zerolog.InfoLevel, Timestamp: true, Out: os.Stderr}
	}
}

type envOverrides struct {
	Level   string `env:"ARBITERX_LOG_LEVEL"`
	NoColor *bool  `env:"ARBITERX_LOG_NOCOLOR"`
}

// New builds a logger for app using profile defaults and any
// ARBITERX_LOG_LEVEL or ARBITERX_LOG_NOCOLOR overrides.
func New(app string, profile Profile) (zerolog.Logger, error) {
	opts := ProfileOptions(profile)
	var over envOverrides
	if err := env.Parse(&over); err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log env: %w", err)
	}
	if over.Level != "" {
		lvl, err := ParseLevel(over.Level)
		if err != nil {
			return zerolog.Nop(), err
		}
		opts.Level = lvl
	}
	if over.NoColor != nil {
		opts.NoColor = *over.NoColor
	}
	return Build(app, opts), nil
}

// Build creates a console logger tagged with app.
func Build(app string, opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    opts.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !opts.Timestamp {
		writer.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(writer).Level(opts.Level).With().Str("app", app)
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// ParseLevel accepts zerolog level names in any case.
func ParseLevel(s string) (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: level %q: %w", s, err)
	}
	return lvl, nil
}
