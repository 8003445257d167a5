package extensibility

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/primitives"
)

// LoggingProcess wraps a Process and logs every decision with its duration.
// All other methods delegate unchanged, so the wrapper ranks exactly like the
// wrapped process.
type LoggingProcess struct {
	core.Process
	log zerolog.Logger
}

// NewLoggingProcess wraps inner.
func NewLoggingProcess(inner core.Process, log zerolog.Logger) *LoggingProcess {
	return &LoggingProcess{
		Process: inner,
		log:     log.With().Str("process", inner.Name()).Logger(),
	}
}

func (p *LoggingProcess) Decide(calcFailed, safeToCancel bool) (primitives.Command, error) {
	start := time.Now()
	cmd, err := p.Process.Decide(calcFailed, safeToCancel)
	elapsed := time.Since(start)
	if err != nil {
		p.log.Warn().Err(err).Dur("took", elapsed).Msg("decision failed")
		return cmd, err
	}
	p.log.Debug().Stringer("command", cmd).Bool("calc_failed", calcFailed).
		Bool("safe_to_cancel", safeToCancel).Dur("took", elapsed).Msg("decided")
	return cmd, nil
}

func (p *LoggingProcess) OnLostControl() {
	p.log.Debug().Msg("lost control")
	p.Process.OnLostControl()
}

// Unwrap returns the wrapped process.
func (p *LoggingProcess) Unwrap() core.Process {
	return p.Process
}

var _ core.Process = (*LoggingProcess)(nil)
