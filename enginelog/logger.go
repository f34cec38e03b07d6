// Package enginelog wraps zerolog for the engine the way DnD-Game's
// pkg/logger wraps it for a server: a thin Logger type configured once
// from CLI flags, with a run-correlation id attached to every line
// instead of a per-request id.
package enginelog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects verbosity and output styling.
type Config struct {
	Verbose bool
	Pretty  bool
}

// New builds a Logger per Config. Verbose maps to debug level (the §4.2
// evaluator tracing the spec calls out), otherwise info.
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var zl zerolog.Logger
	if cfg.Pretty {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return zl
}

// WithRun attaches a run/spec correlation id to every subsequent line,
// mirroring DnD-Game's WithRequestID.
func WithRun(l zerolog.Logger, runID string) zerolog.Logger {
	return l.With().Str("run_id", runID).Logger()
}
