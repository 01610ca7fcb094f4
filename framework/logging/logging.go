// Package logging builds the application logger from configuration.
//
// The logger is registered in the container by LoggingServiceProvider and
// resolved wherever structured output is needed. Format and level come from
// LOG_FORMAT and LOG_LEVEL via config.Load.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/armature-go/armature/framework/config"
)

// New constructs a zerolog.Logger from cfg.Log. "console" format wraps the
// output in a human-readable ConsoleWriter; anything else emits JSON lines.
// Unknown levels fall back to info.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with an explicit sink, for tests and custom writers.
func NewWithOutput(cfg *config.Config, out io.Writer) zerolog.Logger {
	if strings.EqualFold(cfg.Log.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).
		Level(parseLevel(cfg.Log.Level)).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Logger()

	return logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
