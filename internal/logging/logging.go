// Package logging configures the zerolog logger used across dotkit.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the default info level.
const EnvLogLevel = "DOTKIT_LOG_LEVEL"

// New returns the process logger. Human-readable console output goes to
// stderr so command output on stdout stays machine-parseable; jsonMode
// switches to plain JSON lines.
func New(jsonMode bool) zerolog.Logger {
	var w io.Writer = os.Stderr
	if !jsonMode {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(levelFromEnv()).With().Timestamp().Logger()
}

func levelFromEnv() zerolog.Level {
	raw := strings.TrimSpace(os.Getenv(EnvLogLevel))
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
