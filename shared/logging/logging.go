// Package logging builds the component-tagged zerolog loggers used by both
// binaries. Gameplay packages take a zerolog.Logger so tests can pass
// zerolog.Nop().
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var out io.Writer = zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}

// Setup sets the global level from a config string and the writer every
// logger returned by New writes to. A nil writer keeps the console writer.
func Setup(level string, w io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	if w != nil {
		out = w
	}
}

// ParseLevel maps a config string to a zerolog level. Unknown values mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger tagged with component ("server", "client", "weapon", "stats").
func New(component string) zerolog.Logger {
	return zerolog.New(out).With().Timestamp().Str("component", component).Logger()
}
