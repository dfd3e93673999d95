// Package logging provides the configured zerolog logger.
package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the given level. Unknown or empty
// levels fall back to warn so command output stays quiet by default.
// Console formatting is used when pretty is set.
func New(w io.Writer, level string, pretty bool) zerolog.Logger {
	name := strings.ToLower(strings.TrimSpace(level))
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		lvl = zerolog.WarnLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(lvl).With().
		Str("service", "healthlog").
		Timestamp().
		Logger()
}
