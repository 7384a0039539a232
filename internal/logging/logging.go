// Package logging builds the CLI's zerolog logger.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns a console logger with timestamps writing to w. Debug events are
// only written when verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		With().Timestamp().Logger().
		Level(level)
}
