package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns a console logger for stage tracing at info level, or
// debug level when verbose is set.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
