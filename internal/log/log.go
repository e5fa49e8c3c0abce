// Package log builds the zerolog loggers used by the command line tools.
//
// NewPretty writes colored, indented JSON for a terminal; NewPacked writes
// one JSON object per line for log files.
package log

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/tidwall/pretty"
)

func newBaseLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.
		New(io.Discard).
		With().
		Str("app", "scdl").
		Timestamp().
		Logger().
		Level(level)
}

// NewPretty returns a logger writing colorized, indented records to w.
func NewPretty(w io.Writer, level zerolog.Level) zerolog.Logger {
	return newBaseLogger(level).Output(prettyWriter{w})
}

// NewPacked returns a logger writing compact JSON lines to w.
func NewPacked(w io.Writer, level zerolog.Level) zerolog.Logger {
	return newBaseLogger(level).Output(w)
}

type prettyWriter struct {
	out io.Writer
}

func (p prettyWriter) Write(line []byte) (int, error) {
	if n, err := p.out.Write(pretty.Color(pretty.Pretty(line), nil)); err != nil {
		return n, err
	}
	return len(line), nil
}
