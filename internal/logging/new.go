package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the backend and verbosity of the logger built by New.
//
// Format "json" and "console" use zerolog; "text" uses log/slog's text handler.
// Unknown levels fall back to info.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds a Logger from opts. A nil Output means os.Stderr, so log lines
// don't interleave with the REPL on stdout.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "text":
		return newTextLogger(out, opts.Level)
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return NewZerologLogger(zl)
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewZerologLogger(zerolog.Nop())
}
