// Package logger configures the process-wide zerolog logger for the CLI.
// Library packages never log through the global; they take a logger via
// option and default to a disabled one.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options defines logger initialization parameters.
type Options struct {
	Level  string
	Pretty bool
}

var global = zerolog.Nop()

// Init sets up the global logger writing to stderr.
func Init(opts Options) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	if opts.Pretty {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		global = zerolog.New(out).Level(level).With().Timestamp().Logger()
		return
	}
	global = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// Get returns the global logger.
func Get() zerolog.Logger {
	return global
}
