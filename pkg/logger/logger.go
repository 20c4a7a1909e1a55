// Package logger builds the process-wide zerolog logger.
//
// main calls Init once; packages that cannot take a logger through their
// constructor may call Get afterwards.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Anything else means info.
	Level string
	// Pretty switches to the coloured console writer for local runs.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is attached to every entry as "service" when non-empty.
	Service string
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// New builds a logger from opts without touching the shared instance.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	fields := zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Caller()
	if opts.Service != "" {
		fields = fields.Str("service", opts.Service)
	}
	return fields.Logger()
}

// Init builds the shared logger on the first call and returns it. Later calls
// return the logger built by the first one.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := New(opts)
		instance = &l
	}
	return *instance
}

// Get returns the shared logger. It panics when Init has not run.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		panic("logger: Get called before Init")
	}
	return *instance
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// Reset drops the shared logger. Tests only.
func Reset() {
	mu.Lock()
	instance = nil
	mu.Unlock()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
