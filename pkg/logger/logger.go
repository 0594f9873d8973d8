// Package logger holds the process-wide zerolog logger. Call Init once from
// the command pre-run; packages that are handed no logger use Component.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Init.
type Options struct {
	// Level is trace, debug, info, warn or error. Anything else means info.
	Level string
	// Pretty switches from JSON lines to the coloured console writer.
	Pretty bool
	// Output defaults to os.Stderr; stdout carries command results.
	Output io.Writer
	// Service, when set, is added to every entry.
	Service string
}

var (
	mu    sync.RWMutex
	base  *zerolog.Logger
	setUp sync.Once
)

// Init builds the shared logger. Calls after the first return the logger
// built by the first one.
func Init(opts Options) zerolog.Logger {
	setUp.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var out io.Writer = os.Stderr
		if opts.Output != nil {
			out = opts.Output
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		c := zerolog.New(out).Level(lvl).With().Timestamp()
		if opts.Service != "" {
			c = c.Str("service", opts.Service)
		}
		l := c.Logger()

		mu.Lock()
		base = &l
		mu.Unlock()
	})
	return Get()
}

// Get returns the shared logger and panics when Init has not run.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if base == nil {
		panic("logger: Get() called before Init()")
	}
	return *base
}

// Component returns the shared logger with a component field.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the shared logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	base = nil
	setUp = sync.Once{}
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
