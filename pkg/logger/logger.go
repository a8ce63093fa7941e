// Package logger configures the process-wide zerolog logger.
//
// Call Init once from main, then Get from anywhere that needs to log
// outside a request scope.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu       sync.Mutex
	instance zerolog.Logger
	ready    bool
)

// Init builds the shared logger. Level accepts trace, debug, info, warn or
// error and falls back to info. Pretty switches from JSON to the console
// writer for local development. Repeated calls reconfigure the instance,
// which keeps tests independent of call order.
func Init(level string, pretty bool) zerolog.Logger {
	return initWithOutput(level, pretty, os.Stdout)
}

func initWithOutput(level string, pretty bool, out io.Writer) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339Nano
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := parseLevel(level)
	zerolog.SetGlobalLevel(lvl)

	instance = zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
	ready = true
	return instance
}

// Get returns the shared logger, initialising a default info-level JSON
// logger when Init has not run yet.
func Get() zerolog.Logger {
	mu.Lock()
	ok := ready
	mu.Unlock()
	if !ok {
		return Init("info", false)
	}
	mu.Lock()
	defer mu.Unlock()
	return instance
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
