// Package log provides structured, colored logging for hdgen.
//
// Logs go to stderr so stdout stays clean for generated records. Mnemonics
// and private keys must never be passed to a logger.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Component loggers.
var (
	Generator zerolog.Logger
	Wallet    zerolog.Logger
	Network   zerolog.Logger
	Storage   zerolog.Logger
	CLI       zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stderr, "warn")
	initComponentLoggers()
}

// Init configures the global logger. When file is non-empty, entries are
// written to both the console and the file; the file always receives JSON.
func Init(level string, jsonOutput bool, file string) error {
	var console io.Writer = os.Stderr
	if !jsonOutput {
		console = consoleWriter(os.Stderr)
	}

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		Logger = newLogger(zerolog.MultiLevelWriter(console, f), level)
	} else {
		Logger = newLogger(console, level)
	}

	initComponentLoggers()
	return nil
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(consoleWriter(w), level)
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(w, level)
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to zerolog.Level. Unknown names map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether level is a recognised level name.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func initComponentLoggers() {
	Generator = WithComponent("generator")
	Wallet = WithComponent("wallet")
	Network = WithComponent("network")
	Storage = WithComponent("storage")
	CLI = WithComponent("cli")
}

// WithComponent returns a logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// Benchmark returns a func that logs the elapsed time of an operation at
// debug level.
func Benchmark(l zerolog.Logger, name string) func() {
	start := time.Now()
	return func() {
		l.Debug().
			Str("operation", name).
			Dur("duration", time.Since(start)).
			Msg("benchmark")
	}
}
