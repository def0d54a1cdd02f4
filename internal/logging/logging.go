// Package logging builds the leveled logger shared by the store and the CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DebugEnabled returns true if debug mode is enabled via TODO_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TODO_DEBUG") != ""
}

// Options holds logger configuration.
type Options struct {
	Level           log.Level
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Level:           log.WarnLevel,
		ReportTimestamp: false,
		Prefix:          "todo",
	}
}

// New creates a logger writing to w. TODO_DEBUG forces debug level.
func New(w io.Writer, opts Options) *log.Logger {
	level := opts.Level
	if DebugEnabled() {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel parses a level name; unknown names fall back to warn.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// IsValidLevel reports whether ParseLevel recognizes s.
func IsValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
