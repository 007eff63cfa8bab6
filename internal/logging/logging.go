// Package logging builds the service logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a format name to a log.Formatter. An empty name picks
// text on a terminal and JSON otherwise.
func ParseFormatter(format string, out *os.File) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	case "text":
		return log.TextFormatter
	}
	if out != nil && isatty.IsTerminal(out.Fd()) {
		return log.TextFormatter
	}
	return log.JSONFormatter
}

func New(level, format string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           ParseLevel(level),
		Formatter:       ParseFormatter(format, os.Stderr),
		ReportTimestamp: true,
		Prefix:          "gantt",
	})
}

// NewWriter logs to w with plain text and no timestamps, for tests.
func NewWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:     ParseLevel(level),
		Formatter: log.TextFormatter,
	})
}
