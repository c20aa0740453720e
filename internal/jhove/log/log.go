// Package log provides the two logging idioms this repository carries
// forward from the teacher, kept side by side for two different
// audiences rather than collapsed into one: an operator-facing
// structured logger for the dispatch loop's own diagnostics (grounded on
// the teacher's internal/scan.go setupLogger, which builds a
// log/slog.Logger writing to a file or discarding output based on
// whether logging is enabled), and the small mutex-guarded level logger
// the teacher hand-rolled for lower-level, always-on progress lines
// (internal/logger.Logger).
package log

import (
	"io"
	"log/slog"
	"os"
)

// ParseSlogLevel maps a level name to a slog.Level, defaulting to Info
// for anything unrecognized.
func ParseSlogLevel(name string) slog.Level {
	switch name {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a log/slog.Logger writing to path at minLevel, or a
// discarding logger when path is empty, matching setupLogger's
// enabled/disabled split. The returned file, if non-nil, must be closed
// by the caller.
func New(path string, minLevel slog.Level) (*slog.Logger, *os.File, error) {
	var w io.Writer
	var f *os.File

	if path == "" {
		w = io.Discard
	} else {
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: minLevel})), f, nil
}
