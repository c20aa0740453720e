package log

import (
	"fmt"
	"io"
	"sync"
)

// Level is a progress-log severity, kept separate from slog.Level since
// this logger answers a different question than the structured
// diagnostics log/slog.Logger built by New: not "what did the dispatcher
// do internally" but "what has the sweep gotten through so far," a
// terse always-on line per file for a human watching a long-running run.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func ParseLevel(level string) Level {
	switch level {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	}
	return InfoLevel
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Progress is a small mutex-guarded level logger, adapted from the
// teacher's internal/logger.Logger, retargeted from generic application
// logging to one line per file a sweep finishes with — a format a human
// tailing the run can read directly, no field parsing required.
type Progress struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// NewProgress builds a Progress logger writing to w, suppressing
// anything below minLevel.
func NewProgress(w io.Writer, minLevel Level) *Progress {
	return &Progress{out: w, level: minLevel}
}

func (p *Progress) log(level Level, msg string) {
	if p == nil || level < p.level {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "[%s] %s\n", level.String(), msg)
}

func (p *Progress) Debugf(format string, args ...any) { p.log(DebugLevel, fmt.Sprintf(format, args...)) }
func (p *Progress) Infof(format string, args ...any)  { p.log(InfoLevel, fmt.Sprintf(format, args...)) }
func (p *Progress) Warnf(format string, args ...any)  { p.log(WarnLevel, fmt.Sprintf(format, args...)) }
func (p *Progress) Errorf(format string, args ...any) { p.log(ErrorLevel, fmt.Sprintf(format, args...)) }

// FileDone reports the outcome of characterizing one file: its path, the
// module that claimed it (empty if none did), and its well-formed/valid
// verdict. A file a module rejected as malformed is reported at Warn, not
// Info, so a human tailing --progress on a large sweep can grep severity
// rather than reading every line; a module claiming a file but never
// resolving well-formedness at all is reported at Error, since that
// signals the module itself misbehaved rather than the file.
func (p *Progress) FileDone(path, module, wellFormed, valid string) {
	if module == "" {
		p.Infof("%s: no module recognized this file", path)
		return
	}
	switch wellFormed {
	case "undetermined":
		p.Errorf("%s: module=%s never resolved well-formedness (valid=%s)", path, module, valid)
	case "true":
		p.Infof("%s: module=%s well-formed=%s valid=%s", path, module, wellFormed, valid)
	default:
		p.Warnf("%s: module=%s well-formed=%s valid=%s", path, module, wellFormed, valid)
	}
}
