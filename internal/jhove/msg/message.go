// Package msg implements JHOVE's structured, code-identified diagnostics.
//
// Severity is grounded on the teacher's internal/logger.Level (an ordered
// int enum with a ParseLevel/String round trip); this package generalizes
// that shape from a log level to a diagnostic severity that also carries a
// stable id, formatted text, an optional source offset, and an optional
// nested submessage, per original_source's ErrorMessage/InfoMessage split
// in the tiff-hul module.
package msg

import "fmt"

// Severity ranks a Message's impact on well-formedness/validity.
type Severity int

const (
	// Info is an observation; it never affects WellFormed or Valid.
	Info Severity = iota
	// Warning is out-of-spec but tolerated; WellFormed and Valid stay true.
	Warning
	// Error means the file is well-formed but not valid.
	Error
	// Fatal means the file is not well-formed; the module must stop
	// following its parse chain, but a RepInfo is still returned.
	Fatal
)

func ParseSeverity(s string) Severity {
	switch s {
	case "INFO":
		return Info
	case "WARNING":
		return Warning
	case "ERROR":
		return Error
	case "FATAL":
		return Fatal
	}
	return Info
}

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Message is a stable-id, structured diagnostic. Ids are namespaced per
// module (TIFF-HUL-, JPEG-HUL-, EPUB-, PKG-) and are a public contract:
// once released, an id's meaning must not change.
type Message struct {
	ID         string
	Text       string
	Severity   Severity
	Offset     *int64
	Submessage *Message
}

func newMessage(id, text string, sev Severity, offset *int64) Message {
	return Message{ID: id, Text: text, Severity: sev, Offset: offset}
}

func NewInfo(id, text string) Message { return newMessage(id, text, Info, nil) }

func NewInfoAt(id, text string, offset int64) Message {
	return newMessage(id, text, Info, &offset)
}

func NewWarning(id, text string) Message { return newMessage(id, text, Warning, nil) }

func NewWarningAt(id, text string, offset int64) Message {
	return newMessage(id, text, Warning, &offset)
}

func NewError(id, text string) Message { return newMessage(id, text, Error, nil) }

func NewErrorAt(id, text string, offset int64) Message {
	return newMessage(id, text, Error, &offset)
}

func NewFatal(id, text string) Message { return newMessage(id, text, Fatal, nil) }

func NewFatalAt(id, text string, offset int64) Message {
	return newMessage(id, text, Fatal, &offset)
}

// WithSubmessage returns a copy of m carrying sub as nested detail.
func (m Message) WithSubmessage(sub Message) Message {
	m.Submessage = &sub
	return m
}

func (m Message) String() string {
	if m.Offset != nil {
		return fmt.Sprintf("[%s] %s: %s (offset %d)", m.Severity, m.ID, m.Text, *m.Offset)
	}
	return fmt.Sprintf("[%s] %s: %s", m.Severity, m.ID, m.Text)
}

// FatalError wraps a Fatal Message so it can be returned as a Go error
// from deep in a parse routine and bubbled to the outermost Module.Parse,
// which converts it into a Message on RepInfo. No module may let any other
// kind of unstructured error or panic escape to the Dispatcher.
type FatalError struct {
	Message Message
}

func NewFatalError(id, text string, offset int64) *FatalError {
	return &FatalError{Message: NewFatalAt(id, text, offset)}
}

func (e *FatalError) Error() string { return e.Message.String() }
