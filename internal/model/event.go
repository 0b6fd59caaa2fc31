package model

import "slices"

// EventKind discriminates the Event union
type EventKind int

const (
	// EventLine carries one line of log text
	EventLine EventKind = iota
	// EventStreams carries a freshly parsed stream list
	EventStreams
)

// Severity tags a log line for rendering
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeveritySuccess
	SeverityError
)

// String returns a short lowercase name for the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

// Event is produced by background workers and consumed by the UI drain loop.
// Exactly one of Text or Streams is meaningful, selected by Kind.
type Event struct {
	Kind     EventKind
	Text     string
	Severity Severity
	Streams  []string
}

// LineEvent creates a log line event
func LineEvent(text string, severity Severity) Event {
	return Event{Kind: EventLine, Text: text, Severity: severity}
}

// StreamListEvent creates a stream list event. The slice is copied so the
// producer may keep mutating its own.
func StreamListEvent(streams []string) Event {
	return Event{Kind: EventStreams, Streams: slices.Clone(streams)}
}

// IsLine reports whether the event is a log line
func (e Event) IsLine() bool {
	return e.Kind == EventLine
}
