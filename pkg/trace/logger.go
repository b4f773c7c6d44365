package trace

import "github.com/google/uuid"

// Logger is the interface handles use to emit trace events. Pass nil or
// NoopLogger to disable capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe. The
	// event should be processed quickly or queued; blocking slows the
	// emitting handle.
	Log(event Event)
}

// NoopLogger discards all events. Use when tracing is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// NewHandleID returns a fresh unique handle identifier for correlating
// trace events from one open handle.
func NewHandleID() string {
	return uuid.NewString()
}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
