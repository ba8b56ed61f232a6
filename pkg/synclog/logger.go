package synclog

import "time"

// Logger is the interface applications implement to receive sync events.
// Pass nil or NoopLogger to disable logging.
type Logger interface {
	// Log records a sync event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking affects
	// sync latency.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}

// NewEvent constructs a timestamped event. The remaining fields are set
// by the caller before logging.
func NewEvent(category Category) Event {
	return Event{
		Timestamp: time.Now(),
		Category:  category,
	}
}
