package synclog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes sync events to an slog.Logger.
// Useful for development when you want to see sync activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Failures log at Warn level,
// everything else at Debug.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}

	if event.Generation != 0 {
		attrs = append(attrs, slog.Uint64("generation", event.Generation))
	}
	if event.Topic != "" {
		attrs = append(attrs, slog.String("topic", event.Topic))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	level := slog.LevelDebug
	if event.Category == CategorySyncFailed {
		level = slog.LevelWarn
	}

	a.logger.LogAttrs(context.Background(), level, "sync event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
