package trace

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger. Useful for
// development when you want to see handle activity in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("handle_id", event.HandleID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Elem != "" {
		attrs = append(attrs,
			slog.String("elem", event.Elem),
			slog.Uint64("index", uint64(event.Index)),
		)
	}
	if event.NumID != 0 {
		attrs = append(attrs, slog.Uint64("numid", uint64(event.NumID)))
	}
	if event.Mask != 0 {
		attrs = append(attrs, slog.Uint64("mask", uint64(event.Mask)))
	}
	attrs = append(attrs, slog.Int("count", event.Count))
	if event.Err != "" {
		attrs = append(attrs, slog.String("error", event.Err))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
