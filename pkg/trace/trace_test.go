package trace

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func sampleEvents(handleID string) []Event {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Event{
		{
			Timestamp: base,
			HandleID:  handleID,
			Layer:     LayerCtl,
			Category:  CategoryLoad,
			Count:     3,
		},
		{
			Timestamp: base.Add(time.Second),
			HandleID:  handleID,
			Layer:     LayerCtl,
			Category:  CategoryValue,
			Elem:      "Master Playback Volume",
			NumID:     3,
			Mask:      1,
			Count:     3,
		},
		{
			Timestamp: base.Add(2 * time.Second),
			HandleID:  handleID,
			Layer:     LayerMixer,
			Category:  CategoryAdded,
			Elem:      "Master",
			Count:     1,
		},
	}
}

func writeTrace(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.cbor")
	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, ev := range events {
		l.Log(ev)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, ev)
	}
}

func TestFileLoggerRoundTrip(t *testing.T) {
	handleID := NewHandleID()
	events := sampleEvents(handleID)
	path := writeTrace(t, events)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}
	for i, ev := range got {
		want := events[i]
		if ev.HandleID != want.HandleID || ev.Layer != want.Layer ||
			ev.Category != want.Category || ev.Elem != want.Elem ||
			ev.NumID != want.NumID || ev.Count != want.Count {
			t.Errorf("event %d = %+v, want %+v", i, ev, want)
		}
		if !ev.Timestamp.Equal(want.Timestamp) {
			t.Errorf("event %d timestamp = %v, want %v", i, ev.Timestamp, want.Timestamp)
		}
	}
}

func TestFileLoggerAppends(t *testing.T) {
	handleID := NewHandleID()
	events := sampleEvents(handleID)
	path := writeTrace(t, events[:2])

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.Log(events[2])
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	if got := readAll(t, r); len(got) != 3 {
		t.Fatalf("read %d events, want 3", len(got))
	}
}

func TestFileLoggerLogAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")
	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	l.Log(Event{HandleID: "x"})
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestReaderFilter(t *testing.T) {
	handleID := NewHandleID()
	path := writeTrace(t, sampleEvents(handleID))

	t.Run("by layer", func(t *testing.T) {
		layer := LayerMixer
		r, err := NewFilteredReader(path, Filter{Layer: &layer})
		if err != nil {
			t.Fatalf("NewFilteredReader: %v", err)
		}
		defer r.Close()
		got := readAll(t, r)
		if len(got) != 1 || got[0].Category != CategoryAdded {
			t.Fatalf("got %+v, want one mixer ADDED event", got)
		}
	})

	t.Run("by category", func(t *testing.T) {
		cat := CategoryValue
		r, err := NewFilteredReader(path, Filter{Category: &cat})
		if err != nil {
			t.Fatalf("NewFilteredReader: %v", err)
		}
		defer r.Close()
		got := readAll(t, r)
		if len(got) != 1 || got[0].Elem != "Master Playback Volume" {
			t.Fatalf("got %+v, want one VALUE event", got)
		}
	})

	t.Run("by elem", func(t *testing.T) {
		r, err := NewFilteredReader(path, Filter{Elem: "Master"})
		if err != nil {
			t.Fatalf("NewFilteredReader: %v", err)
		}
		defer r.Close()
		if got := readAll(t, r); len(got) != 1 {
			t.Fatalf("got %d events, want 1", len(got))
		}
	})

	t.Run("by time window", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC)
		end := start.Add(time.Second)
		r, err := NewFilteredReader(path, Filter{TimeStart: &start, TimeEnd: &end})
		if err != nil {
			t.Fatalf("NewFilteredReader: %v", err)
		}
		defer r.Close()
		got := readAll(t, r)
		if len(got) != 1 || got[0].Category != CategoryValue {
			t.Fatalf("got %+v, want the middle event", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		r, err := NewFilteredReader(path, Filter{HandleID: "other"})
		if err != nil {
			t.Fatalf("NewFilteredReader: %v", err)
		}
		defer r.Close()
		if got := readAll(t, r); len(got) != 0 {
			t.Fatalf("got %d events, want 0", len(got))
		}
	})
}

// collectLogger records events for assertions.
type collectLogger struct {
	events []Event
}

func (c *collectLogger) Log(event Event) {
	c.events = append(c.events, event)
}

func TestMultiLogger(t *testing.T) {
	a := &collectLogger{}
	b := &collectLogger{}
	ml := NewMultiLogger(a, b, NoopLogger{})

	ml.Log(Event{HandleID: "h", Category: CategoryWrite})
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("fan-out failed: a=%d b=%d", len(a.events), len(b.events))
	}
	if a.events[0].Category != CategoryWrite {
		t.Fatalf("wrong category: %v", a.events[0].Category)
	}
}

func TestSlogAdapter(t *testing.T) {
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	adapter.Log(Event{
		HandleID: "h",
		Layer:    LayerCtl,
		Category: CategoryValue,
		Elem:     "Master Playback Volume",
	})
}

func TestCategoryString(t *testing.T) {
	tests := map[Category]string{
		CategoryLoad:    "LOAD",
		CategoryAdded:   "ADDED",
		CategoryRemoved: "REMOVED",
		CategoryValue:   "VALUE",
		CategoryInfo:    "INFO",
		CategoryResort:  "RESORT",
		CategoryWrite:   "WRITE",
		CategoryError:   "ERROR",
		Category(99):    "UNKNOWN",
	}
	for cat, want := range tests {
		if got := cat.String(); got != want {
			t.Errorf("Category(%d).String() = %q, want %q", cat, got, want)
		}
	}
}

func TestNewHandleID(t *testing.T) {
	a, b := NewHandleID(), NewHandleID()
	if a == "" || a == b {
		t.Fatalf("handle ids not unique: %q %q", a, b)
	}
}
