// Package trace provides structured event capture for the control and
// mixer layers.
//
// This package defines the Logger interface and Event type for recording
// cache and mixer activity (loads, element add/remove, value changes,
// re-sorts). It is separate from operational logging (slog) - trace capture
// provides a machine-readable record of what a handle did, suitable for
// debugging ordering and event-routing issues after the fact.
//
// # Basic Usage
//
// Handles accept a Logger; pass nil or NoopLogger to disable capture:
//
//	// For development: log to console via slog
//	cache.SetTracer(trace.NewSlogAdapter(slog.Default()))
//
//	// For later analysis: write to a binary file
//	fl, _ := trace.NewFileLogger("/tmp/mixer.mtrace")
//	cache.SetTracer(fl)
//
//	// Both: use MultiLogger
//	cache.SetTracer(trace.NewMultiLogger(trace.NewSlogAdapter(slog.Default()), fl))
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys. The
// Reader type iterates a file, optionally filtered by handle, layer,
// category or time range.
package trace
