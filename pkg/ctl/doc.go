// Package ctl provides cached access to primitive control elements.
//
// A driver exposes its controls as a flat, unordered set of named elements
// with read/write/event semantics. This package mirrors that set in memory,
// keeps it sorted by a mixer-oriented heuristic comparator, and translates
// driver notifications into cache mutations and callbacks.
//
// # Layering
//
//	┌────────────────────────────────┐
//	│   mixer (simple elements)      │
//	├────────────────────────────────┤
//	│   ctl.Cache (sorted mirror)    │
//	├────────────────────────────────┤
//	│   ctl.Transport (driver)       │
//	└────────────────────────────────┘
//
// The Transport interface is the boundary to the driver. Implementations
// open a device and provide enumeration, value I/O and an event queue.
// The Cache never touches hardware directly.
//
// # Ordering
//
// Elements are ordered by a compare weight derived from the element name:
// well-known control names ("Master", "PCM", ...) sort before unrelated
// ones, and suffix tokens ("Playback", "Volume", ...) refine the order.
// Ties break by name, then index. A custom comparator may be installed
// with SetCompare; the cache is fully re-sorted.
//
// # Events
//
// HandleEvents drains the transport's pending events synchronously in the
// calling goroutine. An element addition fires the cache callback; value,
// info and removal notifications fire the per-element callback. A Cache is
// not safe for concurrent use; callers multiplexing several caches must
// serialize access themselves.
package ctl
