// Package mixer presents raw control elements as abstracted "simple"
// elements.
//
// A simple element groups one or more raw elements (a volume and its mute
// switch, say) behind a single identifier and a capability bit-set. The
// grouping decision and the value semantics (volume scaling, dB
// conversion, enumerated items) belong to a backend; this package owns the
// relationship bookkeeping and event routing.
//
// # Model
//
//	Mixer ──owns──▶ Elem (simple element, sorted)
//	  │                │
//	  │             helems bag
//	  ▼                ▼
//	ctl.Cache ─owns─▶ ctl.Elem (raw element, sorted)
//
// Attachment is many-to-many: each raw element carries a bag of the simple
// elements referencing it, and each simple element carries a bag of its
// raw elements. Both sides are updated together; removing either side
// never leaves a dangling reference on the other.
//
// # Events
//
// Raw-element notifications fan out through the attachment bags: a value
// or info change reaches every attached simple element, a removal
// additionally detaches them and releases the raw element's bag. The
// mixer republishes these as simple-element events through its callback
// and counts them per HandleEvents drain.
//
// # Backends
//
// Backends are compiled in and selected by type string via Register/Open.
// A backend attaches the configured transports, decides which raw elements
// compose each simple element, and installs the Ops capability table that
// the query/set façade dispatches through. The built-in "none" backend
// attaches transports without abstracting anything.
package mixer
