package ctl

import "time"

// Iface identifies the interface class a control element belongs to.
type Iface int

// Interface classes, in comparator order.
const (
	IfaceCard Iface = iota
	IfaceHwdep
	IfaceMixer
	IfacePCM
	IfaceRawmidi
	IfaceTimer
	IfaceSequencer
)

// String returns the interface class name.
func (i Iface) String() string {
	names := []string{
		"CARD", "HWDEP", "MIXER", "PCM", "RAWMIDI", "TIMER", "SEQUENCER",
	}
	if int(i) < len(names) {
		return names[i]
	}
	return "UNKNOWN"
}

// ElemID identifies one primitive control element.
type ElemID struct {
	// NumID is the driver-assigned numeric identifier. It is stable for
	// the lifetime of the control.
	NumID uint32

	// Iface is the interface class.
	Iface Iface

	// Name is the element name.
	Name string

	// Index disambiguates same-named controls.
	Index uint32
}

// ElemType is the value type of a control element.
type ElemType int

// Element value types.
const (
	TypeNone ElemType = iota
	TypeBoolean
	TypeInteger
	TypeEnumerated
)

// ElemInfo describes the value shape of a control element.
type ElemInfo struct {
	// Type is the value type.
	Type ElemType

	// Count is the number of channels.
	Count int

	// Min and Max bound integer values.
	Min, Max int64

	// DBMin and DBMax bound the dB scale (dB * 100) when the driver
	// reports one. Both zero means no dB information.
	DBMin, DBMax int64

	// Items holds the item names of an enumerated element.
	Items []string

	// Inactive reports whether the element is currently inactive.
	Inactive bool
}

// Value holds per-channel values of a control element. Booleans are
// carried as 0/1, enumerated items as item indexes.
type Value []int64

// EventMask classifies a driver notification.
type EventMask uint

// Event mask bits. MaskRemoved is exclusive: a removal notification never
// carries other bits.
const (
	MaskValue EventMask = 1 << iota
	MaskInfo
	MaskAdded

	MaskRemoved EventMask = 0
)

// Event is one driver notification.
type Event struct {
	Mask EventMask
	ID   ElemID
}

// Transport is the driver boundary consumed by the Cache. Opening the
// device, value I/O and the event queue live behind this interface;
// implementations are expected to be used from a single goroutine.
type Transport interface {
	// List enumerates the identifiers of all current elements. The
	// element set may grow while enumerating; Cache.Load re-invokes List
	// until the returned count stabilizes.
	List() ([]ElemID, error)

	// Info describes the value shape of an element.
	Info(id ElemID) (ElemInfo, error)

	// ReadValue reads the current value of an element.
	ReadValue(id ElemID) (Value, error)

	// WriteValue writes a value and reports whether it changed.
	WriteValue(id ElemID, v Value) (bool, error)

	// SubscribeEvents enables or disables event delivery.
	SubscribeEvents(enable bool) error

	// NextEvent dequeues one pending event, or ErrWouldBlock when the
	// queue is drained.
	NextEvent() (Event, error)

	// Wait blocks until an event is pending or the timeout elapses and
	// reports whether the transport is ready. A zero timeout polls
	// without blocking.
	Wait(timeout time.Duration) (bool, error)

	// Close releases the transport.
	Close() error
}
