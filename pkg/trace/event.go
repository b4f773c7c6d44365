package trace

import "time"

// Event records one action taken by a control cache or mixer handle.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// HandleID uniquely identifies the emitting handle (UUID).
	HandleID string `cbor:"2,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"3,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	// Elem is the element name, when the event concerns one element.
	Elem string `cbor:"5,keyasint,omitempty"`

	// Index is the element index.
	Index uint32 `cbor:"6,keyasint,omitempty"`

	// NumID is the driver-assigned numeric id of a raw element.
	NumID uint32 `cbor:"7,keyasint,omitempty"`

	// Mask is the raw notification mask, for value/info/remove events.
	Mask uint `cbor:"8,keyasint,omitempty"`

	// Count is the element count of the handle after the event.
	Count int `cbor:"9,keyasint,omitempty"`

	// Err carries an error message, for CategoryError events.
	Err string `cbor:"10,keyasint,omitempty"`
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerCtl is the raw control cache layer.
	LayerCtl Layer = 0
	// LayerMixer is the abstracted mixer layer.
	LayerMixer Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerCtl:
		return "CTL"
	case LayerMixer:
		return "MIXER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies a trace event.
type Category uint8

const (
	// CategoryLoad is a bulk enumeration of the element set.
	CategoryLoad Category = iota
	// CategoryAdded is an element insertion.
	CategoryAdded
	// CategoryRemoved is an element removal.
	CategoryRemoved
	// CategoryValue is a value-changed notification.
	CategoryValue
	// CategoryInfo is an info-changed notification.
	CategoryInfo
	// CategoryResort is a comparator change with full re-sort.
	CategoryResort
	// CategoryWrite is a control value write.
	CategoryWrite
	// CategoryError is a failure surfaced to the caller.
	CategoryError
)

// String returns the category name.
func (c Category) String() string {
	names := []string{
		"LOAD", "ADDED", "REMOVED", "VALUE", "INFO", "RESORT", "WRITE", "ERROR",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "UNKNOWN"
}
