package mixer

import (
	"github.com/openmixer/mixer-go/pkg/ctl"
)

// elemNameMax bounds the name part of a simple element identifier.
const elemNameMax = 60

// ElemID identifies a simple element. The namespace is separate from raw
// element identifiers: there is no interface class and the name is bounded
// by elemNameMax bytes.
type ElemID struct {
	Name  string
	Index uint32
}

// NewElemID builds an identifier, truncating the name to its bound.
func NewElemID(name string, index uint32) ElemID {
	if len(name) > elemNameMax {
		name = name[:elemNameMax]
	}
	return ElemID{Name: name, Index: index}
}

// ElemCallback receives per-element notifications.
type ElemCallback func(e *Elem, mask ctl.EventMask) error

// Elem is one simple element: a user-facing control group backed by one or
// more raw elements. Elems are created by Mixer.NewElem, registered with
// Mixer.Add, and live until Mixer.Remove.
type Elem struct {
	mixer *Mixer

	prev, next *Elem

	id            ElemID
	compareWeight int

	caps         Caps
	ops          Ops
	captureGroup int

	// helems are the raw elements backing this simple element.
	helems *Bag[*ctl.Elem]

	private     any
	privateFree func(*Elem)

	callback        ElemCallback
	callbackPrivate any
}

// ID returns the simple element identifier.
func (e *Elem) ID() ElemID {
	return e.id
}

// Name returns the name part of the identifier.
func (e *Elem) Name() string {
	return e.id.Name
}

// Index returns the index part of the identifier.
func (e *Elem) Index() uint32 {
	return e.id.Index
}

// Mixer returns the owning mixer.
func (e *Elem) Mixer() *Mixer {
	return e.mixer
}

// Caps returns the capability bit-set.
func (e *Elem) Caps() Caps {
	return e.caps
}

// SetCaps installs the capability bit-set. For backend use.
func (e *Elem) SetCaps(caps Caps) {
	e.caps = caps
}

// SetOps installs the capability table. For backend use.
func (e *Elem) SetOps(ops Ops) {
	e.ops = ops
}

// CaptureGroup returns the exclusive capture group.
func (e *Elem) CaptureGroup() int {
	return e.captureGroup
}

// SetCaptureGroup sets the exclusive capture group. For backend use.
func (e *Elem) SetCaptureGroup(group int) {
	e.captureGroup = group
}

// Private returns the backend-private data supplied at creation.
func (e *Elem) Private() any {
	return e.private
}

// SetCallback installs the per-element notification callback.
func (e *Elem) SetCallback(cb ElemCallback) {
	e.callback = cb
}

// SetCallbackPrivate stores an opaque value alongside the callback.
func (e *Elem) SetCallbackPrivate(v any) {
	e.callbackPrivate = v
}

// CallbackPrivate returns the opaque value stored with SetCallbackPrivate.
func (e *Elem) CallbackPrivate() any {
	return e.callbackPrivate
}

// Next returns the following simple element in sorted order, or nil.
func (e *Elem) Next() *Elem {
	return e.next
}

// Prev returns the preceding simple element in sorted order, or nil.
func (e *Elem) Prev() *Elem {
	return e.prev
}

// Attach binds a raw element to this simple element. Both sides of the
// attachment relation are updated together: the raw element's bag gains
// this element and helems gains the raw element. A raw element whose bag
// was released gets a fresh one. For backend use.
func (e *Elem) Attach(h *ctl.Elem) error {
	bag, _ := h.CallbackPrivate().(*Bag[*Elem])
	if bag == nil {
		bag = NewBag[*Elem]()
		h.SetCallbackPrivate(bag)
		h.SetCallback(e.mixer.ctlElemEvent)
	}
	bag.Add(e)
	e.helems.Add(h)
	return nil
}

// Detach unbinds a raw element from this simple element, the exact inverse
// of Attach. It is idempotent against partial teardown: detaching an
// unattached pair is a no-op. Detaching the last simple element from a raw
// element releases the raw element's bag. For backend use.
func (e *Elem) Detach(h *ctl.Elem) error {
	if bag, _ := h.CallbackPrivate().(*Bag[*Elem]); bag != nil {
		bag.Del(e)
		if bag.Empty() {
			h.SetCallbackPrivate(nil)
		}
	}
	e.helems.Del(h)
	return nil
}

// IsEmpty reports whether the simple element has no raw elements
// attached. An empty element is a candidate for removal.
func (e *Elem) IsEmpty() bool {
	return e.helems.Empty()
}

// RawElems returns a snapshot of the attached raw elements.
func (e *Elem) RawElems() []*ctl.Elem {
	return e.helems.Items()
}

// ThrowInfoEvent republishes an info change for this simple element. For
// backend use, from its raw-element event handler.
func (e *Elem) ThrowInfoEvent() error {
	return e.mixer.throwElemEvent(e, ctl.MaskInfo)
}

// ThrowValueEvent republishes a value change for this simple element. For
// backend use, from its raw-element event handler.
func (e *Elem) ThrowValueEvent() error {
	return e.mixer.throwElemEvent(e, ctl.MaskValue)
}

// free releases backend-private data. Called once, on removal.
func (e *Elem) free() {
	if e.privateFree != nil {
		e.privateFree(e)
		e.privateFree = nil
	}
}
