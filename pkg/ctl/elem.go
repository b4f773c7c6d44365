package ctl

// ElemCallback receives per-element notifications: value changes, info
// changes and removal. For removal the cache invokes it before the element
// is unlinked, so subscribers can detach first.
type ElemCallback func(elem *Elem, mask EventMask) error

// Elem is one cached control element. Elements are owned by the Cache that
// created them; the pointers handed out by Find and the iteration methods
// stay valid until the element is removed.
type Elem struct {
	cache *Cache

	id ElemID

	// compareWeight is derived once at creation and immutable afterwards;
	// the sorted index depends on it never changing.
	compareWeight int

	// prev/next keep the ordered traversal in sync with the sorted slice.
	prev, next *Elem

	callback        ElemCallback
	callbackPrivate any
}

// ID returns the element identifier.
func (e *Elem) ID() ElemID {
	return e.id
}

// NumID returns the driver-assigned numeric identifier.
func (e *Elem) NumID() uint32 {
	return e.id.NumID
}

// Iface returns the interface class.
func (e *Elem) Iface() Iface {
	return e.id.Iface
}

// Name returns the element name.
func (e *Elem) Name() string {
	return e.id.Name
}

// Index returns the element index.
func (e *Elem) Index() uint32 {
	return e.id.Index
}

// Cache returns the owning cache.
func (e *Elem) Cache() *Cache {
	return e.cache
}

// Info describes the element's value shape, passed through the transport.
func (e *Elem) Info() (ElemInfo, error) {
	return e.cache.transport.Info(e.id)
}

// ReadValue reads the element's current value through the transport.
func (e *Elem) ReadValue() (Value, error) {
	return e.cache.transport.ReadValue(e.id)
}

// WriteValue writes the element's value through the transport and reports
// whether it changed.
func (e *Elem) WriteValue(v Value) (bool, error) {
	return e.cache.transport.WriteValue(e.id, v)
}

// SetCallback installs the per-element notification callback.
func (e *Elem) SetCallback(cb ElemCallback) {
	e.callback = cb
}

// SetCallbackPrivate stores an opaque value alongside the callback. The
// mixer layer keeps the element's attachment bag here.
func (e *Elem) SetCallbackPrivate(v any) {
	e.callbackPrivate = v
}

// CallbackPrivate returns the opaque value stored with SetCallbackPrivate.
func (e *Elem) CallbackPrivate() any {
	return e.callbackPrivate
}

// Next returns the element following e in sorted order, or nil at the end.
func (e *Elem) Next() *Elem {
	return e.next
}

// Prev returns the element preceding e in sorted order, or nil at the
// start.
func (e *Elem) Prev() *Elem {
	return e.prev
}

func (e *Elem) throwEvent(mask EventMask) error {
	if e.callback != nil {
		return e.callback(e, mask)
	}
	return nil
}
