package mixer

import (
	"fmt"
	"sort"
	"time"

	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/trace"
)

// allocChunk is the growth step of the sorted slice, matching the raw
// cache.
const allocChunk = 32

// Compare is a simple-element ordering function.
type Compare func(a, b *Elem) int

// Callback receives mixer-level notifications: simple-element additions,
// removals and changes.
type Callback func(m *Mixer, mask ctl.EventMask, elem *Elem) error

// BackendEvent is the backend's raw-event hook. The mixer calls it for
// every raw-element notification relevant to the backend: additions carry
// a nil melem; value, info and removal notifications are delivered once
// per attached simple element.
type BackendEvent func(m *Mixer, mask ctl.EventMask, helem *ctl.Elem, melem *Elem) error

// Mixer owns the sorted set of simple elements and the control caches
// they are built from. All mutations happen synchronously in the calling
// goroutine; a Mixer must be externally serialized if shared.
type Mixer struct {
	ctls []*ctl.Cache

	elems      []*Elem
	head, tail *Elem
	count      int

	// events counts mixer-level events thrown since the last
	// HandleEvents drain started.
	events int

	compare         Compare
	callback        Callback
	callbackPrivate any
	event           BackendEvent

	handleID string
	tracer   trace.Logger
}

// New creates an empty mixer with the default comparator. Most callers
// use Open, which also resolves and runs a backend.
func New() *Mixer {
	return &Mixer{
		compare:  DefaultCompare,
		handleID: trace.NewHandleID(),
		tracer:   trace.NoopLogger{},
	}
}

// SetTracer installs a trace logger. Pass nil to disable tracing. The
// tracer is propagated to caches attached afterwards.
func (m *Mixer) SetTracer(l trace.Logger) {
	if l == nil {
		l = trace.NoopLogger{}
	}
	m.tracer = l
}

// HandleID returns the unique identifier of this mixer handle.
func (m *Mixer) HandleID() string {
	return m.handleID
}

// DefaultCompare orders simple elements by compare weight, then name,
// then index.
func DefaultCompare(a, b *Elem) int {
	if d := a.compareWeight - b.compareWeight; d != 0 {
		return d
	}
	if a.id.Name != b.id.Name {
		if a.id.Name < b.id.Name {
			return -1
		}
		return 1
	}
	return int(a.id.Index) - int(b.id.Index)
}

// Attach wires a control cache into the mixer: cache-level events create
// attachment bags and reach the backend, element-level events fan out to
// attached simple elements. Attaching the same cache twice fails with
// ErrBusy.
func (m *Mixer) Attach(c *ctl.Cache) error {
	for _, have := range m.ctls {
		if have == c {
			return ctl.ErrBusy
		}
	}
	c.SetTracer(m.tracer)
	c.SetCallback(m.ctlEvent)
	c.SetCallbackPrivate(m)
	if err := c.SubscribeEvents(true); err != nil {
		return fmt.Errorf("subscribing events: %w", err)
	}
	m.ctls = append(m.ctls, c)
	return nil
}

// Caches returns the attached control caches.
func (m *Mixer) Caches() []*ctl.Cache {
	return m.ctls
}

// ctlEvent is the cache-level bridge. A raw-element addition allocates
// the element's attachment bag, installs the element-level bridge and
// hands the element to the backend.
func (m *Mixer) ctlEvent(c *ctl.Cache, mask ctl.EventMask, helem *ctl.Elem) error {
	if mask&ctl.MaskAdded != 0 {
		bag := NewBag[*Elem]()
		helem.SetCallback(m.ctlElemEvent)
		helem.SetCallbackPrivate(bag)
		if m.event != nil {
			if err := m.event(m, mask, helem, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// ctlElemEvent is the element-level bridge. Value and info changes fan
// out to every attached simple element, short-circuiting on the first
// error. A removal is delivered to every attached simple element even if
// one fails (last error wins), each one is detached afterwards, and the
// emptied bag is released before the raw element goes away.
func (m *Mixer) ctlElemEvent(helem *ctl.Elem, mask ctl.EventMask) error {
	bag, _ := helem.CallbackPrivate().(*Bag[*Elem])
	if bag == nil {
		return nil
	}
	if mask == ctl.MaskRemoved {
		var res error
		for _, melem := range bag.Items() {
			if m.event != nil {
				if err := m.event(m, mask, helem, melem); err != nil {
					res = err
				}
			}
			// Backends normally detach in their event hook; guarantee
			// it here so the bag never outlives the raw element.
			if bag.Contains(melem) {
				_ = melem.Detach(helem)
			}
		}
		helem.SetCallbackPrivate(nil)
		helem.SetCallback(nil)
		return res
	}
	if mask&(ctl.MaskValue|ctl.MaskInfo) != 0 {
		for _, melem := range bag.Items() {
			if m.event != nil {
				if err := m.event(m, mask, helem, melem); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// NewElem allocates a simple element. The element starts unattached and
// unregistered; backends attach raw elements and then Add it.
func (m *Mixer) NewElem(id ElemID, compareWeight int, private any, privateFree func(*Elem)) *Elem {
	return &Elem{
		mixer:         m,
		id:            id,
		compareWeight: compareWeight,
		helems:        NewBag[*ctl.Elem](),
		private:       private,
		privateFree:   privateFree,
	}
}

// findPos binary-searches for e's sorted position. Same contract as the
// raw cache: dir == 0 means found at idx.
func (m *Mixer) findPos(e *Elem) (idx, dir int) {
	if m.compare == nil {
		panic("mixer: no comparator installed")
	}
	idx = -1
	l, u := 0, m.count
	for l < u {
		idx = (l + u) / 2
		dir = m.compare(e, m.elems[idx])
		switch {
		case dir < 0:
			u = idx
		case dir > 0:
			l = idx + 1
		default:
			return idx, 0
		}
	}
	return idx, dir
}

func (m *Mixer) grow() {
	if m.count < cap(m.elems) {
		m.elems = m.elems[:m.count+1]
		return
	}
	grown := make([]*Elem, m.count+1, cap(m.elems)+allocChunk)
	copy(grown, m.elems)
	m.elems = grown
}

// Add registers a simple element, inserting it at its sorted position and
// firing an "added" event to the mixer callback.
func (m *Mixer) Add(e *Elem) error {
	m.grow()
	if m.count == 0 {
		m.elems[0] = e
		m.head, m.tail = e, e
	} else {
		idx, dir := m.findPos(e)
		if dir == 0 {
			panic("mixer: duplicate simple element id")
		}
		if dir > 0 {
			at := m.elems[idx]
			e.prev, e.next = at, at.next
			idx++
		} else {
			at := m.elems[idx]
			e.prev, e.next = at.prev, at
		}
		if e.prev != nil {
			e.prev.next = e
		} else {
			m.head = e
		}
		if e.next != nil {
			e.next.prev = e
		} else {
			m.tail = e
		}
		copy(m.elems[idx+1:m.count+1], m.elems[idx:m.count])
		m.elems[idx] = e
	}
	m.count++
	m.trace(trace.CategoryAdded, e.id, uint(ctl.MaskAdded))
	return m.throwEvent(ctl.MaskAdded, e)
}

// Remove unregisters a simple element: every remaining raw element is
// detached first, the "removed" event fires, the element is unlinked and
// its backend-private data freed. Removing an element that is not
// registered fails with ErrInvalidArgument.
func (m *Mixer) Remove(e *Elem) error {
	if m.count == 0 {
		return ErrInvalidArgument
	}
	idx, dir := m.findPos(e)
	if dir != 0 {
		return ErrInvalidArgument
	}
	for _, helem := range e.helems.Items() {
		_ = e.Detach(helem)
	}
	err := m.throwElemEvent(e, ctl.MaskRemoved)
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		m.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		m.tail = e.prev
	}
	e.prev, e.next = nil, nil
	m.count--
	copy(m.elems[idx:m.count], m.elems[idx+1:m.count+1])
	m.elems[m.count] = nil
	m.elems = m.elems[:m.count]
	e.free()
	m.trace(trace.CategoryRemoved, e.id, uint(ctl.MaskRemoved))
	return err
}

// sortElems fully re-sorts under the active comparator and rebuilds the
// traversal links.
func (m *Mixer) sortElems() {
	sort.SliceStable(m.elems[:m.count], func(i, j int) bool {
		return m.compare(m.elems[i], m.elems[j]) < 0
	})
	m.head, m.tail = nil, nil
	var prev *Elem
	for i := 0; i < m.count; i++ {
		e := m.elems[i]
		e.prev = prev
		e.next = nil
		if prev == nil {
			m.head = e
		} else {
			prev.next = e
		}
		prev = e
	}
	m.tail = prev
}

// SetCompare replaces the active comparator and re-sorts. A nil
// comparator installs DefaultCompare. On failure the prior comparator
// and order remain valid.
func (m *Mixer) SetCompare(cmp Compare) error {
	if cmp == nil {
		cmp = DefaultCompare
	}
	prior := m.compare
	m.compare = cmp
	if err := m.resort(); err != nil {
		m.compare = prior
		return err
	}
	return nil
}

func (m *Mixer) resort() error {
	m.sortElems()
	m.trace(trace.CategoryResort, ElemID{}, 0)
	return nil
}

// Find returns the simple element with the given id, or nil. Lookup by
// identifier cannot use the sorted index (the comparator orders by
// weight first), so it walks the list.
func (m *Mixer) Find(id ElemID) *Elem {
	for e := m.head; e != nil; e = e.next {
		if e.id.Name == id.Name && e.id.Index == id.Index {
			return e
		}
	}
	return nil
}

// First returns the first simple element in sorted order, or nil.
func (m *Mixer) First() *Elem {
	return m.head
}

// Last returns the last simple element in sorted order, or nil.
func (m *Mixer) Last() *Elem {
	return m.tail
}

// Count returns the number of registered simple elements.
func (m *Mixer) Count() int {
	return m.count
}

// SetCallback installs the mixer-level notification callback.
func (m *Mixer) SetCallback(cb Callback) {
	m.callback = cb
}

// SetCallbackPrivate stores an opaque value alongside the callback.
func (m *Mixer) SetCallbackPrivate(v any) {
	m.callbackPrivate = v
}

// CallbackPrivate returns the opaque value stored with
// SetCallbackPrivate.
func (m *Mixer) CallbackPrivate() any {
	return m.callbackPrivate
}

// SetBackendEvent installs the backend's raw-event hook. For backend use,
// during open.
func (m *Mixer) SetBackendEvent(ev BackendEvent) {
	m.event = ev
}

// throwEvent publishes a mixer-level event, counting it.
func (m *Mixer) throwEvent(mask ctl.EventMask, e *Elem) error {
	m.events++
	if m.callback != nil {
		return m.callback(m, mask, e)
	}
	return nil
}

// throwElemEvent publishes a simple-element event, counting it.
func (m *Mixer) throwElemEvent(e *Elem, mask ctl.EventMask) error {
	m.events++
	if e.callback != nil {
		return e.callback(e, mask)
	}
	return nil
}

// HandleEvents drains pending events on every attached cache, applying
// them to the caches and republishing them as simple-element events. It
// returns the number of mixer-level events that occurred.
func (m *Mixer) HandleEvents() (int, error) {
	m.events = 0
	for _, c := range m.ctls {
		if _, err := c.HandleEvents(); err != nil {
			return m.events, err
		}
	}
	return m.events, nil
}

// waitPollInterval paces the combined-readiness poll loop over several
// caches.
const waitPollInterval = time.Millisecond

// Wait blocks until at least one attached cache has a pending event or
// the timeout elapses, and reports readiness. A zero timeout polls
// without blocking. Blocking without a timeout is not supported.
func (m *Mixer) Wait(timeout time.Duration) (bool, error) {
	if len(m.ctls) == 1 {
		return m.ctls[0].Wait(timeout)
	}
	deadline := time.Now().Add(timeout)
	for {
		for _, c := range m.ctls {
			ready, err := c.Wait(0)
			if err != nil {
				return false, err
			}
			if ready {
				return true, nil
			}
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		if remaining > waitPollInterval {
			remaining = waitPollInterval
		}
		time.Sleep(remaining)
	}
}

// Close removes all simple elements and closes every attached cache.
func (m *Mixer) Close() error {
	var res error
	for m.tail != nil {
		if err := m.Remove(m.tail); err != nil {
			res = err
		}
	}
	for _, c := range m.ctls {
		if err := c.Close(); err != nil {
			res = err
		}
	}
	m.ctls = nil
	m.elems = nil
	return res
}

func (m *Mixer) trace(cat trace.Category, id ElemID, mask uint) {
	m.tracer.Log(trace.Event{
		Timestamp: time.Now(),
		HandleID:  m.handleID,
		Layer:     trace.LayerMixer,
		Category:  cat,
		Elem:      id.Name,
		Index:     id.Index,
		Mask:      mask,
		Count:     m.count,
	})
}
