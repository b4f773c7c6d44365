package ctl

import (
	"fmt"
	"sort"
	"time"

	"github.com/openmixer/mixer-go/pkg/trace"
)

// allocChunk is the growth step of the sorted slice. Growing in fixed
// chunks bounds the amortized cost of event-driven insertion.
const allocChunk = 32

// Compare is an element ordering function. It must be a total order and
// deterministic: identical ids must always compare identically, or the
// sorted index degrades.
type Compare func(a, b *Elem) int

// Callback receives cache-level notifications. It currently fires for
// element additions only; the remaining notifications are per-element.
type Callback func(cache *Cache, mask EventMask, elem *Elem) error

// Cache mirrors the transport's element set, sorted by the active
// comparator. The sorted slice is the authority for binary search; the
// prev/next links on the elements provide ordered traversal matching it.
type Cache struct {
	transport Transport

	elems      []*Elem
	head, tail *Elem
	count      int

	compare         Compare
	callback        Callback
	callbackPrivate any

	handleID string
	tracer   trace.Logger
}

// New creates a cache over the given transport. The cache is empty until
// Load is called; the default comparator is installed.
func New(t Transport) *Cache {
	return &Cache{
		transport: t,
		compare:   DefaultCompare,
		handleID:  trace.NewHandleID(),
		tracer:    trace.NoopLogger{},
	}
}

// SetTracer installs a trace logger. Pass nil to disable tracing.
func (c *Cache) SetTracer(l trace.Logger) {
	if l == nil {
		l = trace.NoopLogger{}
	}
	c.tracer = l
}

// HandleID returns the unique identifier of this cache handle, used to
// correlate trace events.
func (c *Cache) HandleID() string {
	return c.handleID
}

// Transport returns the underlying transport.
func (c *Cache) Transport() Transport {
	return c.transport
}

// Count returns the number of cached elements.
func (c *Cache) Count() int {
	return c.count
}

// First returns the first element in sorted order, or nil when empty.
func (c *Cache) First() *Elem {
	return c.head
}

// Last returns the last element in sorted order, or nil when empty.
func (c *Cache) Last() *Elem {
	return c.tail
}

// SetCallback installs the cache-level notification callback.
func (c *Cache) SetCallback(cb Callback) {
	c.callback = cb
}

// SetCallbackPrivate stores an opaque value alongside the callback.
func (c *Cache) SetCallbackPrivate(v any) {
	c.callbackPrivate = v
}

// CallbackPrivate returns the opaque value stored with SetCallbackPrivate.
func (c *Cache) CallbackPrivate() any {
	return c.callbackPrivate
}

// DefaultCompare orders elements by interface class, then (for mixer
// elements) by compare weight, then by name and index.
func DefaultCompare(a, b *Elem) int {
	if d := int(a.id.Iface) - int(b.id.Iface); d != 0 {
		return d
	}
	if a.id.Iface == IfaceMixer {
		if d := a.compareWeight - b.compareWeight; d != 0 {
			return d
		}
	}
	if a.id.Name != b.id.Name {
		if a.id.Name < b.id.Name {
			return -1
		}
		return 1
	}
	return int(a.id.Index) - int(b.id.Index)
}

// FastCompare orders elements by numeric id only. It may be installed with
// SetCompare when the heuristic mixer ordering is not wanted.
func FastCompare(a, b *Elem) int {
	return int(a.id.NumID) - int(b.id.NumID)
}

// SetCompare replaces the active comparator and re-sorts the cache. A nil
// comparator installs DefaultCompare. On failure the prior comparator and
// order remain valid.
func (c *Cache) SetCompare(cmp Compare) error {
	if cmp == nil {
		cmp = DefaultCompare
	}
	c.compare = cmp
	c.sort()
	return nil
}

// sort fully re-sorts the slice under the active comparator and rebuilds
// the traversal links to match.
func (c *Cache) sort() {
	if c.compare == nil {
		panic("ctl: cache has no comparator")
	}
	sort.SliceStable(c.elems[:c.count], func(i, j int) bool {
		return c.compare(c.elems[i], c.elems[j]) < 0
	})
	c.relink()
}

// relink rebuilds the prev/next chain from the sorted slice.
func (c *Cache) relink() {
	c.head, c.tail = nil, nil
	var prev *Elem
	for i := 0; i < c.count; i++ {
		e := c.elems[i]
		e.prev = prev
		e.next = nil
		if prev == nil {
			c.head = e
		} else {
			prev.next = e
		}
		prev = e
	}
	c.tail = prev
}

// findPos binary-searches for id. It returns the probed position and the
// final comparison direction: dir == 0 means an exact match at idx;
// otherwise idx is the last probe and dir its sign, from which the caller
// can derive the insertion point. idx is -1 on an empty cache.
func (c *Cache) findPos(id ElemID) (idx, dir int) {
	if c.compare == nil {
		panic("ctl: cache has no comparator")
	}
	probe := &Elem{id: id, compareWeight: compareWeight(id.Name)}
	idx = -1
	l, u := 0, c.count
	for l < u {
		idx = (l + u) / 2
		dir = c.compare(probe, c.elems[idx])
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

// Find returns the element with the given id, or nil if it is not cached.
func (c *Cache) Find(id ElemID) *Elem {
	idx, dir := c.findPos(id)
	if idx < 0 || dir != 0 {
		return nil
	}
	return c.elems[idx]
}

// grow ensures room for one more element, extending the backing slice in
// fixed chunks.
func (c *Cache) grow() {
	if c.count < cap(c.elems) {
		c.elems = c.elems[:c.count+1]
		return
	}
	grown := make([]*Elem, c.count+1, cap(c.elems)+allocChunk)
	copy(grown, c.elems)
	c.elems = grown
}

// add inserts a new element at its sorted position, splices it into the
// traversal chain and fires the cache "added" callback.
func (c *Cache) add(e *Elem) error {
	c.grow()
	if c.count == 0 {
		c.elems[0] = e
		c.head, c.tail = e, e
	} else {
		idx, dir := c.findPos(e.id)
		if dir == 0 {
			panic("ctl: duplicate element id")
		}
		if dir > 0 {
			// Insert after the probed element.
			at := c.elems[idx]
			e.prev, e.next = at, at.next
			idx++
		} else {
			// Insert before the probed element.
			at := c.elems[idx]
			e.prev, e.next = at.prev, at
		}
		if e.prev != nil {
			e.prev.next = e
		} else {
			c.head = e
		}
		if e.next != nil {
			e.next.prev = e
		} else {
			c.tail = e
		}
		copy(c.elems[idx+1:c.count+1], c.elems[idx:c.count])
		c.elems[idx] = e
	}
	c.count++
	c.trace(trace.CategoryAdded, e.id, uint(MaskAdded))
	return c.throwEvent(MaskAdded, e)
}

// removeAt fires the element's "removed" notification, unlinks the element
// and shifts the sorted slice down. Subscribers detach inside the
// notification, before the element goes away.
func (c *Cache) removeAt(idx int) error {
	e := c.elems[idx]
	err := e.throwEvent(MaskRemoved)
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
	e.cache = nil
	c.count--
	copy(c.elems[idx:c.count], c.elems[idx+1:c.count+1])
	c.elems[c.count] = nil
	c.elems = c.elems[:c.count]
	c.trace(trace.CategoryRemoved, e.id, uint(MaskRemoved))
	return err
}

// Load bulk-enumerates the transport and builds the sorted cache, firing
// an "added" event for every element in final sorted order. On error the
// cache is left empty.
func (c *Cache) Load() error {
	if c.count != 0 {
		panic("ctl: cache already loaded")
	}

	// The element set may grow between enumeration calls; re-list until
	// the count stabilizes.
	ids, err := c.transport.List()
	if err != nil {
		return fmt.Errorf("listing elements: %w", err)
	}
	for {
		again, err := c.transport.List()
		if err != nil {
			return fmt.Errorf("listing elements: %w", err)
		}
		stable := len(again) == len(ids)
		ids = again
		if stable {
			break
		}
	}

	c.elems = make([]*Elem, 0, len(ids))
	for _, id := range ids {
		e := &Elem{
			cache:         c,
			id:            id,
			compareWeight: compareWeight(id.Name),
		}
		c.elems = append(c.elems, e)
		c.count++
	}
	if c.compare == nil {
		c.compare = DefaultCompare
	}
	c.sort()
	c.trace(trace.CategoryLoad, ElemID{}, 0)
	for i := 0; i < c.count; i++ {
		if err := c.throwEvent(MaskAdded, c.elems[i]); err != nil {
			c.Free()
			return err
		}
	}
	return nil
}

// Free removes all cached elements, firing their "removed" notifications,
// and releases the index.
func (c *Cache) Free() {
	for c.count > 0 {
		_ = c.removeAt(c.count - 1)
	}
	c.elems = nil
	c.head, c.tail = nil, nil
}

// Close frees the cache and closes the transport.
func (c *Cache) Close() error {
	c.Free()
	return c.transport.Close()
}

// SubscribeEvents enables or disables event delivery on the transport.
func (c *Cache) SubscribeEvents(enable bool) error {
	return c.transport.SubscribeEvents(enable)
}

// Wait blocks until an event is pending or the timeout elapses. A zero
// timeout polls without blocking.
func (c *Cache) Wait(timeout time.Duration) (bool, error) {
	return c.transport.Wait(timeout)
}

// HandleEvents drains all pending transport events, applying each to the
// cache and invoking callbacks. It returns the number of events handled.
func (c *Cache) HandleEvents() (int, error) {
	handled := 0
	for {
		ev, err := c.transport.NextEvent()
		if err == ErrWouldBlock {
			return handled, nil
		}
		if err != nil {
			return handled, err
		}
		if err := c.handleEvent(ev); err != nil {
			return handled, err
		}
		handled++
	}
}

// handleEvent translates one transport notification into the matching
// cache mutation and callback invocation.
func (c *Cache) handleEvent(ev Event) error {
	if ev.Mask == MaskRemoved {
		idx, dir := c.findPos(ev.ID)
		if idx < 0 || dir != 0 {
			return fmt.Errorf("removing %q,%d: %w", ev.ID.Name, ev.ID.Index, ErrNotFound)
		}
		return c.removeAt(idx)
	}
	if ev.Mask&MaskAdded != 0 {
		e := &Elem{
			cache:         c,
			id:            ev.ID,
			compareWeight: compareWeight(ev.ID.Name),
		}
		if err := c.add(e); err != nil {
			return err
		}
	}
	if ev.Mask&(MaskValue|MaskInfo) != 0 {
		e := c.Find(ev.ID)
		if e == nil {
			return fmt.Errorf("event for %q,%d: %w", ev.ID.Name, ev.ID.Index, ErrNotFound)
		}
		cat := trace.CategoryValue
		if ev.Mask&MaskValue == 0 {
			cat = trace.CategoryInfo
		}
		c.trace(cat, ev.ID, uint(ev.Mask))
		return e.throwEvent(ev.Mask & (MaskValue | MaskInfo))
	}
	return nil
}

func (c *Cache) throwEvent(mask EventMask, e *Elem) error {
	if c.callback != nil {
		return c.callback(c, mask, e)
	}
	return nil
}

func (c *Cache) trace(cat trace.Category, id ElemID, mask uint) {
	c.tracer.Log(trace.Event{
		Timestamp: time.Now(),
		HandleID:  c.handleID,
		Layer:     trace.LayerCtl,
		Category:  cat,
		Elem:      id.Name,
		Index:     id.Index,
		NumID:     id.NumID,
		Mask:      mask,
		Count:     c.count,
	})
}
