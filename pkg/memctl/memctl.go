// Package memctl provides an in-memory control transport. It backs the
// demo shell and test fixtures: controls live in a map, external changes
// are simulated through the mutator methods, and every mutation queues
// the matching notification for NextEvent.
package memctl

import (
	"sync"
	"time"

	"github.com/openmixer/mixer-go/pkg/ctl"
)

// Control describes one simulated control.
type Control struct {
	Name  string
	Index uint32
	Info  ctl.ElemInfo
	Value ctl.Value
}

type entry struct {
	id    ctl.ElemID
	info  ctl.ElemInfo
	value ctl.Value
}

// Transport is an in-memory ctl.Transport. Safe for concurrent use.
type Transport struct {
	mu         sync.Mutex
	entries    map[ctl.ElemID]*entry
	order      []ctl.ElemID
	nextNumID  uint32
	subscribed bool
	queue      []ctl.Event
	closed     bool
}

var _ ctl.Transport = (*Transport)(nil)

// New creates a transport pre-populated with the given controls.
func New(controls ...Control) *Transport {
	t := &Transport{
		entries:   map[ctl.ElemID]*entry{},
		nextNumID: 1,
	}
	for _, c := range controls {
		t.put(c)
	}
	return t
}

func (t *Transport) put(c Control) ctl.ElemID {
	id := ctl.ElemID{
		NumID: t.nextNumID,
		Iface: ctl.IfaceMixer,
		Name:  c.Name,
		Index: c.Index,
	}
	t.nextNumID++
	value := make(ctl.Value, len(c.Value))
	copy(value, c.Value)
	if len(value) == 0 && c.Info.Count > 0 {
		value = make(ctl.Value, c.Info.Count)
	}
	t.entries[id] = &entry{id: id, info: c.Info, value: value}
	t.order = append(t.order, id)
	return id
}

// lookup resolves a possibly partial identifier: an exact hit first,
// then by numeric id alone, then by interface, name and index.
func (t *Transport) lookup(id ctl.ElemID) *entry {
	if e, ok := t.entries[id]; ok {
		return e
	}
	if id.NumID != 0 {
		for _, e := range t.entries {
			if e.id.NumID == id.NumID {
				return e
			}
		}
		return nil
	}
	for _, e := range t.entries {
		if e.id.Iface == id.Iface && e.id.Name == id.Name && e.id.Index == id.Index {
			return e
		}
	}
	return nil
}

func (t *Transport) push(mask ctl.EventMask, id ctl.ElemID) {
	if t.subscribed {
		t.queue = append(t.queue, ctl.Event{Mask: mask, ID: id})
	}
}

// List returns the identifiers of all controls in creation order.
func (t *Transport) List() ([]ctl.ElemID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]ctl.ElemID, len(t.order))
	copy(ids, t.order)
	return ids, nil
}

// Info returns the metadata of one control.
func (t *Transport) Info(id ctl.ElemID) (ctl.ElemInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.lookup(id)
	if e == nil {
		return ctl.ElemInfo{}, ctl.ErrNotFound
	}
	return e.info, nil
}

// ReadValue returns a copy of the control's value vector.
func (t *Transport) ReadValue(id ctl.ElemID) (ctl.Value, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.lookup(id)
	if e == nil {
		return nil, ctl.ErrNotFound
	}
	v := make(ctl.Value, len(e.value))
	copy(v, e.value)
	return v, nil
}

// WriteValue stores a new value vector and reports whether it changed.
// A change queues a value notification.
func (t *Transport) WriteValue(id ctl.ElemID, v ctl.Value) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.lookup(id)
	if e == nil {
		return false, ctl.ErrNotFound
	}
	if len(v) != len(e.value) {
		return false, ctl.ErrInvalidArgument
	}
	changed := false
	for i := range v {
		if e.value[i] != v[i] {
			changed = true
			break
		}
	}
	if !changed {
		return false, nil
	}
	copy(e.value, v)
	t.push(ctl.MaskValue, e.id)
	return true, nil
}

// SubscribeEvents enables or disables the notification queue. Disabling
// discards pending events.
func (t *Transport) SubscribeEvents(enable bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribed = enable
	if !enable {
		t.queue = nil
	}
	return nil
}

// NextEvent pops the oldest pending notification, or ErrWouldBlock.
func (t *Transport) NextEvent() (ctl.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) == 0 {
		return ctl.Event{}, ctl.ErrWouldBlock
	}
	ev := t.queue[0]
	t.queue = t.queue[1:]
	return ev, nil
}

const waitPollInterval = time.Millisecond

// Wait reports whether a notification is pending, blocking up to the
// timeout. A zero timeout polls.
func (t *Transport) Wait(timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		t.mu.Lock()
		ready := len(t.queue) > 0
		t.mu.Unlock()
		if ready {
			return true, nil
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

// Close discards all state.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.entries = nil
	t.order = nil
	t.queue = nil
	return nil
}

// AddControl simulates hotplug: the control appears and an "added"
// notification is queued.
func (t *Transport) AddControl(c Control) ctl.ElemID {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.put(c)
	t.push(ctl.MaskAdded, id)
	return id
}

// RemoveControl simulates unplug: the control disappears and a removal
// notification is queued.
func (t *Transport) RemoveControl(id ctl.ElemID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.lookup(id)
	if e == nil {
		return false
	}
	delete(t.entries, e.id)
	for i, have := range t.order {
		if have == e.id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	t.push(ctl.MaskRemoved, e.id)
	return true
}

// SetValue simulates an external value change, bypassing WriteValue's
// caller attribution.
func (t *Transport) SetValue(id ctl.ElemID, v ctl.Value) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.lookup(id)
	if e == nil || len(v) != len(e.value) {
		return false
	}
	copy(e.value, v)
	t.push(ctl.MaskValue, e.id)
	return true
}

// UpdateInfo simulates a metadata change and queues an info
// notification.
func (t *Transport) UpdateInfo(id ctl.ElemID, info ctl.ElemInfo) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.lookup(id)
	if e == nil {
		return false
	}
	e.info = info
	if info.Count != len(e.value) {
		value := make(ctl.Value, info.Count)
		copy(value, e.value)
		e.value = value
	}
	t.push(ctl.MaskInfo, e.id)
	return true
}
