package ctl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/memctl"
)

func intControl(name string, channels int, max int64) memctl.Control {
	return memctl.Control{
		Name: name,
		Info: ctl.ElemInfo{Type: ctl.TypeInteger, Count: channels, Min: 0, Max: max},
	}
}

func boolControl(name string, channels int) memctl.Control {
	return memctl.Control{
		Name: name,
		Info: ctl.ElemInfo{Type: ctl.TypeBoolean, Count: channels, Min: 0, Max: 1},
	}
}

// newLoaded returns a loaded cache over controls created in the given
// order, which is deliberately not the sorted order.
func newLoaded(t *testing.T) (*ctl.Cache, *memctl.Transport) {
	t.Helper()
	transport := memctl.New(
		boolControl("Capture Switch", 2),
		intControl("PCM Playback Volume", 2, 255),
		intControl("Master Playback Volume", 2, 87),
	)
	c := ctl.New(transport)
	require.NoError(t, c.Load())
	return c, transport
}

func names(c *ctl.Cache) []string {
	var out []string
	for e := c.First(); e != nil; e = e.Next() {
		out = append(out, e.Name())
	}
	return out
}

func TestLoadSortsElements(t *testing.T) {
	c, _ := newLoaded(t)
	defer c.Close()

	assert.Equal(t, 3, c.Count())
	assert.Equal(t, []string{
		"Master Playback Volume",
		"PCM Playback Volume",
		"Capture Switch",
	}, names(c))
	assert.Equal(t, "Master Playback Volume", c.First().Name())
	assert.Equal(t, "Capture Switch", c.Last().Name())
}

func TestLoadFiresAddedInSortedOrder(t *testing.T) {
	transport := memctl.New(
		boolControl("Capture Switch", 2),
		intControl("Master Playback Volume", 2, 87),
	)
	c := ctl.New(transport)
	defer c.Close()

	var added []string
	c.SetCallback(func(cache *ctl.Cache, mask ctl.EventMask, e *ctl.Elem) error {
		assert.Equal(t, ctl.MaskAdded, mask)
		added = append(added, e.Name())
		return nil
	})
	require.NoError(t, c.Load())
	assert.Equal(t, []string{"Master Playback Volume", "Capture Switch"}, added)
}

func TestFind(t *testing.T) {
	c, _ := newLoaded(t)
	defer c.Close()

	e := c.Find(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "PCM Playback Volume"})
	require.NotNil(t, e)
	assert.Equal(t, "PCM Playback Volume", e.Name())
	assert.Equal(t, c, e.Cache())

	assert.Nil(t, c.Find(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "No Such Control"}))
	assert.Nil(t, c.Find(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "PCM Playback Volume", Index: 7}))
}

func TestReadWriteValue(t *testing.T) {
	c, _ := newLoaded(t)
	defer c.Close()

	e := c.Find(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Master Playback Volume"})
	require.NotNil(t, e)

	v, err := e.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, ctl.Value{0, 0}, v)

	changed, err := e.WriteValue(ctl.Value{40, 50})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = e.WriteValue(ctl.Value{40, 50})
	require.NoError(t, err)
	assert.False(t, changed)

	v, err = e.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, ctl.Value{40, 50}, v)
}

func TestHandleEventsAdd(t *testing.T) {
	c, transport := newLoaded(t)
	defer c.Close()
	require.NoError(t, c.SubscribeEvents(true))

	transport.AddControl(intControl("Headphone Playback Volume", 2, 87))
	n, err := c.HandleEvents()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The new element lands at its sorted position, not at the end.
	assert.Equal(t, []string{
		"Master Playback Volume",
		"Headphone Playback Volume",
		"PCM Playback Volume",
		"Capture Switch",
	}, names(c))
}

func TestHandleEventsRemoveNotifiesBeforeUnlink(t *testing.T) {
	c, transport := newLoaded(t)
	defer c.Close()
	require.NoError(t, c.SubscribeEvents(true))

	id := ctl.ElemID{Iface: ctl.IfaceMixer, Name: "PCM Playback Volume"}
	e := c.Find(id)
	require.NotNil(t, e)

	var sawMask ctl.EventMask = ctl.MaskAdded
	countAtNotify := -1
	e.SetCallback(func(elem *ctl.Elem, mask ctl.EventMask) error {
		sawMask = mask
		countAtNotify = c.Count()
		return nil
	})

	require.True(t, transport.RemoveControl(ctl.ElemID{NumID: e.NumID()}))
	_, err := c.HandleEvents()
	require.NoError(t, err)

	assert.Equal(t, ctl.MaskRemoved, sawMask)
	assert.Equal(t, 3, countAtNotify, "removal must be announced before the element is unlinked")
	assert.Equal(t, 2, c.Count())
	assert.Nil(t, c.Find(id))
}

func TestHandleEventsValueAndInfo(t *testing.T) {
	c, transport := newLoaded(t)
	defer c.Close()
	require.NoError(t, c.SubscribeEvents(true))

	e := c.Find(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Capture Switch"})
	require.NotNil(t, e)

	var masks []ctl.EventMask
	e.SetCallback(func(elem *ctl.Elem, mask ctl.EventMask) error {
		masks = append(masks, mask)
		return nil
	})

	require.True(t, transport.SetValue(ctl.ElemID{NumID: e.NumID()}, ctl.Value{0, 1}))
	info, err := e.Info()
	require.NoError(t, err)
	require.True(t, transport.UpdateInfo(ctl.ElemID{NumID: e.NumID()}, info))

	n, err := c.HandleEvents()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []ctl.EventMask{ctl.MaskValue, ctl.MaskInfo}, masks)
}

func TestWait(t *testing.T) {
	c, transport := newLoaded(t)
	defer c.Close()
	require.NoError(t, c.SubscribeEvents(true))

	ready, err := c.Wait(0)
	require.NoError(t, err)
	assert.False(t, ready)

	transport.SetValue(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Capture Switch"}, ctl.Value{0, 0})
	ready, err = c.Wait(100 * time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestSetCompare(t *testing.T) {
	c, _ := newLoaded(t)
	defer c.Close()

	require.NoError(t, c.SetCompare(ctl.FastCompare))
	// Creation order assigned ascending numeric ids.
	assert.Equal(t, []string{
		"Capture Switch",
		"PCM Playback Volume",
		"Master Playback Volume",
	}, names(c))

	// Lookup keeps working under the new order.
	assert.NotNil(t, c.Find(ctl.ElemID{NumID: 2, Iface: ctl.IfaceMixer, Name: "PCM Playback Volume"}))

	require.NoError(t, c.SetCompare(nil))
	assert.Equal(t, []string{
		"Master Playback Volume",
		"PCM Playback Volume",
		"Capture Switch",
	}, names(c))
}

func TestFree(t *testing.T) {
	c, _ := newLoaded(t)
	defer c.Close()

	var removed []string
	for e := c.First(); e != nil; e = e.Next() {
		e.SetCallback(func(elem *ctl.Elem, mask ctl.EventMask) error {
			if mask == ctl.MaskRemoved {
				removed = append(removed, elem.Name())
			}
			return nil
		})
	}

	c.Free()
	assert.Equal(t, 0, c.Count())
	assert.Nil(t, c.First())
	assert.Len(t, removed, 3)
}
