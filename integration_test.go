package mixergo_test

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/memctl"
	"github.com/openmixer/mixer-go/pkg/mixer"
	"github.com/openmixer/mixer-go/pkg/scenario"
	"github.com/openmixer/mixer-go/pkg/trace"

	_ "github.com/openmixer/mixer-go/pkg/simple"
)

func testCard() *memctl.Transport {
	return memctl.New(
		memctl.Control{
			Name: "Master Playback Volume",
			Info: ctl.ElemInfo{
				Type: ctl.TypeInteger, Count: 2,
				Min: 0, Max: 87, DBMin: -6500, DBMax: 0,
			},
			Value: ctl.Value{60, 60},
		},
		memctl.Control{
			Name:  "Master Playback Switch",
			Info:  ctl.ElemInfo{Type: ctl.TypeBoolean, Count: 1, Min: 0, Max: 1},
			Value: ctl.Value{1},
		},
		memctl.Control{
			Name: "PCM Playback Volume",
			Info: ctl.ElemInfo{
				Type: ctl.TypeInteger, Count: 2,
				Min: 0, Max: 255, DBMin: -5100, DBMax: 0,
			},
			Value: ctl.Value{200, 200},
		},
		memctl.Control{
			Name:  "Capture Switch",
			Info:  ctl.ElemInfo{Type: ctl.TypeBoolean, Count: 2, Min: 0, Max: 1},
			Value: ctl.Value{1, 1},
		},
	)
}

// TestFullStack drives the whole pipeline: a simulated card behind a
// control cache, the simple backend grouping controls into elements,
// scenario playback mutating raw state, event delivery updating the
// abstracted view, and the trace capturing it all.
func TestFullStack(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "trace.cbor")
	tracer, err := trace.NewFileLogger(tracePath)
	require.NoError(t, err)

	transport := testCard()
	m, err := mixer.Open("simple", &mixer.Config{
		Name:       "integration",
		Transports: []ctl.Transport{transport},
		Tracer:     tracer,
	})
	require.NoError(t, err)
	defer m.Close()

	// Grouping: four raw controls collapse into three simple elements,
	// ordered by mixer weight.
	var order []string
	for e := m.First(); e != nil; e = e.Next() {
		order = append(order, e.Name())
	}
	require.Equal(t, []string{"Master", "PCM", "Capture"}, order)

	master := m.Find(mixer.NewElemID("Master", 0))
	require.NotNil(t, master)
	assert.True(t, master.HasVolume(mixer.DirPlayback))
	assert.True(t, master.HasSwitch(mixer.DirPlayback))
	assert.True(t, master.HasSwitchJoined(mixer.DirPlayback))

	// Scenario playback drives the raw layer.
	profile, err := scenario.Load(strings.NewReader(`
scenarios:
  night:
    description: Quiet playback
    steps:
      - element: Master Playback Volume
        values: [20]
      - element: PCM Playback Volume
        values: [128, 128]
`))
	require.NoError(t, err)
	require.NoError(t, profile.Apply(m.Caches()[0], "night"))

	// The writes queued change notifications; draining them updates the
	// abstracted view and fires element callbacks.
	var changed []string
	for e := m.First(); e != nil; e = e.Next() {
		e.SetCallback(func(elem *mixer.Elem, mask ctl.EventMask) error {
			if mask&ctl.MaskValue != 0 {
				changed = append(changed, elem.Name())
			}
			return nil
		})
	}
	n, err := m.HandleEvents()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"Master", "PCM"}, changed)

	vol, err := master.GetVolume(mixer.DirPlayback, mixer.ChannelFrontLeft)
	require.NoError(t, err)
	assert.Equal(t, int64(20), vol)

	// Hotplug: a new control appears and forms a new element.
	transport.AddControl(memctl.Control{
		Name: "Headphone Playback Volume",
		Info: ctl.ElemInfo{
			Type: ctl.TypeInteger, Count: 2,
			Min: 0, Max: 87, DBMin: -6500, DBMax: 0,
		},
		Value: ctl.Value{0, 0},
	})
	_, err = m.HandleEvents()
	require.NoError(t, err)
	require.Equal(t, 4, m.Count())
	hp := m.Find(mixer.NewElemID("Headphone", 0))
	require.NotNil(t, hp)

	// Unplug removes the element once its last control is gone.
	require.True(t, transport.RemoveControl(
		ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Headphone Playback Volume"}))
	_, err = m.HandleEvents()
	require.NoError(t, err)
	assert.Equal(t, 3, m.Count())
	assert.Nil(t, m.Find(mixer.NewElemID("Headphone", 0)))

	// The trace recorded both layers of everything above.
	require.NoError(t, tracer.Close())
	counts := map[trace.Layer]map[trace.Category]int{}
	r, err := trace.NewReader(tracePath)
	require.NoError(t, err)
	defer r.Close()
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if counts[ev.Layer] == nil {
			counts[ev.Layer] = map[trace.Category]int{}
		}
		counts[ev.Layer][ev.Category]++
	}
	assert.Equal(t, 1, counts[trace.LayerCtl][trace.CategoryLoad])
	assert.Equal(t, 1, counts[trace.LayerCtl][trace.CategoryAdded])
	assert.Equal(t, 1, counts[trace.LayerCtl][trace.CategoryRemoved])
	assert.GreaterOrEqual(t, counts[trace.LayerCtl][trace.CategoryValue], 2)
	assert.Equal(t, 4, counts[trace.LayerMixer][trace.CategoryAdded])
	assert.Equal(t, 1, counts[trace.LayerMixer][trace.CategoryRemoved])
}
