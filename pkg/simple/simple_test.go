package simple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/memctl"
	"github.com/openmixer/mixer-go/pkg/mixer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		typ  ctl.ElemType
		base string
		ct   ctlType
	}{
		{"Master Playback Volume", ctl.TypeInteger, "Master", ctlPlaybackVolume},
		{"Master Playback Switch", ctl.TypeBoolean, "Master", ctlPlaybackSwitch},
		{"Capture Volume", ctl.TypeInteger, "Capture", ctlCaptureVolume},
		{"Capture Switch", ctl.TypeBoolean, "Capture", ctlCaptureSwitch},
		{"Mic Boost Volume", ctl.TypeInteger, "Mic Boost", ctlGlobalVolume},
		{"Loudness Switch", ctl.TypeBoolean, "Loudness", ctlGlobalSwitch},
		{"Beep", ctl.TypeBoolean, "Beep", ctlSingle},
		{"Input Source", ctl.TypeEnumerated, "Input Source", ctlGlobalEnum},
		{"Capture Source", ctl.TypeEnumerated, "Capture Source", ctlCaptureEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, ct := classify(tt.name, tt.typ)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.ct, ct)
		})
	}
}

func intControl(name string, channels int, max, dbMin, dbMax int64, value ...int64) memctl.Control {
	return memctl.Control{
		Name: name,
		Info: ctl.ElemInfo{
			Type: ctl.TypeInteger, Count: channels,
			Min: 0, Max: max, DBMin: dbMin, DBMax: dbMax,
		},
		Value: value,
	}
}

func boolControl(name string, channels int, value ...int64) memctl.Control {
	return memctl.Control{
		Name:  name,
		Info:  ctl.ElemInfo{Type: ctl.TypeBoolean, Count: channels, Min: 0, Max: 1},
		Value: value,
	}
}

func openMixer(t *testing.T, controls ...memctl.Control) (*mixer.Mixer, *memctl.Transport) {
	t.Helper()
	transport := memctl.New(controls...)
	m, err := mixer.Open("simple", &mixer.Config{
		Name:       "test",
		Transports: []ctl.Transport{transport},
	})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m, transport
}

func findElem(t *testing.T, m *mixer.Mixer, name string) *mixer.Elem {
	t.Helper()
	e := m.Find(mixer.NewElemID(name, 0))
	require.NotNil(t, e, "simple element %q", name)
	return e
}

func TestGroupingByBaseName(t *testing.T) {
	m, _ := openMixer(t,
		intControl("Master Playback Volume", 2, 87, -6500, 0, 60, 60),
		boolControl("Master Playback Switch", 1, 1),
		intControl("PCM Playback Volume", 2, 255, -5100, 0, 200, 200),
		intControl("Capture Volume", 2, 31, -1700, 3000, 16, 16),
		boolControl("Capture Switch", 2, 1, 1),
	)

	assert.Equal(t, 3, m.Count())

	master := findElem(t, m, "Master")
	assert.True(t, master.HasVolume(mixer.DirPlayback))
	assert.True(t, master.HasSwitch(mixer.DirPlayback))
	assert.True(t, master.HasSwitchJoined(mixer.DirPlayback),
		"one-value switch on a stereo element is joined")
	assert.False(t, master.HasVolumeJoined(mixer.DirPlayback))
	assert.False(t, master.HasVolume(mixer.DirCapture))

	capture := findElem(t, m, "Capture")
	assert.True(t, capture.HasVolume(mixer.DirCapture))
	assert.True(t, capture.HasSwitch(mixer.DirCapture))
	assert.False(t, capture.HasVolume(mixer.DirPlayback))

	// Sorted by compare weight: Master before PCM before Capture.
	var order []string
	for e := m.First(); e != nil; e = e.Next() {
		order = append(order, e.Name())
	}
	assert.Equal(t, []string{"Master", "PCM", "Capture"}, order)
}

func TestGlobalVolumeIsCommon(t *testing.T) {
	m, _ := openMixer(t, intControl("Mic Boost Volume", 1, 3, 0, 3600, 0))

	e := findElem(t, m, "Mic Boost")
	assert.True(t, e.HasCommonVolume())
	assert.True(t, e.HasVolume(mixer.DirPlayback))
	assert.True(t, e.HasVolume(mixer.DirCapture))
	assert.False(t, e.HasSwitch(mixer.DirPlayback))
}

func TestVolumeRoundTrip(t *testing.T) {
	m, transport := openMixer(t,
		intControl("Master Playback Volume", 2, 87, -6500, 0, 60, 60),
	)
	e := findElem(t, m, "Master")

	min, max, err := e.GetVolumeRange(mixer.DirPlayback)
	require.NoError(t, err)
	assert.Equal(t, int64(0), min)
	assert.Equal(t, int64(87), max)

	vol, err := e.GetVolume(mixer.DirPlayback, mixer.ChannelFrontLeft)
	require.NoError(t, err)
	assert.Equal(t, int64(60), vol)

	require.NoError(t, e.SetVolume(mixer.DirPlayback, mixer.ChannelFrontRight, 30))
	v, err := transport.ReadValue(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Master Playback Volume"})
	require.NoError(t, err)
	assert.Equal(t, ctl.Value{60, 30}, v)

	require.NoError(t, e.SetVolumeAll(mixer.DirPlayback, 10))
	v, err = transport.ReadValue(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Master Playback Volume"})
	require.NoError(t, err)
	assert.Equal(t, ctl.Value{10, 10}, v)
}

func TestDecibelConversion(t *testing.T) {
	m, _ := openMixer(t,
		intControl("Master Playback Volume", 2, 87, -6500, 0, 60, 60),
	)
	e := findElem(t, m, "Master")

	dbMin, dbMax, err := e.GetDBRange(mixer.DirPlayback)
	require.NoError(t, err)
	assert.Equal(t, int64(-6500), dbMin)
	assert.Equal(t, int64(0), dbMax)

	db, err := e.AskVolDB(mixer.DirPlayback, 87)
	require.NoError(t, err)
	assert.Equal(t, int64(0), db)

	db, err = e.AskVolDB(mixer.DirPlayback, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-6500), db)

	// -32.50dB sits exactly between raw 43 and 44; the rounding hint
	// decides.
	vol, err := e.AskDBVol(mixer.DirPlayback, -3250, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(43), vol)

	vol, err = e.AskDBVol(mixer.DirPlayback, -3250, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(44), vol)

	require.NoError(t, e.SetDBAll(mixer.DirPlayback, 0, 0))
	vol, err = e.GetVolume(mixer.DirPlayback, mixer.ChannelFrontLeft)
	require.NoError(t, err)
	assert.Equal(t, int64(87), vol)
}

func TestSwitch(t *testing.T) {
	m, transport := openMixer(t,
		intControl("Master Playback Volume", 2, 87, -6500, 0, 60, 60),
		boolControl("Master Playback Switch", 1, 1),
	)
	e := findElem(t, m, "Master")

	on, err := e.GetSwitch(mixer.DirPlayback, mixer.ChannelFrontLeft)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, e.SetSwitchAll(mixer.DirPlayback, false))
	v, err := transport.ReadValue(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Master Playback Switch"})
	require.NoError(t, err)
	assert.Equal(t, ctl.Value{0}, v)
}

func TestEnum(t *testing.T) {
	m, _ := openMixer(t, memctl.Control{
		Name: "Input Source",
		Info: ctl.ElemInfo{
			Type: ctl.TypeEnumerated, Count: 1,
			Items: []string{"Mic", "Line", "Aux"},
		},
		Value: ctl.Value{0},
	})
	e := findElem(t, m, "Input Source")

	require.True(t, e.IsEnumerated(mixer.DirCommon))
	n, err := e.GetEnumItems(mixer.DirCommon)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	name, err := e.GetEnumItemName(mixer.DirCommon, 1)
	require.NoError(t, err)
	assert.Equal(t, "Line", name)

	require.NoError(t, e.SetEnumItem(mixer.DirCommon, mixer.ChannelMono, 2))
	item, err := e.GetEnumItem(mixer.DirCommon, mixer.ChannelMono)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item)

	assert.ErrorIs(t, e.SetEnumItem(mixer.DirCommon, mixer.ChannelMono, 9), mixer.ErrInvalidArgument)
}

func TestHotplugAddsCapability(t *testing.T) {
	m, transport := openMixer(t,
		intControl("PCM Playback Volume", 2, 255, -5100, 0, 200, 200),
	)
	e := findElem(t, m, "PCM")
	require.False(t, e.HasSwitch(mixer.DirPlayback))

	var infoEvents int
	e.SetCallback(func(elem *mixer.Elem, mask ctl.EventMask) error {
		if mask&ctl.MaskInfo != 0 {
			infoEvents++
		}
		return nil
	})

	transport.AddControl(boolControl("PCM Playback Switch", 2, 1, 1))
	_, err := m.HandleEvents()
	require.NoError(t, err)

	assert.Equal(t, 1, m.Count(), "switch joins the existing element")
	assert.True(t, e.HasSwitch(mixer.DirPlayback))
	assert.Equal(t, 1, infoEvents)
}

func TestHotplugCreatesElement(t *testing.T) {
	m, transport := openMixer(t,
		intControl("PCM Playback Volume", 2, 255, -5100, 0, 200, 200),
	)

	transport.AddControl(intControl("Headphone Playback Volume", 2, 87, -6500, 0, 0, 0))
	_, err := m.HandleEvents()
	require.NoError(t, err)

	assert.Equal(t, 2, m.Count())
	hp := findElem(t, m, "Headphone")
	assert.True(t, hp.HasVolume(mixer.DirPlayback))
}

func TestUnplugRemovesEmptyElement(t *testing.T) {
	m, transport := openMixer(t,
		intControl("Master Playback Volume", 2, 87, -6500, 0, 60, 60),
		boolControl("Master Playback Switch", 1, 1),
	)
	e := findElem(t, m, "Master")

	// Losing one control demotes the element.
	require.True(t, transport.RemoveControl(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Master Playback Switch"}))
	_, err := m.HandleEvents()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())
	assert.False(t, e.HasSwitch(mixer.DirPlayback))
	assert.True(t, e.HasVolume(mixer.DirPlayback))

	// Losing the last control removes the element entirely.
	require.True(t, transport.RemoveControl(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Master Playback Volume"}))
	_, err = m.HandleEvents()
	require.NoError(t, err)
	assert.Equal(t, 0, m.Count())
	assert.Nil(t, m.Find(mixer.NewElemID("Master", 0)))
}

func TestSoftwareVolumeRange(t *testing.T) {
	m, transport := openMixer(t,
		intControl("Master Playback Volume", 2, 87, -6500, 0, 0, 0),
	)
	e := findElem(t, m, "Master")

	require.NoError(t, e.SetVolumeRange(mixer.DirPlayback, 0, 100))
	require.NoError(t, e.SetVolumeAll(mixer.DirPlayback, 100))

	v, err := transport.ReadValue(ctl.ElemID{Iface: ctl.IfaceMixer, Name: "Master Playback Volume"})
	require.NoError(t, err)
	assert.Equal(t, ctl.Value{87, 87}, v, "user maximum maps onto the raw maximum")

	vol, err := e.GetVolume(mixer.DirPlayback, mixer.ChannelFrontLeft)
	require.NoError(t, err)
	assert.Equal(t, int64(100), vol)
}
