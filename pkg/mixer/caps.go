package mixer

// Direction selects the playback, capture or common side of a simple
// element.
type Direction int

const (
	// DirPlayback addresses the playback side.
	DirPlayback Direction = iota
	// DirCapture addresses the capture side.
	DirCapture
	// DirCommon addresses a control shared by both sides.
	DirCommon
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirPlayback:
		return "Playback"
	case DirCapture:
		return "Capture"
	case DirCommon:
		return "Common"
	default:
		return "Unknown"
	}
}

// Channel identifies one channel of a simple element.
type Channel int

// Channel identifiers.
const (
	ChannelFrontLeft Channel = iota
	ChannelFrontRight
	ChannelRearLeft
	ChannelRearRight
	ChannelFrontCenter
	ChannelWoofer
	ChannelSideLeft
	ChannelSideRight
	ChannelRearCenter

	// ChannelLast is the highest channel identifier.
	ChannelLast = ChannelRearCenter

	// ChannelMono is the channel of single-channel controls.
	ChannelMono = ChannelFrontLeft
)

// ChannelUnknown marks an invalid channel.
const ChannelUnknown Channel = -1

// ChannelName returns the name of a simple element channel.
func ChannelName(channel Channel) string {
	names := [ChannelLast + 1]string{
		ChannelFrontLeft:   "Front Left",
		ChannelFrontRight:  "Front Right",
		ChannelRearLeft:    "Rear Left",
		ChannelRearRight:   "Rear Right",
		ChannelFrontCenter: "Front Center",
		ChannelWoofer:      "Woofer",
		ChannelSideLeft:    "Side Left",
		ChannelSideRight:   "Side Right",
		ChannelRearCenter:  "Rear Center",
	}
	if channel < 0 || channel > ChannelLast {
		return "?"
	}
	return names[channel]
}

// Caps is the capability bit-set of a simple element: which directions
// and which features the element supports.
type Caps uint32

// Capability bits. Bits 24-31 are reserved for backend-private use.
const (
	CapCommonVolume Caps = 1 << (iota + 1)
	CapCommonSwitch
	CapPlaybackVolume
	CapPlaybackVolumeJoined
	CapPlaybackSwitch
	CapPlaybackSwitchJoined
	CapCaptureVolume
	CapCaptureVolumeJoined
	CapCaptureSwitch
	CapCaptureSwitchJoined
	CapCaptureSwitchExclusive
	CapPlaybackEnum
	CapCaptureEnum
)

// Queries understood by Ops.Is.
const (
	// OpsIsActive asks whether the element is active.
	OpsIsActive = iota
	// OpsIsChannel asks whether the element has the given channel.
	OpsIsChannel
	// OpsIsEnumerated asks whether the element is enumerated for the
	// given direction.
	OpsIsEnumerated
	// OpsIsEnumCount asks for the number of enumerated items.
	OpsIsEnumCount
)

// Ops is the capability table a backend installs per simple element. The
// façade methods on Elem dispatch through it after checking the relevant
// capability bit; implementations may assume the bit was present.
type Ops interface {
	// Is answers the OpsIs* queries. For boolean queries the result is
	// 0 or 1; for OpsIsEnumCount it is the item count.
	Is(e *Elem, dir Direction, cmd int, val int) int

	// GetChannels returns the number of channels (at least 1).
	GetChannels(e *Elem, dir Direction) (int, error)

	// GetRange returns the raw volume range.
	GetRange(e *Elem, dir Direction) (min, max int64, err error)

	// SetRange installs a raw volume range.
	SetRange(e *Elem, dir Direction, min, max int64) error

	// GetDBRange returns the dB range (dB * 100).
	GetDBRange(e *Elem, dir Direction) (min, max int64, err error)

	// AskVolDB converts a raw volume to dB * 100.
	AskVolDB(e *Elem, dir Direction, value int64) (int64, error)

	// AskDBVol converts dB * 100 to a raw volume. xdir selects rounding:
	// -1 first below, 0 exact, 1 first above.
	AskDBVol(e *Elem, dir Direction, dbValue int64, xdir int) (int64, error)

	// GetVolume returns one channel's raw volume.
	GetVolume(e *Elem, dir Direction, channel Channel) (int64, error)

	// GetDB returns one channel's volume in dB * 100.
	GetDB(e *Elem, dir Direction, channel Channel) (int64, error)

	// SetVolume sets one channel's raw volume.
	SetVolume(e *Elem, dir Direction, channel Channel, value int64) error

	// SetDB sets one channel's volume in dB * 100.
	SetDB(e *Elem, dir Direction, channel Channel, value int64, xdir int) error

	// GetSwitch returns one channel's switch state.
	GetSwitch(e *Elem, dir Direction, channel Channel) (bool, error)

	// SetSwitch sets one channel's switch state.
	SetSwitch(e *Elem, dir Direction, channel Channel, on bool) error

	// EnumItemName returns the name of an enumerated item.
	EnumItemName(e *Elem, item uint) (string, error)

	// GetEnumItem returns the selected item of one channel.
	GetEnumItem(e *Elem, channel Channel) (uint, error)

	// SetEnumItem selects an item on one channel.
	SetEnumItem(e *Elem, channel Channel, item uint) error
}
