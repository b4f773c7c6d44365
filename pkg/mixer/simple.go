package mixer

// Capability façade. Every accessor validates the element's capability
// bits before touching the backend ops, so backends only see requests
// they declared support for.

// HasCommonVolume reports whether the element has a single volume
// control shared by playback and capture.
func (e *Elem) HasCommonVolume() bool {
	return e.caps&CapCommonVolume != 0
}

// HasCommonSwitch reports whether the element has a single switch shared
// by playback and capture.
func (e *Elem) HasCommonSwitch() bool {
	return e.caps&CapCommonSwitch != 0
}

// HasVolume reports whether the element has a volume control in the
// given direction.
func (e *Elem) HasVolume(dir Direction) bool {
	if e.caps&CapCommonVolume != 0 {
		return true
	}
	if dir == DirCapture {
		return e.caps&CapCaptureVolume != 0
	}
	return e.caps&CapPlaybackVolume != 0
}

// HasVolumeJoined reports whether the volume control in the given
// direction acts on all channels at once.
func (e *Elem) HasVolumeJoined(dir Direction) bool {
	if dir == DirCapture {
		return e.caps&CapCaptureVolumeJoined != 0
	}
	return e.caps&CapPlaybackVolumeJoined != 0
}

// HasSwitch reports whether the element has a switch in the given
// direction.
func (e *Elem) HasSwitch(dir Direction) bool {
	if e.caps&CapCommonSwitch != 0 {
		return true
	}
	if dir == DirCapture {
		return e.caps&CapCaptureSwitch != 0
	}
	return e.caps&CapPlaybackSwitch != 0
}

// HasSwitchJoined reports whether the switch in the given direction acts
// on all channels at once.
func (e *Elem) HasSwitchJoined(dir Direction) bool {
	if dir == DirCapture {
		return e.caps&CapCaptureSwitchJoined != 0
	}
	return e.caps&CapPlaybackSwitchJoined != 0
}

// HasSwitchExclusive reports whether the capture switch is exclusive
// within its capture group.
func (e *Elem) HasSwitchExclusive() bool {
	return e.caps&CapCaptureSwitchExclusive != 0
}

// IsEnumerated reports whether the element is an enumerated control in
// the given direction. DirCommon matches either direction.
func (e *Elem) IsEnumerated(dir Direction) bool {
	switch dir {
	case DirPlayback:
		return e.caps&CapPlaybackEnum != 0
	case DirCapture:
		return e.caps&CapCaptureEnum != 0
	default:
		return e.caps&(CapPlaybackEnum|CapCaptureEnum) != 0
	}
}

// IsActive reports whether the element is active. Inactive elements keep
// their state but have no effect on the signal path.
func (e *Elem) IsActive() bool {
	if e.ops == nil {
		return false
	}
	return e.ops.Is(e, DirPlayback, OpsIsActive, 0) != 0
}

// HasChannel reports whether the element has the given channel in the
// given direction.
func (e *Elem) HasChannel(dir Direction, ch Channel) bool {
	if e.ops == nil || ch < 0 {
		return false
	}
	return e.ops.Is(e, dir, OpsIsChannel, int(ch)) != 0
}

// GetChannels returns the number of channels in the given direction.
func (e *Elem) GetChannels(dir Direction) (int, error) {
	if e.ops == nil {
		return 0, ErrUnsupported
	}
	return e.ops.GetChannels(e, dir)
}

// IsMono reports whether the element has exactly one channel in the
// given direction.
func (e *Elem) IsMono(dir Direction) bool {
	n, err := e.GetChannels(dir)
	return err == nil && n == 1
}

func (e *Elem) checkVolume(dir Direction) error {
	if !e.HasVolume(dir) {
		return ErrUnsupported
	}
	return nil
}

func (e *Elem) checkSwitch(dir Direction) error {
	if !e.HasSwitch(dir) {
		return ErrUnsupported
	}
	return nil
}

// volumeChannel collapses the requested channel to the first one when
// the volume control is joined.
func (e *Elem) volumeChannel(dir Direction, ch Channel) Channel {
	if e.HasVolumeJoined(dir) {
		return ChannelMono
	}
	return ch
}

// switchChannel collapses the requested channel to the first one when
// the switch is joined.
func (e *Elem) switchChannel(dir Direction, ch Channel) Channel {
	if e.HasSwitchJoined(dir) {
		return ChannelMono
	}
	return ch
}

// GetVolumeRange returns the raw volume range in the given direction.
func (e *Elem) GetVolumeRange(dir Direction) (min, max int64, err error) {
	if err := e.checkVolume(dir); err != nil {
		return 0, 0, err
	}
	return e.ops.GetRange(e, dir)
}

// SetVolumeRange rescales the raw volume range in the given direction.
// Current volumes are adjusted proportionally.
func (e *Elem) SetVolumeRange(dir Direction, min, max int64) error {
	if err := e.checkVolume(dir); err != nil {
		return err
	}
	if min >= max {
		return ErrInvalidArgument
	}
	return e.ops.SetRange(e, dir, min, max)
}

// GetDBRange returns the decibel range in the given direction, in
// hundredths of a dB.
func (e *Elem) GetDBRange(dir Direction) (min, max int64, err error) {
	if err := e.checkVolume(dir); err != nil {
		return 0, 0, err
	}
	return e.ops.GetDBRange(e, dir)
}

// AskVolDB converts a raw volume to hundredths of a dB.
func (e *Elem) AskVolDB(dir Direction, value int64) (int64, error) {
	if err := e.checkVolume(dir); err != nil {
		return 0, err
	}
	return e.ops.AskVolDB(e, dir, value)
}

// AskDBVol converts hundredths of a dB to a raw volume. The xdir
// rounding hint selects the raw value below (negative) or above
// (positive) when the dB value falls between steps.
func (e *Elem) AskDBVol(dir Direction, db int64, xdir int) (int64, error) {
	if err := e.checkVolume(dir); err != nil {
		return 0, err
	}
	return e.ops.AskDBVol(e, dir, db, xdir)
}

// GetVolume returns the raw volume of one channel.
func (e *Elem) GetVolume(dir Direction, ch Channel) (int64, error) {
	if err := e.checkVolume(dir); err != nil {
		return 0, err
	}
	return e.ops.GetVolume(e, dir, e.volumeChannel(dir, ch))
}

// GetDB returns the volume of one channel in hundredths of a dB.
func (e *Elem) GetDB(dir Direction, ch Channel) (int64, error) {
	if err := e.checkVolume(dir); err != nil {
		return 0, err
	}
	return e.ops.GetDB(e, dir, e.volumeChannel(dir, ch))
}

// SetVolume sets the raw volume of one channel. With a joined volume any
// channel request adjusts all channels.
func (e *Elem) SetVolume(dir Direction, ch Channel, value int64) error {
	if err := e.checkVolume(dir); err != nil {
		return err
	}
	return e.ops.SetVolume(e, dir, e.volumeChannel(dir, ch), value)
}

// SetDB sets the volume of one channel in hundredths of a dB, rounded
// per the xdir hint.
func (e *Elem) SetDB(dir Direction, ch Channel, db int64, xdir int) error {
	if err := e.checkVolume(dir); err != nil {
		return err
	}
	return e.ops.SetDB(e, dir, e.volumeChannel(dir, ch), db, xdir)
}

// GetSwitch returns the switch state of one channel.
func (e *Elem) GetSwitch(dir Direction, ch Channel) (bool, error) {
	if err := e.checkSwitch(dir); err != nil {
		return false, err
	}
	return e.ops.GetSwitch(e, dir, e.switchChannel(dir, ch))
}

// SetSwitch sets the switch state of one channel. With a joined switch
// any channel request flips all channels.
func (e *Elem) SetSwitch(dir Direction, ch Channel, on bool) error {
	if err := e.checkSwitch(dir); err != nil {
		return err
	}
	return e.ops.SetSwitch(e, dir, e.switchChannel(dir, ch), on)
}

// SetVolumeAll sets the raw volume of every present channel.
func (e *Elem) SetVolumeAll(dir Direction, value int64) error {
	if err := e.checkVolume(dir); err != nil {
		return err
	}
	for ch := Channel(0); ch <= ChannelLast; ch++ {
		if !e.HasChannel(dir, ch) {
			continue
		}
		if err := e.SetVolume(dir, ch, value); err != nil {
			return err
		}
		if e.HasVolumeJoined(dir) {
			return nil
		}
	}
	return nil
}

// SetDBAll sets the volume of every present channel in hundredths of a
// dB.
func (e *Elem) SetDBAll(dir Direction, db int64, xdir int) error {
	if err := e.checkVolume(dir); err != nil {
		return err
	}
	for ch := Channel(0); ch <= ChannelLast; ch++ {
		if !e.HasChannel(dir, ch) {
			continue
		}
		if err := e.SetDB(dir, ch, db, xdir); err != nil {
			return err
		}
		if e.HasVolumeJoined(dir) {
			return nil
		}
	}
	return nil
}

// SetSwitchAll sets the switch state of every present channel.
func (e *Elem) SetSwitchAll(dir Direction, on bool) error {
	if err := e.checkSwitch(dir); err != nil {
		return err
	}
	for ch := Channel(0); ch <= ChannelLast; ch++ {
		if !e.HasChannel(dir, ch) {
			continue
		}
		if err := e.SetSwitch(dir, ch, on); err != nil {
			return err
		}
		if e.HasSwitchJoined(dir) {
			return nil
		}
	}
	return nil
}

// GetEnumItems returns the number of enumerated items.
func (e *Elem) GetEnumItems(dir Direction) (int, error) {
	if !e.IsEnumerated(dir) {
		return 0, ErrUnsupported
	}
	return e.ops.Is(e, dir, OpsIsEnumCount, 0), nil
}

// GetEnumItemName returns the name of one enumerated item.
func (e *Elem) GetEnumItemName(dir Direction, item uint) (string, error) {
	if !e.IsEnumerated(dir) {
		return "", ErrUnsupported
	}
	return e.ops.EnumItemName(e, item)
}

// GetEnumItem returns the selected item on one channel.
func (e *Elem) GetEnumItem(dir Direction, ch Channel) (uint, error) {
	if !e.IsEnumerated(dir) {
		return 0, ErrUnsupported
	}
	return e.ops.GetEnumItem(e, ch)
}

// SetEnumItem selects an item on one channel.
func (e *Elem) SetEnumItem(dir Direction, ch Channel, item uint) error {
	if !e.IsEnumerated(dir) {
		return ErrUnsupported
	}
	return e.ops.SetEnumItem(e, ch, item)
}
