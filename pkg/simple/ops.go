package simple

import (
	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/mixer"
)

// ops implements mixer.Ops over the selem state stored in each
// element's private slot.
type ops struct{}

func state(e *mixer.Elem) *selem {
	return e.Private().(*selem)
}

func (ops) Is(e *mixer.Elem, dir mixer.Direction, cmd int, val int) int {
	s := state(e)
	switch cmd {
	case mixer.OpsIsActive:
		for _, h := range s.ctls {
			if h != nil && h.inactive {
				return 0
			}
		}
		return 1
	case mixer.OpsIsChannel:
		if val >= 0 && val < s.dir(dir).channels {
			return 1
		}
		return 0
	case mixer.OpsIsEnumerated:
		if s.enum != nil {
			return 1
		}
		return 0
	case mixer.OpsIsEnumCount:
		if s.enum != nil {
			return len(s.enum.items)
		}
		return 0
	}
	return 0
}

func (ops) GetChannels(e *mixer.Elem, dir mixer.Direction) (int, error) {
	n := state(e).dir(dir).channels
	if n == 0 {
		return 0, mixer.ErrUnsupported
	}
	return n, nil
}

func (ops) GetRange(e *mixer.Elem, dir mixer.Direction) (min, max int64, err error) {
	d := state(e).dir(dir)
	if d.vol == nil {
		return 0, 0, mixer.ErrUnsupported
	}
	return d.userMin, d.userMax, nil
}

// SetRange installs a software scale: user volumes in [min, max] map
// linearly onto the control's raw range. Raw values stay untouched.
func (ops) SetRange(e *mixer.Elem, dir mixer.Direction, min, max int64) error {
	d := state(e).dir(dir)
	if d.vol == nil {
		return mixer.ErrUnsupported
	}
	d.userMin, d.userMax = min, max
	return nil
}

func (ops) GetDBRange(e *mixer.Elem, dir mixer.Direction) (min, max int64, err error) {
	d := state(e).dir(dir)
	if d.vol == nil {
		return 0, 0, mixer.ErrUnsupported
	}
	if d.dbMin == 0 && d.dbMax == 0 {
		return 0, 0, mixer.ErrUnsupported
	}
	return d.dbMin, d.dbMax, nil
}

func (ops) AskVolDB(e *mixer.Elem, dir mixer.Direction, value int64) (int64, error) {
	d := state(e).dir(dir)
	if d.vol == nil {
		return 0, mixer.ErrUnsupported
	}
	return rawToDB(d, value)
}

func (ops) AskDBVol(e *mixer.Elem, dir mixer.Direction, dbValue int64, xdir int) (int64, error) {
	d := state(e).dir(dir)
	if d.vol == nil {
		return 0, mixer.ErrUnsupported
	}
	return dbToRaw(d, dbValue, xdir)
}

func (ops) GetVolume(e *mixer.Elem, dir mixer.Direction, channel mixer.Channel) (int64, error) {
	d := state(e).dir(dir)
	if d.vol == nil {
		return 0, mixer.ErrUnsupported
	}
	raw, err := readChannel(d.vol, channel)
	if err != nil {
		return 0, err
	}
	return rawToUser(d, raw), nil
}

func (ops) GetDB(e *mixer.Elem, dir mixer.Direction, channel mixer.Channel) (int64, error) {
	d := state(e).dir(dir)
	if d.vol == nil {
		return 0, mixer.ErrUnsupported
	}
	raw, err := readChannel(d.vol, channel)
	if err != nil {
		return 0, err
	}
	return rawToDB(d, raw)
}

func (ops) SetVolume(e *mixer.Elem, dir mixer.Direction, channel mixer.Channel, value int64) error {
	d := state(e).dir(dir)
	if d.vol == nil {
		return mixer.ErrUnsupported
	}
	return writeChannel(d.vol, channel, userToRaw(d, value))
}

func (ops) SetDB(e *mixer.Elem, dir mixer.Direction, channel mixer.Channel, value int64, xdir int) error {
	d := state(e).dir(dir)
	if d.vol == nil {
		return mixer.ErrUnsupported
	}
	raw, err := dbToRaw(d, value, xdir)
	if err != nil {
		return err
	}
	return writeChannel(d.vol, channel, raw)
}

func (ops) GetSwitch(e *mixer.Elem, dir mixer.Direction, channel mixer.Channel) (bool, error) {
	d := state(e).dir(dir)
	if d.sw == nil {
		return false, mixer.ErrUnsupported
	}
	v, err := readChannel(d.sw, channel)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (ops) SetSwitch(e *mixer.Elem, dir mixer.Direction, channel mixer.Channel, on bool) error {
	d := state(e).dir(dir)
	if d.sw == nil {
		return mixer.ErrUnsupported
	}
	var v int64
	if on {
		v = 1
	}
	return writeChannel(d.sw, channel, v)
}

func (ops) EnumItemName(e *mixer.Elem, item uint) (string, error) {
	s := state(e)
	if s.enum == nil {
		return "", mixer.ErrUnsupported
	}
	if int(item) >= len(s.enum.items) {
		return "", mixer.ErrInvalidArgument
	}
	return s.enum.items[item], nil
}

func (ops) GetEnumItem(e *mixer.Elem, channel mixer.Channel) (uint, error) {
	s := state(e)
	if s.enum == nil {
		return 0, mixer.ErrUnsupported
	}
	v, err := readChannel(s.enum, channel)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func (ops) SetEnumItem(e *mixer.Elem, channel mixer.Channel, item uint) error {
	s := state(e)
	if s.enum == nil {
		return mixer.ErrUnsupported
	}
	if int(item) >= len(s.enum.items) {
		return mixer.ErrInvalidArgument
	}
	return writeChannel(s.enum, channel, int64(item))
}

// channelIndex collapses the requested channel onto the control's value
// vector: one-value controls always address value 0.
func channelIndex(h *helem, ch mixer.Channel) (int, error) {
	if h.values == 1 {
		return 0, nil
	}
	if int(ch) < 0 || int(ch) >= h.values {
		return 0, mixer.ErrInvalidArgument
	}
	return int(ch), nil
}

func readChannel(h *helem, ch mixer.Channel) (int64, error) {
	idx, err := channelIndex(h, ch)
	if err != nil {
		return 0, err
	}
	v, err := h.elem.ReadValue()
	if err != nil {
		return 0, err
	}
	if idx >= len(v) {
		return 0, ctl.ErrInvalidArgument
	}
	return v[idx], nil
}

// writeChannel read-modify-writes a single slot of the control's value
// vector.
func writeChannel(h *helem, ch mixer.Channel, value int64) error {
	idx, err := channelIndex(h, ch)
	if err != nil {
		return err
	}
	v, err := h.elem.ReadValue()
	if err != nil {
		return err
	}
	if idx >= len(v) {
		return ctl.ErrInvalidArgument
	}
	if v[idx] == value {
		return nil
	}
	v[idx] = value
	_, err = h.elem.WriteValue(v)
	return err
}

// rawToUser maps a raw control value onto the user scale installed by
// SetRange.
func rawToUser(d *dirState, raw int64) int64 {
	if d.userMin == d.min && d.userMax == d.max {
		return raw
	}
	return scale(raw, d.min, d.max, d.userMin, d.userMax, 0)
}

func userToRaw(d *dirState, user int64) int64 {
	if d.userMin == d.min && d.userMax == d.max {
		return clamp(user, d.min, d.max)
	}
	return scale(clamp(user, d.userMin, d.userMax), d.userMin, d.userMax, d.min, d.max, 0)
}

// rawToDB converts a raw volume to hundredths of a dB by linear
// interpolation over the control's reported dB span.
func rawToDB(d *dirState, raw int64) (int64, error) {
	if d.dbMin == 0 && d.dbMax == 0 {
		return 0, mixer.ErrUnsupported
	}
	return scale(clamp(raw, d.min, d.max), d.min, d.max, d.dbMin, d.dbMax, 0), nil
}

func dbToRaw(d *dirState, db int64, xdir int) (int64, error) {
	if d.dbMin == 0 && d.dbMax == 0 {
		return 0, mixer.ErrUnsupported
	}
	return scale(clamp(db, d.dbMin, d.dbMax), d.dbMin, d.dbMax, d.min, d.max, xdir), nil
}

// scale maps v linearly from [fromMin, fromMax] onto [toMin, toMax].
// xdir picks the rounding direction when the result falls between steps:
// negative rounds toward toMin, positive away from it, zero to nearest.
func scale(v, fromMin, fromMax, toMin, toMax int64, xdir int) int64 {
	span := fromMax - fromMin
	if span == 0 {
		return toMin
	}
	num := (v - fromMin) * (toMax - toMin)
	q := num / span
	r := num % span
	if r != 0 {
		switch {
		case xdir > 0 && r > 0 == (span > 0):
			q++
		case xdir == 0 && abs64(r)*2 >= abs64(span):
			if r > 0 == (span > 0) {
				q++
			} else {
				q--
			}
		case xdir < 0 && r > 0 != (span > 0):
			q--
		}
	}
	return toMin + q
}

func clamp(v, min, max int64) int64 {
	if min > max {
		min, max = max, min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
