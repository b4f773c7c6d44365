package simple

import (
	"strings"

	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/mixer"
)

func init() {
	mixer.Register("simple", Open)
}

// Open is the backend entry point. It installs the grouping event hook
// and attaches the configured transports; simple elements materialize as
// raw elements are announced.
func Open(m *mixer.Mixer, cfg *mixer.Config) error {
	m.SetBackendEvent(backendEvent)
	return mixer.AttachAll(m, cfg)
}

// ctlType classifies a raw control by the role its name suffix (or
// enumerated type) assigns within a simple element.
type ctlType int

const (
	ctlSingle ctlType = iota
	ctlGlobalEnum
	ctlGlobalVolume
	ctlGlobalSwitch
	ctlPlaybackEnum
	ctlPlaybackVolume
	ctlPlaybackSwitch
	ctlCaptureEnum
	ctlCaptureVolume
	ctlCaptureSwitch
	ctlLast = ctlCaptureSwitch
)

var suffixes = []struct {
	text string
	typ  ctlType
}{
	{" Playback Volume", ctlPlaybackVolume},
	{" Playback Switch", ctlPlaybackSwitch},
	{" Capture Volume", ctlCaptureVolume},
	{" Capture Switch", ctlCaptureSwitch},
	{" Volume", ctlGlobalVolume},
	{" Switch", ctlGlobalSwitch},
}

// classify splits a control name into the simple-element base name and
// the control's role. Enumerated controls are classified by direction
// token instead of suffix.
func classify(name string, typ ctl.ElemType) (base string, ct ctlType) {
	if typ == ctl.TypeEnumerated {
		switch {
		case strings.Contains(name, "Capture"):
			return enumBase(name, "Capture"), ctlCaptureEnum
		case strings.Contains(name, "Playback"):
			return enumBase(name, "Playback"), ctlPlaybackEnum
		default:
			return strings.TrimSuffix(name, " Enum"), ctlGlobalEnum
		}
	}
	for _, s := range suffixes {
		if b, ok := strings.CutSuffix(name, s.text); ok && b != "" {
			return b, s.typ
		}
	}
	return name, ctlSingle
}

func enumBase(name, token string) string {
	if idx := strings.Index(name, " "+token); idx > 0 {
		return name[:idx]
	}
	return name
}

// helem is the cached state of one raw control within a simple element.
type helem struct {
	elem     *ctl.Elem
	values   int
	min, max int64
	dbMin    int64
	dbMax    int64
	inactive bool
	items    []string
}

// dirState is the per-direction view of a simple element.
type dirState struct {
	channels int
	min, max int64
	dbMin    int64
	dbMax    int64

	// user-facing range when rescaled via SetRange; equals min/max
	// otherwise
	userMin, userMax int64

	vol *helem
	sw  *helem
}

// selem is the backend-private state of one simple element.
type selem struct {
	ctls [ctlLast + 1]*helem

	play dirState
	capt dirState
	enum *helem
}

func (s *selem) dir(d mixer.Direction) *dirState {
	if d == mixer.DirCapture {
		return &s.capt
	}
	return &s.play
}

// backendEvent reacts to raw-element notifications: additions bind the
// control into a (possibly new) simple element, removals unbind it, and
// value or info changes republish at the simple-element level.
func backendEvent(m *mixer.Mixer, mask ctl.EventMask, h *ctl.Elem, me *mixer.Elem) error {
	if mask == ctl.MaskRemoved {
		return removeCtl(m, h, me)
	}
	if mask&ctl.MaskAdded != 0 {
		return addCtl(m, h)
	}
	if me == nil {
		return nil
	}
	if mask&ctl.MaskInfo != 0 {
		s := me.Private().(*selem)
		if err := s.refresh(); err != nil {
			return err
		}
		deriveCaps(me, s)
		if err := me.ThrowInfoEvent(); err != nil {
			return err
		}
	}
	if mask&ctl.MaskValue != 0 {
		return me.ThrowValueEvent()
	}
	return nil
}

func addCtl(m *mixer.Mixer, h *ctl.Elem) error {
	if h.Iface() != ctl.IfaceMixer {
		return nil
	}
	info, err := h.Info()
	if err != nil {
		return err
	}
	switch info.Type {
	case ctl.TypeBoolean, ctl.TypeInteger, ctl.TypeEnumerated:
	default:
		return nil
	}
	base, ct := classify(h.Name(), info.Type)

	id := mixer.NewElemID(base, h.Index())
	me := m.Find(id)
	if me == nil {
		s := &selem{}
		me = m.NewElem(id, ctl.CompareWeight(base), s, nil)
		if err := me.Attach(h); err != nil {
			return err
		}
		s.bind(ct, h, &info)
		if err := s.refresh(); err != nil {
			return err
		}
		deriveCaps(me, s)
		return m.Add(me)
	}

	s := me.Private().(*selem)
	if s.ctls[ct] != nil {
		// A second control with the same role cannot join this
		// element; leave it unbound.
		return nil
	}
	if err := me.Attach(h); err != nil {
		return err
	}
	s.bind(ct, h, &info)
	if err := s.refresh(); err != nil {
		return err
	}
	deriveCaps(me, s)
	return me.ThrowInfoEvent()
}

func removeCtl(m *mixer.Mixer, h *ctl.Elem, me *mixer.Elem) error {
	if me == nil {
		return nil
	}
	s := me.Private().(*selem)
	for i := range s.ctls {
		if s.ctls[i] != nil && s.ctls[i].elem == h {
			s.ctls[i] = nil
		}
	}
	if err := me.Detach(h); err != nil {
		return err
	}
	if me.IsEmpty() {
		return m.Remove(me)
	}
	if err := s.refresh(); err != nil {
		return err
	}
	deriveCaps(me, s)
	return me.ThrowInfoEvent()
}

func (s *selem) bind(ct ctlType, h *ctl.Elem, info *ctl.ElemInfo) {
	s.ctls[ct] = &helem{
		elem:     h,
		values:   info.Count,
		min:      info.Min,
		max:      info.Max,
		dbMin:    info.DBMin,
		dbMax:    info.DBMax,
		inactive: info.Inactive,
		items:    info.Items,
	}
}

// refresh re-reads every bound control's metadata and recomputes the
// per-direction state.
func (s *selem) refresh() error {
	for _, h := range s.ctls {
		if h == nil {
			continue
		}
		info, err := h.elem.Info()
		if err != nil {
			return err
		}
		h.values = info.Count
		h.min = info.Min
		h.max = info.Max
		h.dbMin = info.DBMin
		h.dbMax = info.DBMax
		h.inactive = info.Inactive
		h.items = info.Items
	}

	s.play = dirState{}
	s.capt = dirState{}
	s.enum = nil

	pick := func(prefer, fallback ctlType) *helem {
		if s.ctls[prefer] != nil {
			return s.ctls[prefer]
		}
		return s.ctls[fallback]
	}
	s.play.vol = pick(ctlPlaybackVolume, ctlGlobalVolume)
	s.play.sw = pick(ctlPlaybackSwitch, ctlGlobalSwitch)
	s.capt.vol = pick(ctlCaptureVolume, ctlGlobalVolume)
	s.capt.sw = pick(ctlCaptureSwitch, ctlGlobalSwitch)

	if single := s.ctls[ctlSingle]; single != nil {
		switch {
		case single.min != single.max:
			if s.play.vol == nil {
				s.play.vol = single
			}
			if s.capt.vol == nil {
				s.capt.vol = single
			}
		default:
			if s.play.sw == nil {
				s.play.sw = single
			}
			if s.capt.sw == nil {
				s.capt.sw = single
			}
		}
	}

	for _, ct := range []ctlType{ctlGlobalEnum, ctlPlaybackEnum, ctlCaptureEnum} {
		if s.ctls[ct] != nil {
			s.enum = s.ctls[ct]
			break
		}
	}

	fill := func(d *dirState) {
		d.channels = 0
		if d.vol != nil {
			d.channels = d.vol.values
			d.min, d.max = d.vol.min, d.vol.max
			d.dbMin, d.dbMax = d.vol.dbMin, d.vol.dbMax
			if d.userMax <= d.userMin {
				d.userMin, d.userMax = d.min, d.max
			}
		}
		if d.sw != nil && d.sw.values > d.channels {
			d.channels = d.sw.values
		}
	}
	fill(&s.play)
	fill(&s.capt)
	if s.enum != nil {
		if s.enum.values > s.play.channels {
			s.play.channels = s.enum.values
		}
		if s.enum.values > s.capt.channels {
			s.capt.channels = s.enum.values
		}
	}
	return nil
}

// deriveCaps recomputes the capability bits from the bound controls.
func deriveCaps(me *mixer.Elem, s *selem) {
	var caps mixer.Caps

	globalVol := s.ctls[ctlGlobalVolume] != nil ||
		(s.ctls[ctlSingle] != nil && s.ctls[ctlSingle].min != s.ctls[ctlSingle].max)
	globalSw := s.ctls[ctlGlobalSwitch] != nil ||
		(s.ctls[ctlSingle] != nil && s.ctls[ctlSingle].min == s.ctls[ctlSingle].max)

	if globalVol && s.ctls[ctlPlaybackVolume] == nil && s.ctls[ctlCaptureVolume] == nil {
		caps |= mixer.CapCommonVolume
	}
	if globalSw && s.ctls[ctlPlaybackSwitch] == nil && s.ctls[ctlCaptureSwitch] == nil {
		caps |= mixer.CapCommonSwitch
	}
	if s.ctls[ctlPlaybackVolume] != nil {
		caps |= mixer.CapPlaybackVolume
	}
	if s.ctls[ctlPlaybackSwitch] != nil {
		caps |= mixer.CapPlaybackSwitch
	}
	if s.ctls[ctlCaptureVolume] != nil {
		caps |= mixer.CapCaptureVolume
	}
	if s.ctls[ctlCaptureSwitch] != nil {
		caps |= mixer.CapCaptureSwitch
	}

	// A one-value control steering a multi-channel element acts on all
	// channels at once.
	if caps&(mixer.CapPlaybackVolume|mixer.CapCommonVolume) != 0 &&
		s.play.vol != nil && s.play.vol.values == 1 {
		caps |= mixer.CapPlaybackVolumeJoined
	}
	if caps&(mixer.CapPlaybackSwitch|mixer.CapCommonSwitch) != 0 &&
		s.play.sw != nil && s.play.sw.values == 1 {
		caps |= mixer.CapPlaybackSwitchJoined
	}
	if caps&(mixer.CapCaptureVolume|mixer.CapCommonVolume) != 0 &&
		s.capt.vol != nil && s.capt.vol.values == 1 {
		caps |= mixer.CapCaptureVolumeJoined
	}
	if caps&(mixer.CapCaptureSwitch|mixer.CapCommonSwitch) != 0 &&
		s.capt.sw != nil && s.capt.sw.values == 1 {
		caps |= mixer.CapCaptureSwitchJoined
	}

	if s.ctls[ctlPlaybackEnum] != nil || s.ctls[ctlGlobalEnum] != nil {
		caps |= mixer.CapPlaybackEnum
	}
	if s.ctls[ctlCaptureEnum] != nil || s.ctls[ctlGlobalEnum] != nil {
		caps |= mixer.CapCaptureEnum
	}

	me.SetCaps(caps)
	me.SetOps(ops{})
}
