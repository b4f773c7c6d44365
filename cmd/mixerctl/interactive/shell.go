// Package interactive provides the interactive command-line interface
// for mixerctl.
package interactive

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/memctl"
	"github.com/openmixer/mixer-go/pkg/mixer"
	"github.com/openmixer/mixer-go/pkg/scenario"
)

// Shell handles interactive mode for mixerctl.
type Shell struct {
	mixer     *mixer.Mixer
	transport *memctl.Transport
	profile   *scenario.Profile
	rl        *readline.Instance
}

// New creates a new interactive shell.
func New(m *mixer.Mixer, transport *memctl.Transport, profile *scenario.Profile) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mixer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{mixer: m, transport: transport, profile: profile, rl: rl}, nil
}

// Run starts the interactive command loop.
func (s *Shell) Run() error {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "list", "ls":
			s.cmdList()

		case "controls":
			s.cmdControls()

		case "get", "g":
			s.cmdGet(args)

		case "set", "s":
			s.cmdSet(args)

		case "mute":
			s.cmdSwitch(args, false)

		case "unmute":
			s.cmdSwitch(args, true)

		case "enum":
			s.cmdEnum(args)

		case "monitor", "m":
			s.cmdMonitor(args)

		case "sim":
			s.cmdSim(args)

		case "scenarios":
			s.cmdScenarios()

		case "apply":
			s.cmdApply(args)

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return nil

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Mixer Commands:
  Inspection:
    list                       - List simple elements with capabilities
    controls                   - List raw controls
    get <elem>                 - Show volumes and switches of an element

  Control:
    set <elem> <value|N%>      - Set playback volume (all channels)
    mute <elem>                - Switch playback off
    unmute <elem>              - Switch playback on
    enum <elem> [item]         - Show or select enumerated item

  Events:
    monitor [seconds]          - Watch mixer events (default 5s)
    sim <control> <values...>  - Simulate an external control change

  Scenarios:
    scenarios                  - List loaded scenarios
    apply <name>               - Play a scenario back

  General:
    help                       - Show this help
    quit                       - Exit`)
}

func (s *Shell) cmdList() {
	out := s.rl.Stdout()
	if s.mixer.Count() == 0 {
		fmt.Fprintln(out, "No simple elements")
		return
	}
	fmt.Fprintf(out, "\nSimple elements (%d):\n", s.mixer.Count())
	fmt.Fprintln(out, "-------------------------------------------")
	for e := s.mixer.First(); e != nil; e = e.Next() {
		fmt.Fprintf(out, "  '%s',%d  [%s]\n", e.Name(), e.Index(), capString(e))
	}
}

func (s *Shell) cmdControls() {
	out := s.rl.Stdout()
	for _, c := range s.mixer.Caches() {
		fmt.Fprintf(out, "\nRaw controls (%d):\n", c.Count())
		fmt.Fprintln(out, "-------------------------------------------")
		for h := c.First(); h != nil; h = h.Next() {
			info, err := h.Info()
			if err != nil {
				fmt.Fprintf(out, "  #%d '%s',%d  <info error: %v>\n",
					h.NumID(), h.Name(), h.Index(), err)
				continue
			}
			v, _ := h.ReadValue()
			fmt.Fprintf(out, "  #%d '%s',%d  type=%v channels=%d values=%v\n",
				h.NumID(), h.Name(), h.Index(), info.Type, info.Count, v)
		}
	}
}

func (s *Shell) cmdGet(args []string) {
	out := s.rl.Stdout()
	e := s.findElem(args)
	if e == nil {
		return
	}

	fmt.Fprintf(out, "'%s',%d:\n", e.Name(), e.Index())
	for _, dir := range []mixer.Direction{mixer.DirPlayback, mixer.DirCapture} {
		if !e.HasVolume(dir) && !e.HasSwitch(dir) {
			continue
		}
		fmt.Fprintf(out, "  %s:\n", dir)
		if e.HasVolume(dir) {
			min, max, _ := e.GetVolumeRange(dir)
			fmt.Fprintf(out, "    volume range [%d..%d]\n", min, max)
		}
		for ch := mixer.Channel(0); ch <= mixer.ChannelLast; ch++ {
			if !e.HasChannel(dir, ch) {
				continue
			}
			line := fmt.Sprintf("    %s:", mixer.ChannelName(ch))
			if e.HasVolume(dir) {
				if vol, err := e.GetVolume(dir, ch); err == nil {
					line += fmt.Sprintf(" %d", vol)
				}
				if db, err := e.GetDB(dir, ch); err == nil {
					line += fmt.Sprintf(" [%.2fdB]", float64(db)/100)
				}
			}
			if e.HasSwitch(dir) {
				on, err := e.GetSwitch(dir, ch)
				if err == nil {
					if on {
						line += " [on]"
					} else {
						line += " [off]"
					}
				}
			}
			fmt.Fprintln(out, line)
		}
	}
	if e.IsEnumerated(mixer.DirCommon) {
		item, err := e.GetEnumItem(mixer.DirCommon, mixer.ChannelMono)
		if err == nil {
			name, _ := e.GetEnumItemName(mixer.DirCommon, item)
			fmt.Fprintf(out, "  item: %d (%s)\n", item, name)
		}
	}
}

func (s *Shell) cmdSet(args []string) {
	out := s.rl.Stdout()
	if len(args) < 2 {
		fmt.Fprintln(out, "Usage: set <elem> <value|N%>")
		return
	}
	e := s.findElem(args[:len(args)-1])
	if e == nil {
		return
	}
	dir := mixer.DirPlayback
	if !e.HasVolume(dir) {
		dir = mixer.DirCapture
	}
	if !e.HasVolume(dir) {
		fmt.Fprintln(out, "Element has no volume control")
		return
	}

	spec := args[len(args)-1]
	min, max, err := e.GetVolumeRange(dir)
	if err != nil {
		fmt.Fprintf(out, "Failed to read range: %v\n", err)
		return
	}
	var value int64
	if pct, ok := strings.CutSuffix(spec, "%"); ok {
		p, err := strconv.ParseInt(pct, 10, 64)
		if err != nil || p < 0 || p > 100 {
			fmt.Fprintf(out, "Invalid percentage: %s\n", spec)
			return
		}
		value = min + (max-min)*p/100
	} else {
		value, err = strconv.ParseInt(spec, 10, 64)
		if err != nil {
			fmt.Fprintf(out, "Invalid value: %s\n", spec)
			return
		}
	}

	if err := e.SetVolumeAll(dir, value); err != nil {
		fmt.Fprintf(out, "Failed to set volume: %v\n", err)
		return
	}
	fmt.Fprintf(out, "'%s' %s volume set to %d\n", e.Name(), dir, value)
}

func (s *Shell) cmdSwitch(args []string, on bool) {
	out := s.rl.Stdout()
	e := s.findElem(args)
	if e == nil {
		return
	}
	dir := mixer.DirPlayback
	if !e.HasSwitch(dir) {
		dir = mixer.DirCapture
	}
	if !e.HasSwitch(dir) {
		fmt.Fprintln(out, "Element has no switch")
		return
	}
	if err := e.SetSwitchAll(dir, on); err != nil {
		fmt.Fprintf(out, "Failed to set switch: %v\n", err)
		return
	}
	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(out, "'%s' %s switch %s\n", e.Name(), dir, state)
}

func (s *Shell) cmdEnum(args []string) {
	out := s.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "Usage: enum <elem> [item]")
		return
	}

	var item string
	elemArgs := args
	if len(args) > 1 {
		if _, err := strconv.Atoi(args[len(args)-1]); err == nil {
			item = args[len(args)-1]
			elemArgs = args[:len(args)-1]
		}
	}
	e := s.findElem(elemArgs)
	if e == nil {
		return
	}
	if !e.IsEnumerated(mixer.DirCommon) {
		fmt.Fprintln(out, "Element is not enumerated")
		return
	}

	if item == "" {
		n, _ := e.GetEnumItems(mixer.DirCommon)
		current, _ := e.GetEnumItem(mixer.DirCommon, mixer.ChannelMono)
		for i := 0; i < n; i++ {
			name, _ := e.GetEnumItemName(mixer.DirCommon, uint(i))
			marker := " "
			if uint(i) == current {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %d: %s\n", marker, i, name)
		}
		return
	}

	sel, _ := strconv.Atoi(item)
	if err := e.SetEnumItem(mixer.DirCommon, mixer.ChannelMono, uint(sel)); err != nil {
		fmt.Fprintf(out, "Failed to select item: %v\n", err)
		return
	}
	name, _ := e.GetEnumItemName(mixer.DirCommon, uint(sel))
	fmt.Fprintf(out, "Selected item %d (%s)\n", sel, name)
}

func (s *Shell) cmdMonitor(args []string) {
	out := s.rl.Stdout()
	seconds := 5
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			seconds = n
		}
	}

	total := 0
	s.mixer.SetCallback(func(m *mixer.Mixer, mask ctl.EventMask, e *mixer.Elem) error {
		fmt.Fprintf(out, "  event: %s '%s',%d\n", maskString(mask), e.Name(), e.Index())
		return nil
	})
	elemCB := func(e *mixer.Elem, mask ctl.EventMask) error {
		fmt.Fprintf(out, "  event: %s '%s',%d\n", maskString(mask), e.Name(), e.Index())
		return nil
	}
	for e := s.mixer.First(); e != nil; e = e.Next() {
		e.SetCallback(elemCB)
	}
	defer func() {
		s.mixer.SetCallback(nil)
		for e := s.mixer.First(); e != nil; e = e.Next() {
			e.SetCallback(nil)
		}
	}()

	fmt.Fprintf(out, "Monitoring for %ds (use 'sim' from another terminal)...\n", seconds)
	deadline := time.Now().Add(time.Duration(seconds) * time.Second)
	for time.Now().Before(deadline) {
		ready, err := s.mixer.Wait(time.Until(deadline))
		if err != nil {
			fmt.Fprintf(out, "Wait failed: %v\n", err)
			return
		}
		if !ready {
			break
		}
		n, err := s.mixer.HandleEvents()
		if err != nil {
			fmt.Fprintf(out, "Event handling failed: %v\n", err)
			return
		}
		total += n
	}
	fmt.Fprintf(out, "%d event(s)\n", total)
}

func (s *Shell) cmdSim(args []string) {
	out := s.rl.Stdout()
	if len(args) < 2 {
		fmt.Fprintln(out, "Usage: sim <control> <values...>")
		fmt.Fprintln(out, "  Example: sim \"Master Playback Volume\" 30 30")
		return
	}

	// Values are the trailing numeric arguments; the rest is the name.
	values := ctl.Value{}
	nameEnd := len(args)
	for nameEnd > 1 {
		v, err := strconv.ParseInt(args[nameEnd-1], 10, 64)
		if err != nil {
			break
		}
		values = append(ctl.Value{v}, values...)
		nameEnd--
	}
	if len(values) == 0 {
		fmt.Fprintln(out, "No numeric values given")
		return
	}
	name := strings.Trim(strings.Join(args[:nameEnd], " "), "\"'")

	id := ctl.ElemID{Iface: ctl.IfaceMixer, Name: name}
	if !s.transport.SetValue(id, values) {
		fmt.Fprintf(out, "Control not found or value size mismatch: %s\n", name)
		return
	}
	fmt.Fprintln(out, "Change queued; run 'monitor' to observe it")
}

func (s *Shell) cmdScenarios() {
	out := s.rl.Stdout()
	if s.profile == nil {
		fmt.Fprintln(out, "No profile loaded (start with -profile)")
		return
	}
	names := s.profile.Names()
	sort.Strings(names)
	for _, name := range names {
		sc := s.profile.Scenarios[name]
		fmt.Fprintf(out, "  %s (%d steps)", name, len(sc.Steps))
		if sc.Description != "" {
			fmt.Fprintf(out, " - %s", sc.Description)
		}
		fmt.Fprintln(out)
	}
}

func (s *Shell) cmdApply(args []string) {
	out := s.rl.Stdout()
	if s.profile == nil {
		fmt.Fprintln(out, "No profile loaded (start with -profile)")
		return
	}
	if len(args) < 1 {
		fmt.Fprintln(out, "Usage: apply <name>")
		return
	}
	caches := s.mixer.Caches()
	if len(caches) == 0 {
		fmt.Fprintln(out, "No control cache attached")
		return
	}
	if err := s.profile.Apply(caches[0], args[0]); err != nil {
		fmt.Fprintf(out, "Scenario failed: %v\n", err)
		return
	}
	fmt.Fprintln(out, "OK")
}

// findElem resolves an element from command arguments: a quoted or
// multi-word name, optionally followed by ",index".
func (s *Shell) findElem(args []string) *mixer.Elem {
	out := s.rl.Stdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "Element name required (see 'list')")
		return nil
	}
	spec := strings.Trim(strings.Join(args, " "), "\"'")
	name := spec
	var index uint32
	if at := strings.LastIndex(spec, ","); at >= 0 {
		if idx, err := strconv.ParseUint(spec[at+1:], 10, 32); err == nil {
			name = spec[:at]
			index = uint32(idx)
		}
	}

	if e := s.mixer.Find(mixer.NewElemID(name, index)); e != nil {
		return e
	}
	// Fall back to a case-insensitive prefix match.
	for e := s.mixer.First(); e != nil; e = e.Next() {
		if strings.HasPrefix(strings.ToLower(e.Name()), strings.ToLower(name)) {
			return e
		}
	}
	fmt.Fprintf(out, "Element not found: %s\n", spec)
	return nil
}

func capString(e *mixer.Elem) string {
	var parts []string
	if e.HasCommonVolume() {
		parts = append(parts, "volume")
	} else {
		if e.HasVolume(mixer.DirPlayback) {
			parts = append(parts, "pvolume")
		}
		if e.HasVolume(mixer.DirCapture) {
			parts = append(parts, "cvolume")
		}
	}
	if e.HasCommonSwitch() {
		parts = append(parts, "switch")
	} else {
		if e.HasSwitch(mixer.DirPlayback) {
			parts = append(parts, "pswitch")
		}
		if e.HasSwitch(mixer.DirCapture) {
			parts = append(parts, "cswitch")
		}
	}
	if e.IsEnumerated(mixer.DirCommon) {
		parts = append(parts, "enum")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func maskString(mask ctl.EventMask) string {
	if mask == ctl.MaskRemoved {
		return "REMOVE"
	}
	var parts []string
	if mask&ctl.MaskAdded != 0 {
		parts = append(parts, "ADD")
	}
	if mask&ctl.MaskValue != 0 {
		parts = append(parts, "VALUE")
	}
	if mask&ctl.MaskInfo != 0 {
		parts = append(parts, "INFO")
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}
