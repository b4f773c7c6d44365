// Package scenario loads named control scenarios from YAML profiles and
// plays them back through a control cache. A scenario is an ordered list
// of raw value writes, useful for restoring device states or scripting
// test fixtures.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/openmixer/mixer-go/pkg/ctl"
)

// ErrUnknownScenario is returned when a profile has no scenario with the
// requested name.
var ErrUnknownScenario = errors.New("unknown scenario")

// Step is a single raw value write.
type Step struct {
	// Element is the control name on the mixer interface.
	Element string `yaml:"element"`

	// Index distinguishes controls sharing a name. Defaults to 0.
	Index uint32 `yaml:"index,omitempty"`

	// Values are written to the control's value vector. A single value
	// on a multi-channel control is broadcast to every channel.
	Values []int64 `yaml:"values"`
}

// Scenario is an ordered list of steps.
type Scenario struct {
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Profile is a set of named scenarios.
type Profile struct {
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// Load parses and validates a profile. Unknown YAML fields are rejected.
func Load(r io.Reader) (*Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a profile from disk.
func LoadFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (p *Profile) validate() error {
	if len(p.Scenarios) == 0 {
		return errors.New("profile has no scenarios")
	}
	for name, sc := range p.Scenarios {
		if len(sc.Steps) == 0 {
			return fmt.Errorf("scenario %q has no steps", name)
		}
		for i, st := range sc.Steps {
			if st.Element == "" {
				return fmt.Errorf("scenario %q step %d: missing element name", name, i)
			}
			if len(st.Values) == 0 {
				return fmt.Errorf("scenario %q step %d: missing values", name, i)
			}
		}
	}
	return nil
}

// Names returns the scenario names, sorted.
func (p *Profile) Names() []string {
	names := make([]string, 0, len(p.Scenarios))
	for name := range p.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply plays the named scenario back through the cache. Steps run in
// order; the first failing step aborts playback.
func (p *Profile) Apply(c *ctl.Cache, name string) error {
	sc, ok := p.Scenarios[name]
	if !ok {
		return fmt.Errorf("scenario %q: %w", name, ErrUnknownScenario)
	}
	for i, st := range sc.Steps {
		if err := applyStep(c, st); err != nil {
			return fmt.Errorf("scenario %q step %d (%s,%d): %w",
				name, i, st.Element, st.Index, err)
		}
	}
	return nil
}

func applyStep(c *ctl.Cache, st Step) error {
	e := c.Find(ctl.ElemID{Iface: ctl.IfaceMixer, Name: st.Element, Index: st.Index})
	if e == nil {
		return ctl.ErrNotFound
	}
	info, err := e.Info()
	if err != nil {
		return err
	}
	v := make(ctl.Value, info.Count)
	switch {
	case len(st.Values) == info.Count:
		copy(v, st.Values)
	case len(st.Values) == 1:
		for ch := range v {
			v[ch] = st.Values[0]
		}
	default:
		return fmt.Errorf("%w: have %d values, control takes %d",
			ctl.ErrInvalidArgument, len(st.Values), info.Count)
	}
	_, err = e.WriteValue(v)
	return err
}
