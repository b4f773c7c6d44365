package mixer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/openmixer/mixer-go/pkg/ctl"
	"github.com/openmixer/mixer-go/pkg/trace"
)

// Config carries everything a backend needs to populate a mixer.
type Config struct {
	// Name of the device or profile, backend specific.
	Name string

	// Transports to attach. Each one becomes a loaded control cache.
	Transports []ctl.Transport

	// Tracer receives the mixer's trace events. Optional.
	Tracer trace.Logger
}

// OpenFunc populates a freshly created mixer. The mixer already carries
// the config's tracer; the backend attaches caches, installs its event
// hook and loads.
type OpenFunc func(m *Mixer, cfg *Config) error

var (
	backendsMu sync.RWMutex
	backends   = map[string]OpenFunc{}
)

// Register makes a backend available under the given name. It panics if
// the name is already taken; backends register from init.
func Register(name string, open OpenFunc) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if _, dup := backends[name]; dup {
		panic("mixer: backend " + name + " registered twice")
	}
	backends[name] = open
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates a mixer and populates it through the named backend. An
// unregistered name fails with ErrUnknownBackend.
func Open(name string, cfg *Config) (*Mixer, error) {
	backendsMu.RLock()
	open := backends[name]
	backendsMu.RUnlock()
	if open == nil {
		return nil, fmt.Errorf("backend %q: %w", name, ErrUnknownBackend)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	m := New()
	m.SetTracer(cfg.Tracer)
	if err := open(m, cfg); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("opening backend %q: %w", name, err)
	}
	return m, nil
}

// AttachAll attaches one loaded cache per configured transport. Shared
// by backends that take the mixer's raw view straight from transports.
func AttachAll(m *Mixer, cfg *Config) error {
	for _, t := range cfg.Transports {
		c := ctl.New(t)
		if err := m.Attach(c); err != nil {
			return err
		}
		if err := c.Load(); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	// The none backend exposes raw elements without building simple
	// elements. Useful for event monitoring and raw scenario playback.
	Register("none", func(m *Mixer, cfg *Config) error {
		return AttachAll(m, cfg)
	})
}
