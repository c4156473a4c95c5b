package midi

import (
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Manager handles MIDI device discovery and management
type Manager struct {
	mu sync.RWMutex
}

// NewManager creates a new MIDI manager
func NewManager() *Manager {
	return &Manager{}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return portNames(midi.GetInPorts())
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return portNames(midi.GetOutPorts())
}

// FindPorts resolves the input and output port of a controller. Empty
// names select the first port that looks like a Launchpad.
func (m *Manager) FindPorts(inName, outName string) (drivers.In, drivers.Out, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	in := findPort(midi.GetInPorts(), inName)
	if in == nil {
		return nil, nil, fmt.Errorf("input port %s: %w", describe(inName), ErrNoDevice)
	}
	out := findPort(midi.GetOutPorts(), outName)
	if out == nil {
		return nil, nil, fmt.Errorf("output port %s: %w", describe(outName), ErrNoDevice)
	}
	return in, out, nil
}

type port interface {
	String() string
}

func portNames[P port](ports []P) []string {
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.String())
	}
	return names
}

func findPort[P port](ports []P, name string) P {
	var zero P
	for _, p := range ports {
		if name == "" && isLaunchpad(p.String()) || name != "" && p.String() == name {
			return p
		}
	}
	return zero
}

func isLaunchpad(name string) bool {
	return strings.Contains(strings.ToLower(name), "launchpad")
}

func describe(name string) string {
	if name == "" {
		return "(auto-detect)"
	}
	return fmt.Sprintf("%q", name)
}
