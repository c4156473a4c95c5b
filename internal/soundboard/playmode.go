package soundboard

import (
	"fmt"
	"strings"
)

// PlayMode selects how presses and releases on sound cells turn into
// playback decisions. Modes cycle in declaration order. The zero value is
// unset and is never a board's mode.
type PlayMode int

const (
	Parallel PlayMode = iota + 1
	Hold
	Toggle
	Solo

	numPlayModes
)

type pressPolicy int

const (
	// always start another instance
	pressStart pressPolicy = iota
	// fade out if playing, start otherwise
	pressToggle
	// fade out if playing, otherwise stop everything else and start
	pressSolo
)

type modePolicy struct {
	name          string
	indicator     Color
	press         pressPolicy
	fadeOnRelease bool
	playing       Color
	blink         Color
}

var modePolicies = [numPlayModes]modePolicy{
	Parallel: {name: "parallel", indicator: ColorYellow, press: pressStart, playing: Color{3, 3}, blink: Color{3, 0}},
	Hold:     {name: "hold", indicator: ColorRed, press: pressStart, fadeOnRelease: true, playing: Color{3, 3}, blink: Color{3, 0}},
	Toggle:   {name: "toggle", indicator: ColorGreen, press: pressToggle, playing: Color{3, 0}, blink: Color{1, 0}},
	Solo:     {name: "solo", indicator: ColorOff, press: pressSolo, playing: Color{3, 0}, blink: Color{1, 0}},
}

func (m PlayMode) policy() modePolicy {
	return modePolicies[m]
}

// Next returns the mode that follows m in the toggle cycle.
func (m PlayMode) Next() PlayMode {
	if !m.valid() {
		return Toggle
	}
	return (m-Parallel+1)%(numPlayModes-Parallel) + Parallel
}

func (m PlayMode) valid() bool {
	return m >= Parallel && m < numPlayModes
}

// Indicator is the LED color shown on the mode toggle button.
func (m PlayMode) Indicator() Color {
	return m.policy().indicator
}

func (m PlayMode) String() string {
	if !m.valid() {
		return fmt.Sprintf("PlayMode(%d)", int(m))
	}
	return m.policy().name
}

// ParsePlayMode parses a mode name as produced by String.
func ParsePlayMode(s string) (PlayMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m := Parallel; m < numPlayModes; m++ {
		if m.policy().name == name {
			return m, nil
		}
	}
	return Toggle, fmt.Errorf("unknown play mode %q (expected parallel|hold|toggle|solo)", s)
}
