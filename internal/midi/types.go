package midi

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
)

// ErrNoDevice is returned when no compatible controller is connected.
var ErrNoDevice = errors.New("no Launchpad found")

// DeviceType represents the type of device
type DeviceType string

const (
	DeviceTypeClassic  DeviceType = "classic"  // Launchpad S / Mini Mk1, red+green LEDs
	DeviceTypeColorful DeviceType = "colorful" // Launchpad Mini Mk3, requires SysEx
)

// ParseDeviceType accepts the config spelling of a device type.
func ParseDeviceType(s string) (DeviceType, error) {
	switch t := DeviceType(strings.ToLower(strings.TrimSpace(s))); t {
	case DeviceTypeClassic, DeviceTypeColorful:
		return t, nil
	default:
		return "", fmt.Errorf("unknown device type %q", s)
	}
}

// SendFunc writes one message to the device output.
type SendFunc func(midi.Message) error

// PadColor represents an RGB color for a pad
type PadColor struct {
	R, G, B uint8 // 0-127 for each channel
}
