package midi

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/mutax/soundpad/internal/grid"
	"github.com/mutax/soundpad/internal/soundboard"
)

// Device speaks the wire protocol of one Launchpad generation. Positions
// are physical grid points: row 0 is the top control row, column 8 the
// right control column.
type Device interface {
	// ActivateProgrammerMode sends necessary commands to initialize the device
	ActivateProgrammerMode(send SendFunc) error

	// SetPadColor sets the color of a single pad
	SetPadColor(send SendFunc, p grid.Point, c soundboard.Color) error

	// SetFrame writes the 64 matrix cells in one burst, see soundboard.Hardware.
	SetFrame(send SendFunc, frame []byte) error

	// ClearAllPads clears all pads on the device
	ClearAllPads(send SendFunc) error

	// HandleMessage parses a MIDI message into a button event.
	// Returns handled=false if the message is not a pad event.
	HandleMessage(msg midi.Message) (ev soundboard.ButtonEvent, handled bool)
}

// GetDevice returns the appropriate Device implementation for the given type
func GetDevice(deviceType DeviceType) Device {
	switch deviceType {
	case DeviceTypeColorful:
		return &ColorfulDevice{}
	default:
		return &ClassicDevice{}
	}
}
