package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/mutax/soundpad/internal/grid"
	"github.com/mutax/soundpad/internal/soundboard"
)

var colorfulHeader = []byte{0x00, 0x20, 0x29, 0x02, 0x0D}

const (
	colorfulCmdProgrammer = 0x0E
	colorfulCmdLighting   = 0x03
	colorfulLightingRGB   = 0x03
)

// ColorfulDevice implements Device for Launchpad Mini Mk3. The two-bit
// red/green colors are shown as RGB.
type ColorfulDevice struct{}

func (d *ColorfulDevice) ActivateProgrammerMode(send SendFunc) error {
	// SysEx for programmer mode: 00 20 29 02 0D 0E 01
	if err := send(midi.SysEx(d.sysex(colorfulCmdProgrammer, 0x01))); err != nil {
		return fmt.Errorf("failed to send programmer mode message: %w", err)
	}
	return nil
}

func (d *ColorfulDevice) SetPadColor(send SendFunc, p grid.Point, c soundboard.Color) error {
	// SysEx for RGB LED: F0 00 20 29 02 0D 03 03 <led> <r> <g> <b> F7
	msg := d.sysex(colorfulCmdLighting)
	msg = appendRGB(msg, ledIndex(p), PadColorOf(c))
	return send(midi.SysEx(msg))
}

// SetFrame packs all 64 cells into one lighting SysEx.
func (d *ColorfulDevice) SetFrame(send SendFunc, frame []byte) error {
	msg := d.sysex(colorfulCmdLighting)
	for i, packed := range frame {
		if i >= grid.PageSize {
			break
		}
		p := grid.Point{X: i % grid.Cols, Y: 1 + i/grid.Cols}
		msg = appendRGB(msg, ledIndex(p), PadColorOf(soundboard.UnpackColor(packed)))
	}
	if err := send(midi.SysEx(msg)); err != nil {
		return fmt.Errorf("frame update: %w", err)
	}
	return nil
}

func (d *ColorfulDevice) ClearAllPads(send SendFunc) error {
	// Using static color 0 for all pads
	msg := d.sysex(colorfulCmdLighting)
	for i := 11; i <= 99; i++ {
		if i%10 >= 1 && i%10 <= 9 { // Valid LED indices
			msg = append(msg, 0x00, uint8(i), 0x00) // Static off
		}
	}
	return send(midi.SysEx(msg))
}

func (d *ColorfulDevice) HandleMessage(msg midi.Message) (soundboard.ButtonEvent, bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		if p, ok := colorfulNoteToPoint(key); ok {
			return soundboard.ButtonEvent{Point: p, Pressed: velocity > 0}, true
		}

	case msg.GetNoteOff(&channel, &key, &velocity):
		if p, ok := colorfulNoteToPoint(key); ok {
			return soundboard.ButtonEvent{Point: p, Pressed: false}, true
		}

	case msg.GetControlChange(&channel, &key, &velocity):
		pressed := velocity > 0
		if key >= 91 && key <= 98 {
			// top row
			return soundboard.ButtonEvent{Point: grid.Point{X: int(key - 91), Y: 0}, Pressed: pressed}, true
		} else if key%10 == 9 && key >= 19 && key <= 89 {
			// right column: 19 is the bottom (row 8), 89 the top (row 1)
			row := 8 - int((key-19)/10)
			return soundboard.ButtonEvent{Point: grid.Point{X: grid.Cols, Y: row}, Pressed: pressed}, true
		}
	}

	return soundboard.ButtonEvent{}, false
}

func (d *ColorfulDevice) sysex(cmd ...byte) []byte {
	msg := make([]byte, 0, len(colorfulHeader)+len(cmd)+5*grid.PageSize)
	msg = append(msg, colorfulHeader...)
	return append(msg, cmd...)
}

// ledIndex maps a grid point to the programmer mode layout: bottom-left
// is 11, top-right is 99.
func ledIndex(p grid.Point) uint8 {
	return uint8((8-p.Y)*10 + p.X + 11)
}

func colorfulNoteToPoint(note uint8) (grid.Point, bool) {
	// Invert: row = 8 - (note-11)/10, col = (note-11)%10
	if note >= 11 && note <= 99 {
		row := 8 - int((note-11)/10)
		col := int((note - 11) % 10)
		if row >= 0 && row <= 8 && col >= 0 && col <= 8 {
			return grid.Point{X: col, Y: row}, true
		}
	}
	return grid.Point{}, false
}

func appendRGB(msg []byte, led uint8, c PadColor) []byte {
	return append(msg, colorfulLightingRGB, led,
		scaleColor(c.R)&0x7F, scaleColor(c.G)&0x7F, scaleColor(c.B)&0x7F)
}

// PadColorOf spreads the two-bit intensities over the 0-127 RGB range.
func PadColorOf(c soundboard.Color) PadColor {
	return PadColor{R: level127(c.Red), G: level127(c.Green)}
}

func level127(level uint8) uint8 {
	return uint8(int(level&0x03) * 127 / 3)
}

// scaleColor applies a power curve so the four intensity steps stay
// distinct on the RGB LEDs.
func scaleColor(value uint8) uint8 {
	if value == 0 {
		return 0
	}
	f := float64(value) / 127.0
	scaled := f * f * 127.0
	if scaled < 1 {
		scaled = 1 // Ensure non-zero input gives non-zero output
	}
	return uint8(scaled)
}
