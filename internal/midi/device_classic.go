package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/mutax/soundpad/internal/grid"
	"github.com/mutax/soundpad/internal/soundboard"
)

// Launchpad S velocity flags: bit 2 copy, bit 3 clear. Both set means
// "write to the displayed buffer", which is what every update here wants.
const classicFlags = 0x0C

// ClassicDevice implements Device for Launchpad S and Mini Mk1
type ClassicDevice struct{}

func (d *ClassicDevice) ActivateProgrammerMode(send SendFunc) error {
	// These models have no programmer mode, reset to default state
	// Send reset: B0 00 00 (CC 0 value 0)
	if err := send(midi.ControlChange(0, 0, 0)); err != nil {
		return fmt.Errorf("failed to reset Launchpad: %w", err)
	}
	return nil
}

func (d *ClassicDevice) SetPadColor(send SendFunc, p grid.Point, c soundboard.Color) error {
	velocity := classicVelocity(c.Pack())

	switch {
	case p.Y == 0 && p.X == grid.Cols:
		// no button at the top right corner
		return nil
	case p.Y == 0:
		// Top row: Control Change 104 + col
		return send(midi.ControlChange(0, uint8(104+p.X), velocity))
	default:
		// Grid and right column: Note messages
		// Row 1 = notes 0-8, Row 2 = notes 16-24, etc.
		return send(midi.NoteOn(0, uint8((p.Y-1)*16+p.X), velocity))
	}
}

// SetFrame uses rapid LED update: after a home command, every note on
// channel 3 carries two consecutive LEDs in matrix order.
func (d *ClassicDevice) SetFrame(send SendFunc, frame []byte) error {
	if err := send(midi.ControlChange(0, 1, 0)); err != nil {
		return fmt.Errorf("rapid update home: %w", err)
	}
	for i := 0; i < len(frame); i += 2 {
		var second byte
		if i+1 < len(frame) {
			second = frame[i+1]
		}
		if err := send(midi.NoteOn(2, classicVelocity(frame[i]), classicVelocity(second))); err != nil {
			return fmt.Errorf("rapid update: %w", err)
		}
	}
	return nil
}

func (d *ClassicDevice) ClearAllPads(send SendFunc) error {
	// Reset: B0 00 00
	return send(midi.ControlChange(0, 0, 0))
}

func (d *ClassicDevice) HandleMessage(msg midi.Message) (soundboard.ButtonEvent, bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		if p, ok := classicNoteToPoint(key); ok {
			return soundboard.ButtonEvent{Point: p, Pressed: velocity > 0}, true
		}

	case msg.GetNoteOff(&channel, &key, &velocity):
		if p, ok := classicNoteToPoint(key); ok {
			return soundboard.ButtonEvent{Point: p, Pressed: false}, true
		}

	case msg.GetControlChange(&channel, &key, &velocity):
		// Top row buttons (104-111)
		if key >= 104 && key <= 111 {
			return soundboard.ButtonEvent{Point: grid.Point{X: int(key - 104), Y: 0}, Pressed: velocity > 0}, true
		}
	}

	return soundboard.ButtonEvent{}, false
}

// classicNoteToPoint inverts the (row-1)*16+col note layout.
func classicNoteToPoint(note uint8) (grid.Point, bool) {
	row := int(note/16) + 1
	col := int(note % 16)
	if row >= 1 && row <= grid.Rows && col >= 0 && col <= grid.Cols {
		return grid.Point{X: col, Y: row}, true
	}
	return grid.Point{}, false
}

// classicVelocity turns a packed green<<4|red cell into a velocity byte.
func classicVelocity(packed byte) uint8 {
	return packed&0x33 | classicFlags
}
