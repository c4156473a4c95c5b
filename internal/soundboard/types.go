// Package soundboard is the in-memory control model of the pad: button
// assignment, play modes, channel bookkeeping, LED planning and the
// cooperative event loop that ties them together.
package soundboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/mutax/soundpad/internal/grid"
)

// Sound is an opaque handle to a decoded clip. Only the AudioEngine that
// produced it knows what is inside.
type Sound any

// Color is a Launchpad Mk1 style LED color: red and green intensity, 0..3 each.
type Color struct {
	Red, Green uint8
}

// Pack combines both channels into the single byte used for bulk frame
// transfers. Devices add their own flag bits on top.
func (c Color) Pack() byte {
	return c.Green<<4 | c.Red
}

// UnpackColor is the inverse of Color.Pack, ignoring any device flag bits.
func UnpackColor(b byte) Color {
	return Color{Red: b & 0x03, Green: (b >> 4) & 0x03}
}

var (
	ColorOff     = Color{0, 0}
	ColorLoaded  = Color{0, 1} // assigned at load time, never played
	ColorIdle    = Color{0, 2} // played before, finished
	ColorStopped = Color{1, 1} // stopped by stop-all or a solo takeover
	ColorYellow  = Color{2, 2}
	ColorRed     = Color{2, 0}
	ColorGreen   = Color{0, 2}

	colorPageCurrent = Color{3, 0}
	colorPageOther   = Color{0, 1}
	colorLoopKey     = Color{1, 1}
)

// ButtonEvent is one press or release reported by the hardware.
type ButtonEvent struct {
	Point   grid.Point
	Pressed bool
}

// AudioEngine is the playback collaborator. Every channel handle returned by
// Play is fresh; completion notifications do not say which channel ended.
type AudioEngine interface {
	// Play starts s. loops is 0 for a single play and -1 to loop forever.
	Play(s Sound, loops int) (uuid.UUID, error)
	FadeOut(ch uuid.UUID, d time.Duration)
	// FadeOutSound fades every channel currently playing s.
	FadeOutSound(s Sound, d time.Duration)
	Stop(ch uuid.UUID)
	IsBusy(ch uuid.UUID) bool
	// PollCompletions drains pending "something finished" notifications and
	// returns how many there were. It never blocks.
	PollCompletions() int
}

// Hardware is the pad controller collaborator.
type Hardware interface {
	// Reset turns every LED off.
	Reset() error
	Close() error
	SetLed(p grid.Point, c Color) error
	// SetFrame writes all 64 matrix cells at once: physical rows 1..8 top to
	// bottom, columns 0..7 left to right, each cell a packed Color.
	SetFrame(frame []byte) error
	// PollButton returns the next pending event, if any. It never blocks.
	PollButton() (ButtonEvent, bool)
}
