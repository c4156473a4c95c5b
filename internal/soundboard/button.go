package soundboard

import (
	"time"

	"github.com/mutax/soundpad/internal/grid"
)

// DefaultFadeOut is used when a clip does not carry its own fade-out.
const DefaultFadeOut = 100 * time.Millisecond

// Button is one virtual cell with an assigned sound. Buttons are created by
// the Store at load time and live for the whole run.
type Button struct {
	position grid.Coord
	color    Color
	sound    Sound
	fadeOut  time.Duration
	name     string

	// blink state, see animation.go
	altQueue   []Color
	hasAlt     bool
	savedColor Color
	hasSaved   bool
}

func (b *Button) Position() grid.Coord { return b.position }
func (b *Button) Color() Color { return b.color }
func (b *Button) Sound() Sound { return b.sound }
func (b *Button) FadeOut() time.Duration { return b.fadeOut }
func (b *Button) Name() string { return b.name }
func (b *Button) Blinking() bool { return b.hasAlt }
func (b *Button) setColor(c Color) { b.color = c }
func (b *Button) playable() bool { return b != nil && b.sound != nil }
func (b *Button) fadeOutOrDefault() time.Duration {
	if b.fadeOut <= 0 {
		return DefaultFadeOut
	}
	return b.fadeOut
}
