package soundboard

import (
	"github.com/mutax/soundpad/internal/grid"
)

// Render repaints the pad if anything changed since the last frame. The
// dirty flag is cleared before writing so changes made meanwhile trigger
// the next frame instead of being lost.
func (bd *Board) Render() {
	if !bd.dirty {
		return
	}
	bd.dirty = false

	for i := 0; i < bd.store.Pages(); i++ {
		c := colorPageOther
		if i == bd.page {
			c = colorPageCurrent
		}
		bd.setLed(grid.Point{X: i, Y: 0}, c)
	}

	bd.setLed(grid.ModeToggle, bd.mode.Indicator())
	bd.setLed(grid.StopAll, ColorRed)
	bd.setLed(grid.LoopModifier, colorLoopKey)

	if err := bd.hw.SetFrame(bd.Frame()); err != nil {
		bd.log.WithError(err).Warn("failed to send frame")
	}
}

// Frame computes the packed matrix colors of the current page.
func (bd *Board) Frame() []byte {
	frame := make([]byte, 0, grid.PageSize)
	for y := 1; y <= grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			b := bd.store.Get(grid.PhysicalToVirtual(x, y, bd.page))
			if b == nil {
				frame = append(frame, ColorOff.Pack())
				continue
			}
			frame = append(frame, b.color.Pack())
		}
	}
	return frame
}

func (bd *Board) setLed(p grid.Point, c Color) {
	if err := bd.hw.SetLed(p, c); err != nil {
		bd.log.WithError(err).WithField("point", p).Warn("failed to set LED")
	}
}
