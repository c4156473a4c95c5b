package soundboard

import (
	"github.com/sirupsen/logrus"

	"github.com/mutax/soundpad/internal/grid"
)

func (bd *Board) press(p grid.Point) {
	bd.pressed[p] = struct{}{}

	switch {
	case p.IsTopRow():
		bd.selectPage(p.X)
	case p.IsRightColumn():
		switch p {
		case grid.ModeToggle:
			bd.TogglePlayMode()
		case grid.StopAll:
			bd.StopAll(false)
		}
	case p.IsMatrix():
		bd.trigger(p)
	}
}

func (bd *Board) release(p grid.Point) {
	delete(bd.pressed, p)

	if !p.IsMatrix() {
		return
	}
	b := bd.store.Get(grid.PhysicalToVirtual(p.X, p.Y, bd.page))
	if !b.playable() {
		return
	}
	if bd.mode.policy().fadeOnRelease {
		bd.fadeOut(b)
	}
}

func (bd *Board) selectPage(page int) {
	if page >= bd.store.Pages() || page == bd.page {
		return
	}
	bd.page = page
	bd.dirty = true
	bd.log.WithField("page", page).Info("page selected")
}

// TogglePlayMode advances to the next play mode.
func (bd *Board) TogglePlayMode() {
	bd.mode = bd.mode.Next()
	bd.dirty = true
	bd.log.WithField("mode", bd.mode).Info("play mode changed")
}

// trigger applies the current mode's press policy to a matrix cell.
func (bd *Board) trigger(p grid.Point) {
	coord := grid.PhysicalToVirtual(p.X, p.Y, bd.page)
	bd.dirty = true

	b := bd.store.Get(coord)
	if b == nil {
		return
	}
	if b.sound == nil {
		bd.log.WithField("coord", coord).Debug("button has no sound")
		return
	}

	loops := 0
	if bd.Held(grid.LoopModifier) {
		loops = -1
	}

	switch bd.mode.policy().press {
	case pressStart:
		bd.start(b, loops)
	case pressToggle:
		if bd.ledger.Playing(b, bd.audio.IsBusy) {
			bd.fadeOut(b)
			return
		}
		bd.start(b, loops)
	case pressSolo:
		if bd.ledger.Playing(b, bd.audio.IsBusy) {
			bd.fadeOut(b)
			return
		}
		bd.stopOthers()
		bd.start(b, loops)
	}
}

func (bd *Board) start(b *Button, loops int) {
	ch, err := bd.audio.Play(b.sound, loops)
	if err != nil {
		bd.log.WithError(err).WithField("name", b.name).Warn("playback request failed")
		return
	}
	bd.ledger.Add(ch, b)

	policy := bd.mode.policy()
	if loops == 0 && b.hasAlt {
		b.stopAlt()
	}
	b.setColor(policy.playing)
	if loops != 0 {
		b.addAlt(policy.blink)
	}
	bd.dirty = true

	bd.log.WithFields(logrus.Fields{
		"name":  b.name,
		"loops": loops,
		"mode":  bd.mode,
	}).Info("playing")
}

// fadeOut gracefully stops every channel playing b's sound. Ledger entries
// stay until reconciliation sees the channels finish.
func (bd *Board) fadeOut(b *Button) {
	bd.audio.FadeOutSound(b.sound, b.fadeOutOrDefault())
	bd.log.WithField("name", b.name).Debug("fading out")
}

// stopOthers fades out every tracked channel, waits for the grace period
// and only then drops the entries.
func (bd *Board) stopOthers() {
	channels := bd.ledger.Channels()
	if len(channels) == 0 {
		return
	}
	for _, ch := range channels {
		b, _ := bd.ledger.Owner(ch)
		bd.audio.FadeOut(ch, bd.opts.SoloFadeOut)
		b.stopAlt()
		b.setColor(ColorStopped)
		bd.log.WithField("name", b.name).Debug("solo: stopping")
	}
	bd.sleep(bd.opts.SoloGrace)
	for _, ch := range channels {
		bd.ledger.Remove(ch)
	}
	bd.dirty = true
}

// StopAll stops every tracked channel, quickly or with each button's
// fade-out, and forgets them.
func (bd *Board) StopAll(quick bool) {
	bd.setLed(grid.StopAll, ColorYellow)

	for _, ch := range bd.ledger.Channels() {
		b, _ := bd.ledger.Owner(ch)
		if quick {
			bd.audio.Stop(ch)
		} else {
			bd.audio.FadeOut(ch, b.fadeOutOrDefault())
		}
		b.stopAlt()
		b.setColor(ColorStopped)
		bd.ledger.Remove(ch)
		bd.dirty = true
	}

	bd.setLed(grid.StopAll, ColorRed)
	bd.log.WithField("quick", quick).Info("stopped all sounds")
}
