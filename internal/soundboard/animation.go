package soundboard

// addAlt queues an alternate color. The first call remembers the current
// color so stopAlt can put it back.
func (b *Button) addAlt(c Color) {
	if !b.hasAlt {
		b.savedColor = b.color
		b.hasSaved = true
	}
	b.altQueue = append(b.altQueue, c)
	b.hasAlt = true
}

// stopAlt drops every queued color and restores the remembered one.
func (b *Button) stopAlt() {
	b.altQueue = nil
	b.hasAlt = false
	if b.hasSaved {
		b.color = b.savedColor
		b.hasSaved = false
	}
}

// tickAlt rotates the queue: the current color goes to the front and the
// last queued color becomes current. With one queued color this blinks
// between two states.
func (b *Button) tickAlt() {
	if !b.hasAlt || len(b.altQueue) == 0 {
		return
	}
	last := len(b.altQueue) - 1
	next := b.altQueue[last]
	copy(b.altQueue[1:], b.altQueue[:last])
	b.altQueue[0] = b.color
	b.color = next
}

// tickAnimation advances the coarse blink timer and ticks every blinking
// button when it wraps around.
func (bd *Board) tickAnimation() {
	bd.ticks = (bd.ticks + 1) % bd.opts.BlinkTicks
	if bd.ticks != 0 {
		return
	}
	for _, b := range bd.store.Buttons() {
		if b.hasAlt {
			b.tickAlt()
			bd.dirty = true
		}
	}
}
