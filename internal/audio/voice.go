package audio

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
)

// voice is one playing instance of a clip. Stream runs on the speaker
// goroutine while fadeOut and stop come from the event loop.
type voice struct {
	id   uuid.UUID
	clip *Clip
	src  beep.Streamer

	mu        sync.Mutex
	fadeLeft  int
	fadeTotal int
	stopped   bool
	ended     bool
	onEnd     func()
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ended {
		return 0, false
	}
	if v.stopped {
		v.end()
		return 0, false
	}

	n, ok := v.src.Stream(samples)
	n = v.applyFade(samples[:n])
	if !ok || (v.stopped && n == 0) {
		v.end()
		return n, false
	}
	return n, true
}

func (v *voice) Err() error {
	return v.src.Err()
}

// applyFade ramps samples down linearly and returns how many are left
// audible. Reaching the end of the ramp stops the voice.
func (v *voice) applyFade(samples [][2]float64) int {
	if v.fadeTotal == 0 {
		return len(samples)
	}
	for i := range samples {
		if v.fadeLeft <= 0 {
			v.stopped = true
			return i
		}
		g := float64(v.fadeLeft) / float64(v.fadeTotal)
		samples[i][0] *= g
		samples[i][1] *= g
		v.fadeLeft--
	}
	if v.fadeLeft <= 0 {
		v.stopped = true
	}
	return len(samples)
}

// fadeOut starts a ramp of n samples. A shorter ramp already in progress
// is kept.
func (v *voice) fadeOut(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ended || v.stopped {
		return
	}
	if n <= 0 {
		v.stopped = true
		return
	}
	if v.fadeTotal > 0 && v.fadeLeft <= n {
		return
	}
	v.fadeTotal = n
	v.fadeLeft = n
}

func (v *voice) stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopped = true
}

func (v *voice) busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.ended && !v.stopped
}

func (v *voice) isEnded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ended
}

// end must be called with mu held.
func (v *voice) end() {
	v.ended = true
	if v.onEnd != nil {
		v.onEnd()
	}
}
