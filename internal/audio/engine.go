// Package audio plays decoded clips through the system speaker using beep.
// Every Play returns a fresh channel handle; completions are reported as
// anonymous notifications that the caller reconciles by polling IsBusy.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/sirupsen/logrus"

	"github.com/mutax/soundpad/internal/soundboard"
)

var (
	// ErrNoChannel is returned by Play when the sound cannot be started.
	ErrNoChannel = errors.New("no free channel")
)

const completionBuffer = 64

// Options configures the engine. Zero values pick the defaults.
type Options struct {
	SampleRate beep.SampleRate
	Buffer     time.Duration
	// Volume is the master volume in log2 units: 0 is unchanged, -1 halves.
	Volume    float64
	MaxVoices int
	Logger    logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = 44100
	}
	if o.Buffer <= 0 {
		o.Buffer = 50 * time.Millisecond
	}
	if o.MaxVoices <= 0 {
		o.MaxVoices = 16
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Engine implements soundboard.AudioEngine.
type Engine struct {
	rate      beep.SampleRate
	maxVoices int
	log       logrus.FieldLogger

	mu     sync.Mutex
	voices map[uuid.UUID]*voice

	done chan struct{}

	// play hands a voice to the output. It is speaker.Play in production.
	play  func(beep.Streamer)
	close func()
}

var _ soundboard.AudioEngine = (*Engine)(nil)

// New initializes the speaker and returns an engine writing to it.
func New(opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	if err := speaker.Init(opts.SampleRate, opts.SampleRate.N(opts.Buffer)); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	mixer := &beep.Mixer{}
	master := &effects.Volume{Streamer: mixer, Base: 2, Volume: opts.Volume}
	speaker.Play(master)

	e := newEngine(opts, func(s beep.Streamer) {
		speaker.Lock()
		mixer.Add(s)
		speaker.Unlock()
	})
	e.close = func() {
		speaker.Clear()
		speaker.Close()
	}
	e.log.WithFields(logrus.Fields{
		"sample_rate": int(opts.SampleRate),
		"buffer":      opts.Buffer,
		"volume":      opts.Volume,
	}).Info("audio ready")
	return e, nil
}

func newEngine(opts Options, play func(beep.Streamer)) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		rate:      opts.SampleRate,
		maxVoices: opts.MaxVoices,
		log:       opts.Logger,
		voices:    make(map[uuid.UUID]*voice),
		done:      make(chan struct{}, completionBuffer),
		play:      play,
	}
}

// SampleRate is the output rate clips must be decoded to.
func (e *Engine) SampleRate() beep.SampleRate {
	return e.rate
}

// Play starts s, which must be a *Clip. loops follows the usual mixer
// convention: 0 plays once, n repeats n more times, -1 loops forever.
func (e *Engine) Play(s soundboard.Sound, loops int) (uuid.UUID, error) {
	clip, ok := s.(*Clip)
	if !ok || clip == nil {
		return uuid.Nil, fmt.Errorf("%w: unsupported sound %T", ErrNoChannel, s)
	}

	var src beep.Streamer = clip.streamer()
	if loops != 0 {
		var opts []beep.LoopOption
		if loops > 0 {
			opts = append(opts, beep.LoopTimes(loops))
		}
		looped, err := beep.Loop2(clip.streamer(), opts...)
		if err != nil {
			return uuid.Nil, fmt.Errorf("loop %s: %w", clip.name, err)
		}
		src = looped
	}

	e.mu.Lock()
	e.pruneLocked()
	if len(e.voices) >= e.maxVoices {
		e.mu.Unlock()
		return uuid.Nil, fmt.Errorf("%w: %d voices busy", ErrNoChannel, e.maxVoices)
	}
	v := &voice{id: uuid.New(), clip: clip, src: src, onEnd: e.notify}
	e.voices[v.id] = v
	e.mu.Unlock()

	e.play(v)
	return v.id, nil
}

// FadeOut ramps channel ch down over d and stops it.
func (e *Engine) FadeOut(ch uuid.UUID, d time.Duration) {
	if v := e.voice(ch); v != nil {
		v.fadeOut(e.rate.N(d))
	}
}

// FadeOutSound fades every channel currently playing s.
func (e *Engine) FadeOutSound(s soundboard.Sound, d time.Duration) {
	clip, ok := s.(*Clip)
	if !ok {
		return
	}
	n := e.rate.N(d)
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.voices {
		if v.clip == clip {
			v.fadeOut(n)
		}
	}
}

// Stop silences ch immediately.
func (e *Engine) Stop(ch uuid.UUID) {
	if v := e.voice(ch); v != nil {
		v.stop()
	}
}

// IsBusy reports whether ch is still audible. Unknown handles are idle.
func (e *Engine) IsBusy(ch uuid.UUID) bool {
	v := e.voice(ch)
	return v != nil && v.busy()
}

// PollCompletions drains the pending end notifications without blocking.
func (e *Engine) PollCompletions() int {
	n := 0
	for {
		select {
		case <-e.done:
			n++
		default:
			if n > 0 {
				e.mu.Lock()
				e.pruneLocked()
				e.mu.Unlock()
			}
			return n
		}
	}
}

// Close stops every voice and releases the speaker.
func (e *Engine) Close() {
	e.mu.Lock()
	for _, v := range e.voices {
		v.stop()
	}
	e.mu.Unlock()
	if e.close != nil {
		e.close()
	}
}

func (e *Engine) voice(ch uuid.UUID) *voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voices[ch]
}

// notify runs on the speaker goroutine with the voice locked, so it must
// not block or take e.mu.
func (e *Engine) notify() {
	select {
	case e.done <- struct{}{}:
	default:
	}
}

func (e *Engine) pruneLocked() {
	for id, v := range e.voices {
		if v.isEnded() {
			delete(e.voices, id)
		}
	}
}
