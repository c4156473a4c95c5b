package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
)

// resampleQuality is the interpolation window used when a clip's sample
// rate differs from the output rate.
const resampleQuality = 4

// Clip is a fully decoded sound held in memory at the engine's sample rate.
// It is the soundboard.Sound handed to Engine.Play.
type Clip struct {
	name string
	buf  *beep.Buffer
}

// NewClip drains s into memory, resampling from format's rate to rate when
// they differ.
func NewClip(name string, s beep.Streamer, format beep.Format, rate beep.SampleRate) (*Clip, error) {
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, s)
		format.SampleRate = rate
	}
	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &Clip{name: name, buf: buf}, nil
}

func (c *Clip) Name() string { return c.name }

// Len is the clip length in samples.
func (c *Clip) Len() int { return c.buf.Len() }

func (c *Clip) Duration() time.Duration {
	return c.buf.Format().SampleRate.D(c.buf.Len())
}

func (c *Clip) String() string { return c.name }

func (c *Clip) streamer() beep.StreamSeeker {
	return c.buf.Streamer(0, c.buf.Len())
}
