package audio

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(1000)

type testEngine struct {
	*Engine
	played []beep.Streamer
}

func newTestEngine(t *testing.T, maxVoices int) *testEngine {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	te := &testEngine{}
	te.Engine = newEngine(Options{SampleRate: testRate, MaxVoices: maxVoices, Logger: log}, func(s beep.Streamer) {
		te.played = append(te.played, s)
	})
	return te
}

// toneClip returns a clip of n full-scale samples.
func toneClip(t *testing.T, name string, n int) *Clip {
	t.Helper()
	ones := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	c, err := NewClip(name, beep.Take(n, ones), beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}, testRate)
	require.NoError(t, err)
	return c
}

// drain streams s to the end in chunks and returns every sample produced.
func drain(s beep.Streamer, chunk int) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, chunk)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func (te *testEngine) last() beep.Streamer {
	return te.played[len(te.played)-1]
}

func TestPlayToCompletion(t *testing.T) {
	e := newTestEngine(t, 0)
	clip := toneClip(t, "kick.wav", 300)

	ch, err := e.Play(clip, 0)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, ch)
	assert.True(t, e.IsBusy(ch))
	assert.Zero(t, e.PollCompletions())

	out := drain(e.last(), 64)
	assert.Len(t, out, 300)

	assert.False(t, e.IsBusy(ch))
	assert.Equal(t, 1, e.PollCompletions())
	assert.Zero(t, e.PollCompletions(), "notifications are drained")
	assert.False(t, e.IsBusy(ch), "pruned handles are idle")
}

func TestPlayReturnsFreshHandles(t *testing.T) {
	e := newTestEngine(t, 0)
	clip := toneClip(t, "a.wav", 10)

	first, err := e.Play(clip, 0)
	require.NoError(t, err)
	second, err := e.Play(clip, 0)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPlayRejectsForeignSound(t *testing.T) {
	e := newTestEngine(t, 0)

	_, err := e.Play("not a clip", 0)
	assert.ErrorIs(t, err, ErrNoChannel)

	var nilClip *Clip
	_, err = e.Play(nilClip, 0)
	assert.ErrorIs(t, err, ErrNoChannel)
	assert.Empty(t, e.played)
}

func TestPlayRunsOutOfVoices(t *testing.T) {
	e := newTestEngine(t, 2)
	clip := toneClip(t, "a.wav", 10)

	_, err := e.Play(clip, 0)
	require.NoError(t, err)
	_, err = e.Play(clip, 0)
	require.NoError(t, err)

	_, err = e.Play(clip, 0)
	require.ErrorIs(t, err, ErrNoChannel)

	drain(e.played[0], 16)
	_, err = e.Play(clip, 0)
	assert.NoError(t, err, "ended voices free their slot")
}

func TestPlayLoops(t *testing.T) {
	e := newTestEngine(t, 0)
	clip := toneClip(t, "a.wav", 100)

	_, err := e.Play(clip, 2)
	require.NoError(t, err)
	assert.Len(t, drain(e.last(), 64), 300)

	ch, err := e.Play(clip, -1)
	require.NoError(t, err)
	buf := make([][2]float64, 64)
	for i := 0; i < 50; i++ {
		n, ok := e.last().Stream(buf)
		require.True(t, ok)
		require.Equal(t, 64, n)
	}
	assert.True(t, e.IsBusy(ch), "infinite loop keeps playing")
}

func TestFadeOutRampsAndEnds(t *testing.T) {
	e := newTestEngine(t, 0)
	clip := toneClip(t, "pad.wav", 1000)
	ch, err := e.Play(clip, 0)
	require.NoError(t, err)

	e.FadeOut(ch, 100*time.Millisecond)
	assert.True(t, e.IsBusy(ch), "still audible while fading")

	out := drain(e.last(), 32)
	require.Len(t, out, 100)
	assert.InDelta(t, 1.0, out[0][0], 1e-9)
	assert.InDelta(t, 0.5, out[50][0], 1e-9)
	for i := 1; i < len(out); i++ {
		require.Less(t, out[i][0], out[i-1][0])
	}

	assert.False(t, e.IsBusy(ch))
	assert.Equal(t, 1, e.PollCompletions())
}

func TestFadeOutKeepsShorterRamp(t *testing.T) {
	e := newTestEngine(t, 0)
	clip := toneClip(t, "pad.wav", 1000)
	ch, err := e.Play(clip, 0)
	require.NoError(t, err)

	e.FadeOut(ch, 20*time.Millisecond)
	e.FadeOut(ch, 500*time.Millisecond)

	assert.Len(t, drain(e.last(), 32), 20)
}

func TestFadeOutSoundOnlyTouchesThatSound(t *testing.T) {
	e := newTestEngine(t, 0)
	kick := toneClip(t, "kick.wav", 1000)
	snare := toneClip(t, "snare.wav", 1000)

	k1, _ := e.Play(kick, 0)
	k2, _ := e.Play(kick, -1)
	s1, _ := e.Play(snare, 0)

	e.FadeOutSound(kick, 10*time.Millisecond)

	assert.Len(t, drain(e.played[0], 64), 10)
	assert.Len(t, drain(e.played[1], 64), 10)
	assert.False(t, e.IsBusy(k1))
	assert.False(t, e.IsBusy(k2))
	assert.True(t, e.IsBusy(s1))
	assert.Equal(t, 2, e.PollCompletions())
}

func TestStopSilencesImmediately(t *testing.T) {
	e := newTestEngine(t, 0)
	ch, err := e.Play(toneClip(t, "a.wav", 1000), -1)
	require.NoError(t, err)

	e.Stop(ch)

	assert.False(t, e.IsBusy(ch))
	n, ok := e.last().Stream(make([][2]float64, 8))
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.Equal(t, 1, e.PollCompletions())
}

func TestUnknownHandles(t *testing.T) {
	e := newTestEngine(t, 0)
	ch := uuid.New()

	assert.False(t, e.IsBusy(ch))
	e.FadeOut(ch, time.Second)
	e.Stop(ch)
	assert.Zero(t, e.PollCompletions())
}

func TestCloseStopsEverything(t *testing.T) {
	e := newTestEngine(t, 0)
	closed := false
	e.close = func() { closed = true }
	a, _ := e.Play(toneClip(t, "a.wav", 100), -1)
	b, _ := e.Play(toneClip(t, "b.wav", 100), 0)

	e.Close()

	assert.True(t, closed)
	assert.False(t, e.IsBusy(a))
	assert.False(t, e.IsBusy(b))
}

func TestNewClipResamples(t *testing.T) {
	ones := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.5, 0.5}
		}
		return len(samples), true
	})
	format := beep.Format{SampleRate: testRate / 2, NumChannels: 2, Precision: 2}

	c, err := NewClip("low.wav", beep.Take(500, ones), format, testRate)
	require.NoError(t, err)

	assert.InDelta(t, 1000, c.Len(), 8)
	assert.InDelta(t, float64(time.Second), float64(c.Duration()), float64(10*time.Millisecond))
	assert.Equal(t, "low.wav", c.Name())
}
