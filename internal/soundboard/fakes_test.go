package soundboard

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mutax/soundpad/internal/grid"
)

var errNoChannel = errors.New("no free channel")

type playCall struct {
	sound Sound
	loops int
	ch    uuid.UUID
}

type fadeCall struct {
	ch uuid.UUID
	d  time.Duration
}

type soundFadeCall struct {
	sound Sound
	d     time.Duration
}

// fakeAudio tracks channels in memory. Channels stay busy until the test
// finishes them or Stop is called.
type fakeAudio struct {
	busy        map[uuid.UUID]bool
	owner       map[uuid.UUID]Sound
	plays       []playCall
	fades       []fadeCall
	soundFades  []soundFadeCall
	stops       []uuid.UUID
	completions int
	failPlay    bool
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{
		busy:  make(map[uuid.UUID]bool),
		owner: make(map[uuid.UUID]Sound),
	}
}

func (a *fakeAudio) Play(s Sound, loops int) (uuid.UUID, error) {
	if a.failPlay {
		return uuid.Nil, errNoChannel
	}
	ch := uuid.New()
	a.busy[ch] = true
	a.owner[ch] = s
	a.plays = append(a.plays, playCall{sound: s, loops: loops, ch: ch})
	return ch, nil
}

func (a *fakeAudio) FadeOut(ch uuid.UUID, d time.Duration) {
	a.fades = append(a.fades, fadeCall{ch: ch, d: d})
}

func (a *fakeAudio) FadeOutSound(s Sound, d time.Duration) {
	a.soundFades = append(a.soundFades, soundFadeCall{sound: s, d: d})
}

func (a *fakeAudio) Stop(ch uuid.UUID) {
	a.stops = append(a.stops, ch)
	a.finish(ch)
}

func (a *fakeAudio) IsBusy(ch uuid.UUID) bool {
	return a.busy[ch]
}

func (a *fakeAudio) PollCompletions() int {
	n := a.completions
	a.completions = 0
	return n
}

// finish marks ch as ended and queues one completion notification.
func (a *fakeAudio) finish(ch uuid.UUID) {
	if a.busy[ch] {
		a.busy[ch] = false
		a.completions++
	}
}

// finishSound ends every channel playing s.
func (a *fakeAudio) finishSound(s Sound) {
	for ch, owner := range a.owner {
		if owner == s {
			a.finish(ch)
		}
	}
}

func (a *fakeAudio) lastPlay() playCall {
	return a.plays[len(a.plays)-1]
}

type fakeHardware struct {
	leds    map[grid.Point]Color
	frames  [][]byte
	writes  int
	events  []ButtonEvent
	resets  int
	closes  int
	onFrame func()
	failLed bool
}

func newFakeHardware() *fakeHardware {
	return &fakeHardware{leds: make(map[grid.Point]Color)}
}

func (h *fakeHardware) Reset() error {
	h.resets++
	h.leds = make(map[grid.Point]Color)
	return nil
}

func (h *fakeHardware) Close() error {
	h.closes++
	return nil
}

func (h *fakeHardware) SetLed(p grid.Point, c Color) error {
	h.writes++
	if h.failLed {
		return errors.New("write failed")
	}
	h.leds[p] = c
	return nil
}

func (h *fakeHardware) SetFrame(frame []byte) error {
	h.writes++
	h.frames = append(h.frames, append([]byte(nil), frame...))
	if h.onFrame != nil {
		h.onFrame()
	}
	return nil
}

func (h *fakeHardware) PollButton() (ButtonEvent, bool) {
	if len(h.events) == 0 {
		return ButtonEvent{}, false
	}
	ev := h.events[0]
	h.events = h.events[1:]
	return ev, true
}

func (h *fakeHardware) lastFrame() []byte {
	return h.frames[len(h.frames)-1]
}

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type testBoard struct {
	*Board
	audio  *fakeAudio
	hw     *fakeHardware
	sleeps []time.Duration
}

// newTestBoard returns a board with n clips named clip000.wav, clip001.wav, ...
func newTestBoard(t *testing.T, n int) *testBoard {
	t.Helper()
	a := newFakeAudio()
	hw := newFakeHardware()
	tb := &testBoard{audio: a, hw: hw}
	tb.Board = New(a, hw, Options{Logger: testLogger()})
	tb.Board.sleep = func(d time.Duration) { tb.sleeps = append(tb.sleeps, d) }
	tb.Load(makeClips(n))
	return tb
}

func makeClips(n int) []Clip {
	clips := make([]Clip, n)
	for i := range clips {
		name := fmt.Sprintf("clip%03d.wav", i)
		clips[i] = Clip{Name: name, Sound: name}
	}
	return clips
}

func (tb *testBoard) pressAt(x, y int) {
	tb.HandleEvent(ButtonEvent{Point: grid.Point{X: x, Y: y}, Pressed: true})
}

func (tb *testBoard) releaseAt(x, y int) {
	tb.HandleEvent(ButtonEvent{Point: grid.Point{X: x, Y: y}, Pressed: false})
}

func (tb *testBoard) tap(x, y int) {
	tb.pressAt(x, y)
	tb.releaseAt(x, y)
}

// button returns the button under physical cell (x, y) on the current page.
func (tb *testBoard) button(x, y int) *Button {
	return tb.store.Get(grid.PhysicalToVirtual(x, y, tb.page))
}
