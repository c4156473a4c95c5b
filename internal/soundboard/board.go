package soundboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mutax/soundpad/internal/grid"
)

// LoopState is the state of the event loop.
type LoopState int

const (
	Running LoopState = iota
	Exiting
)

func (s LoopState) String() string {
	switch s {
	case Running:
		return "running"
	case Exiting:
		return "exiting"
	default:
		return fmt.Sprintf("LoopState(%d)", int(s))
	}
}

// Options tunes the board. Zero values pick the defaults.
type Options struct {
	// FadeOut applies to clips loaded without their own fade-out.
	FadeOut time.Duration
	// SoloFadeOut is used on the channels a solo press takes over.
	SoloFadeOut time.Duration
	// SoloGrace is the pause between stopping the old channels and
	// starting the new one in solo mode.
	SoloGrace time.Duration
	// Idle is the sleep between two loop iterations.
	Idle time.Duration
	// BlinkTicks is how many iterations make one blink step.
	BlinkTicks int
	// InitialMode defaults to Toggle.
	InitialMode PlayMode
	Logger      logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.FadeOut <= 0 {
		o.FadeOut = DefaultFadeOut
	}
	if o.SoloFadeOut <= 0 {
		o.SoloFadeOut = 100 * time.Millisecond
	}
	if o.SoloGrace <= 0 {
		o.SoloGrace = 200 * time.Millisecond
	}
	if o.Idle <= 0 {
		o.Idle = time.Millisecond
	}
	if o.BlinkTicks <= 0 {
		o.BlinkTicks = 1000
	}
	if !o.InitialMode.valid() {
		o.InitialMode = Toggle
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Board owns all soundboard state. It is driven from a single goroutine
// and needs no locking.
type Board struct {
	audio AudioEngine
	hw    Hardware
	opts  Options
	log   logrus.FieldLogger

	store   *Store
	ledger  *Ledger
	pressed map[grid.Point]struct{}

	mode  PlayMode
	page  int
	dirty bool
	ticks int
	state LoopState

	sleep func(time.Duration)
}

// New returns a board in the Running state with nothing loaded.
func New(audio AudioEngine, hw Hardware, opts Options) *Board {
	opts = opts.withDefaults()
	return &Board{
		audio:   audio,
		hw:      hw,
		opts:    opts,
		log:     opts.Logger,
		store:   NewStore(),
		ledger:  NewLedger(),
		pressed: make(map[grid.Point]struct{}),
		mode:    opts.InitialMode,
		dirty:   true,
		state:   Running,
		sleep:   time.Sleep,
	}
}

// Load assigns clips to the next free cells.
func (bd *Board) Load(clips []Clip) LoadResult {
	for i := range clips {
		if clips[i].FadeOut <= 0 {
			clips[i].FadeOut = bd.opts.FadeOut
		}
	}
	res := bd.store.Load(clips)
	if res.Dropped > 0 {
		bd.log.WithFields(logrus.Fields{
			"max_pages":    grid.MaxPages,
			"pages_needed": res.PagesNeeded,
			"dropped":      res.Dropped,
		}).Warn("reached maximum pages")
	}
	bd.dirty = true
	return res
}

func (bd *Board) Store() *Store { return bd.store }
func (bd *Board) Ledger() *Ledger { return bd.ledger }
func (bd *Board) Mode() PlayMode { return bd.mode }
func (bd *Board) Page() int { return bd.page }
func (bd *Board) Pages() int { return bd.store.Pages() }
func (bd *Board) State() LoopState { return bd.state }
func (bd *Board) Dirty() bool { return bd.dirty }
func (bd *Board) Held(p grid.Point) bool {
	_, ok := bd.pressed[p]
	return ok
}

// Run drives the loop until the exit gesture is seen or ctx is canceled,
// then stops all playback and releases the hardware.
func (bd *Board) Run(ctx context.Context) error {
	for bd.state == Running {
		if ctx.Err() != nil {
			bd.log.Info("context canceled, exiting")
			bd.state = Exiting
			break
		}
		bd.Step()
	}
	return bd.shutdown()
}

// Step runs one loop iteration.
func (bd *Board) Step() {
	bd.Render()
	bd.sleep(bd.opts.Idle)
	bd.tickAnimation()
	bd.reconcile()
	if ev, ok := bd.hw.PollButton(); ok {
		bd.HandleEvent(ev)
	}
}

// HandleEvent dispatches one hardware event and evaluates the exit gesture.
func (bd *Board) HandleEvent(ev ButtonEvent) {
	if ev.Pressed {
		bd.press(ev.Point)
	} else {
		bd.release(ev.Point)
	}
	if bd.Held(grid.ExitLeft) && bd.Held(grid.ExitRight) {
		bd.log.Info("exit gesture")
		bd.state = Exiting
	}
}

func (bd *Board) reconcile() {
	n := bd.audio.PollCompletions()
	if n == 0 {
		return
	}
	idle := bd.ledger.Reconcile(bd.audio.IsBusy)
	bd.log.WithFields(logrus.Fields{
		"notifications": n,
		"idle":          len(idle),
		"live":          bd.ledger.Len(),
	}).Debug("reconciled channels")
	for _, b := range idle {
		b.stopAlt()
		b.setColor(ColorIdle)
		bd.dirty = true
	}
}

func (bd *Board) shutdown() error {
	bd.StopAll(true)
	return errors.Join(bd.hw.Reset(), bd.hw.Close())
}
