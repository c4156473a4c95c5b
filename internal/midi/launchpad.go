package midi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/mutax/soundpad/internal/grid"
	"github.com/mutax/soundpad/internal/soundboard"
)

const eventBuffer = 128

// Options selects the controller to open.
type Options struct {
	Type    DeviceType
	InPort  string // empty means auto-detect
	OutPort string // empty means auto-detect
	Logger  logrus.FieldLogger
}

// Launchpad drives a physical pad and implements soundboard.Hardware.
// Input arrives on the MIDI driver's goroutine and is buffered until the
// event loop polls it.
type Launchpad struct {
	dev    Device
	send   SendFunc
	events chan soundboard.ButtonEvent
	log    logrus.FieldLogger

	in       drivers.In
	out      drivers.Out
	stopFunc func()

	closeOnce sync.Once
	closeErr  error
}

var _ soundboard.Hardware = (*Launchpad)(nil)

// Open finds the controller's ports, puts the device into the mode the
// soundboard expects and starts listening for button events.
func Open(m *Manager, opts Options) (*Launchpad, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	in, out, err := m.FindPorts(opts.InPort, opts.OutPort)
	if err != nil {
		return nil, err
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}

	lp := newLaunchpad(GetDevice(opts.Type), send, log)
	lp.in, lp.out = in, out

	if err := lp.dev.ActivateProgrammerMode(lp.send); err != nil {
		lp.Close()
		return nil, err
	}
	if err := lp.Reset(); err != nil {
		lp.Close()
		return nil, err
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		lp.handle(msg)
	})
	if err != nil {
		lp.Close()
		return nil, fmt.Errorf("open input: %w", err)
	}
	lp.stopFunc = stop

	log.WithFields(logrus.Fields{
		"type": opts.Type,
		"in":   in.String(),
		"out":  out.String(),
	}).Info("launchpad connected")
	return lp, nil
}

func newLaunchpad(dev Device, send SendFunc, log logrus.FieldLogger) *Launchpad {
	return &Launchpad{
		dev:    dev,
		send:   send,
		events: make(chan soundboard.ButtonEvent, eventBuffer),
		log:    log,
	}
}

// handle runs on the driver's goroutine and must not block.
func (lp *Launchpad) handle(msg midi.Message) {
	ev, ok := lp.dev.HandleMessage(msg)
	if !ok {
		return
	}
	select {
	case lp.events <- ev:
	default:
		lp.log.WithField("point", ev.Point).Warn("event buffer full, dropping button event")
	}
}

func (lp *Launchpad) Reset() error {
	return lp.dev.ClearAllPads(lp.send)
}

func (lp *Launchpad) SetLed(p grid.Point, c soundboard.Color) error {
	return lp.dev.SetPadColor(lp.send, p, c)
}

func (lp *Launchpad) SetFrame(frame []byte) error {
	return lp.dev.SetFrame(lp.send, frame)
}

func (lp *Launchpad) PollButton() (soundboard.ButtonEvent, bool) {
	select {
	case ev := <-lp.events:
		return ev, true
	default:
		return soundboard.ButtonEvent{}, false
	}
}

// Close stops listening and closes both ports. It is safe to call more
// than once.
func (lp *Launchpad) Close() error {
	lp.closeOnce.Do(func() {
		if lp.stopFunc != nil {
			lp.stopFunc()
		}
		var errs []error
		if lp.in != nil {
			errs = append(errs, lp.in.Close())
		}
		if lp.out != nil {
			errs = append(errs, lp.out.Close())
		}
		lp.closeErr = errors.Join(errs...)
	})
	return lp.closeErr
}
