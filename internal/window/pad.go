package window

import (
	"image/color"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/sirupsen/logrus"

	"github.com/mutax/soundpad/internal/grid"
	"github.com/mutax/soundpad/internal/soundboard"
)

const (
	padSize     = grid.Cols + 1 // 8x8 matrix plus top row and right column
	eventBuffer = 128
)

var offColor = color.RGBA{R: 40, G: 40, B: 40, A: 255}

// VirtualPad is an on-screen stand-in for a Launchpad. It implements
// soundboard.Hardware; LED writes arrive from the event loop goroutine
// and are applied on the fyne thread.
type VirtualPad struct {
	window fyne.Window
	log    logrus.FieldLogger

	rects [padSize][padSize]*canvas.Rectangle
	cells [padSize][padSize]*padCell

	mu      sync.Mutex
	leds    [padSize][padSize]soundboard.Color
	latched map[grid.Point]bool
	closed  bool

	events chan soundboard.ButtonEvent
}

var _ soundboard.Hardware = (*VirtualPad)(nil)

// NewVirtualPad creates the pad window. Closing it sends the exit gesture.
func NewVirtualPad(app fyne.App, log logrus.FieldLogger) *VirtualPad {
	if log == nil {
		log = logrus.StandardLogger()
	}
	win := app.NewWindow("Soundpad")
	vp := &VirtualPad{
		window:  win,
		log:     log,
		latched: make(map[grid.Point]bool),
		events:  make(chan soundboard.ButtonEvent, eventBuffer),
	}

	win.SetContent(vp.createPadGrid())
	win.Resize(fyne.NewSize(480, 480))
	win.CenterOnScreen()
	win.SetCloseIntercept(vp.sendExitGesture)
	return vp
}

// Show opens the window.
func (vp *VirtualPad) Show() {
	vp.window.Show()
}

func (vp *VirtualPad) createPadGrid() fyne.CanvasObject {
	g := container.NewGridWithColumns(padSize)

	for row := 0; row < padSize; row++ {
		for col := 0; col < padSize; col++ {
			p := grid.Point{X: col, Y: row}

			rect := canvas.NewRectangle(offColor)
			rect.SetMinSize(fyne.NewSize(40, 40))
			rect.CornerRadius = 4
			vp.rects[row][col] = rect

			cell := newPadCell(rect, cellLabel(p))
			cell.onDown = func() { vp.press(p) }
			cell.onUp = func() { vp.release(p) }
			cell.onLatch = func() { vp.toggleLatch(p) }
			vp.cells[row][col] = cell

			g.Add(cell)
		}
	}
	return g
}

// cellLabel names the control buttons the way the hardware prints them.
func cellLabel(p grid.Point) string {
	switch {
	case p.IsTopRow() && p.X < grid.Cols:
		return strconv.Itoa(p.X + 1)
	case p.IsRightColumn():
		return string(rune('A'+p.Y-1)) + "9"
	}
	return ""
}

func (vp *VirtualPad) press(p grid.Point) {
	if vp.isLatched(p) {
		return
	}
	vp.emit(soundboard.ButtonEvent{Point: p, Pressed: true})
}

func (vp *VirtualPad) release(p grid.Point) {
	if vp.isLatched(p) {
		return
	}
	vp.emit(soundboard.ButtonEvent{Point: p, Pressed: false})
}

// toggleLatch holds a cell down until the next secondary click, which is
// how modifiers and the two-button exit gesture work with one mouse.
func (vp *VirtualPad) toggleLatch(p grid.Point) {
	vp.mu.Lock()
	held := !vp.latched[p]
	if held {
		vp.latched[p] = true
	} else {
		delete(vp.latched, p)
	}
	vp.mu.Unlock()

	vp.emit(soundboard.ButtonEvent{Point: p, Pressed: held})
	vp.refreshCell(p)
}

func (vp *VirtualPad) isLatched(p grid.Point) bool {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	return vp.latched[p]
}

// Tap presses and releases p, as a short click would.
func (vp *VirtualPad) Tap(p grid.Point) {
	vp.emit(soundboard.ButtonEvent{Point: p, Pressed: true})
	vp.emit(soundboard.ButtonEvent{Point: p, Pressed: false})
}

// Quit sends the exit gesture.
func (vp *VirtualPad) Quit() {
	vp.sendExitGesture()
}

func (vp *VirtualPad) sendExitGesture() {
	vp.log.Info("pad window closed")
	vp.emit(soundboard.ButtonEvent{Point: grid.ExitLeft, Pressed: true})
	vp.emit(soundboard.ButtonEvent{Point: grid.ExitRight, Pressed: true})
}

func (vp *VirtualPad) emit(ev soundboard.ButtonEvent) {
	select {
	case vp.events <- ev:
	default:
		vp.log.WithField("point", ev.Point).Warn("event buffer full, dropping button event")
	}
}

func (vp *VirtualPad) PollButton() (soundboard.ButtonEvent, bool) {
	select {
	case ev := <-vp.events:
		return ev, true
	default:
		return soundboard.ButtonEvent{}, false
	}
}

func (vp *VirtualPad) Reset() error {
	vp.mu.Lock()
	vp.leds = [padSize][padSize]soundboard.Color{}
	vp.mu.Unlock()
	vp.refreshAll()
	return nil
}

func (vp *VirtualPad) SetLed(p grid.Point, c soundboard.Color) error {
	if p.X < 0 || p.X >= padSize || p.Y < 0 || p.Y >= padSize {
		return nil
	}
	vp.mu.Lock()
	vp.leds[p.Y][p.X] = c
	vp.mu.Unlock()
	vp.refreshCell(p)
	return nil
}

func (vp *VirtualPad) SetFrame(frame []byte) error {
	vp.mu.Lock()
	for i, packed := range frame {
		if i >= grid.PageSize {
			break
		}
		vp.leds[1+i/grid.Cols][i%grid.Cols] = soundboard.UnpackColor(packed)
	}
	vp.mu.Unlock()
	vp.refreshAll()
	return nil
}

// Led returns the color last written to p.
func (vp *VirtualPad) Led(p grid.Point) soundboard.Color {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	return vp.leds[p.Y][p.X]
}

// Close closes the window. Further calls do nothing.
func (vp *VirtualPad) Close() error {
	vp.mu.Lock()
	if vp.closed {
		vp.mu.Unlock()
		return nil
	}
	vp.closed = true
	vp.mu.Unlock()

	fyne.Do(vp.window.Close)
	return nil
}

func (vp *VirtualPad) refreshAll() {
	fyne.Do(func() {
		for row := 0; row < padSize; row++ {
			for col := 0; col < padSize; col++ {
				vp.paint(grid.Point{X: col, Y: row})
			}
		}
	})
}

func (vp *VirtualPad) refreshCell(p grid.Point) {
	fyne.Do(func() { vp.paint(p) })
}

// paint must run on the fyne thread.
func (vp *VirtualPad) paint(p grid.Point) {
	vp.mu.Lock()
	c := vp.leds[p.Y][p.X]
	latched := vp.latched[p]
	vp.mu.Unlock()

	rect := vp.rects[p.Y][p.X]
	rect.FillColor = fillColor(c)
	if latched {
		rect.StrokeColor = color.White
		rect.StrokeWidth = 2
	} else {
		rect.StrokeWidth = 0
	}
	rect.Refresh()
}

// fillColor shows the red and green LED levels as RGB.
func fillColor(c soundboard.Color) color.Color {
	if c == soundboard.ColorOff {
		return offColor
	}
	return color.RGBA{R: 85 * (c.Red & 0x03), G: 85 * (c.Green & 0x03), A: 255}
}
