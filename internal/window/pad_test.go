package window

import (
	"image/color"
	"io"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutax/soundpad/internal/grid"
	"github.com/mutax/soundpad/internal/soundboard"
)

func newTestPad(t *testing.T) *VirtualPad {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewVirtualPad(test.NewTempApp(t), l)
}

func drain(vp *VirtualPad) []soundboard.ButtonEvent {
	var out []soundboard.ButtonEvent
	for {
		ev, ok := vp.PollButton()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func mouse(b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{Button: b}
}

func TestPrimaryMouseDownUpPressesAndReleases(t *testing.T) {
	vp := newTestPad(t)
	cell := vp.cells[3][2]

	cell.MouseDown(mouse(desktop.MouseButtonPrimary))
	cell.MouseUp(mouse(desktop.MouseButtonPrimary))
	cell.MouseDown(mouse(desktop.MouseButtonSecondary))

	assert.Equal(t, []soundboard.ButtonEvent{
		{Point: grid.Point{X: 2, Y: 3}, Pressed: true},
		{Point: grid.Point{X: 2, Y: 3}, Pressed: false},
	}, drain(vp))
}

func TestSecondaryTapLatchesCell(t *testing.T) {
	vp := newTestPad(t)
	h9 := vp.cells[grid.LoopModifier.Y][grid.LoopModifier.X]

	h9.TappedSecondary(&fyne.PointEvent{})
	h9.MouseDown(mouse(desktop.MouseButtonPrimary))
	h9.MouseUp(mouse(desktop.MouseButtonPrimary))
	h9.TappedSecondary(&fyne.PointEvent{})

	assert.Equal(t, []soundboard.ButtonEvent{
		{Point: grid.LoopModifier, Pressed: true},
		{Point: grid.LoopModifier, Pressed: false},
	}, drain(vp), "primary clicks on a latched cell are ignored")
}

func TestCloseInterceptSendsExitGesture(t *testing.T) {
	vp := newTestPad(t)

	vp.sendExitGesture()

	assert.Equal(t, []soundboard.ButtonEvent{
		{Point: grid.ExitLeft, Pressed: true},
		{Point: grid.ExitRight, Pressed: true},
	}, drain(vp))
}

func TestTapPressesAndReleases(t *testing.T) {
	vp := newTestPad(t)

	vp.Tap(grid.StopAll)

	assert.Equal(t, []soundboard.ButtonEvent{
		{Point: grid.StopAll, Pressed: true},
		{Point: grid.StopAll, Pressed: false},
	}, drain(vp))
}

func TestLedWrites(t *testing.T) {
	vp := newTestPad(t)

	require.NoError(t, vp.SetLed(grid.StopAll, soundboard.ColorRed))
	require.NoError(t, vp.SetLed(grid.Point{X: 9, Y: 9}, soundboard.ColorRed), "off-pad writes are ignored")

	frame := make([]byte, grid.PageSize)
	frame[0] = soundboard.ColorLoaded.Pack()
	frame[63] = soundboard.Color{Red: 3}.Pack()
	require.NoError(t, vp.SetFrame(frame))

	assert.Equal(t, soundboard.ColorRed, vp.Led(grid.StopAll))
	assert.Equal(t, soundboard.ColorLoaded, vp.Led(grid.Point{X: 0, Y: 1}))
	assert.Equal(t, soundboard.Color{Red: 3}, vp.Led(grid.Point{X: 7, Y: 8}))

	require.NoError(t, vp.Reset())
	assert.Equal(t, soundboard.ColorOff, vp.Led(grid.StopAll))
	assert.Equal(t, soundboard.ColorOff, vp.Led(grid.Point{X: 0, Y: 1}))
}

func TestCloseIsIdempotent(t *testing.T) {
	vp := newTestPad(t)
	assert.NoError(t, vp.Close())
	assert.NoError(t, vp.Close())
}

func TestCellLabels(t *testing.T) {
	assert.Equal(t, "1", cellLabel(grid.Point{X: 0, Y: 0}))
	assert.Equal(t, "8", cellLabel(grid.ExitRight))
	assert.Equal(t, "A9", cellLabel(grid.ModeToggle))
	assert.Equal(t, "H9", cellLabel(grid.LoopModifier))
	assert.Empty(t, cellLabel(grid.Point{X: 8, Y: 0}))
	assert.Empty(t, cellLabel(grid.Point{X: 3, Y: 3}))
}

func TestFillColor(t *testing.T) {
	assert.Equal(t, offColor, fillColor(soundboard.ColorOff))
	assert.Equal(t, color.RGBA{R: 255, G: 85, A: 255}, fillColor(soundboard.Color{Red: 3, Green: 1}))
}
