package window

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// ============ PAD CELL WIDGET ============

// padCell is a tappable rectangle that reports primary button down/up
// separately, so holding the mouse holds the pad.
type padCell struct {
	widget.BaseWidget
	rect  *canvas.Rectangle
	label *canvas.Text

	onDown  func()
	onUp    func()
	onLatch func()
}

func newPadCell(rect *canvas.Rectangle, label string) *padCell {
	t := canvas.NewText(label, color.Gray{Y: 160})
	t.Alignment = fyne.TextAlignCenter
	t.TextSize = 11
	c := &padCell{rect: rect, label: t}
	c.ExtendBaseWidget(c)
	return c
}

func (c *padCell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(c.rect, c.label))
}

func (c *padCell) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary && c.onDown != nil {
		c.onDown()
	}
}

func (c *padCell) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary && c.onUp != nil {
		c.onUp()
	}
}

// Tapped is handled through MouseDown/MouseUp.
func (c *padCell) Tapped(_ *fyne.PointEvent) {}

func (c *padCell) TappedSecondary(_ *fyne.PointEvent) {
	if c.onLatch != nil {
		c.onLatch()
	}
}
