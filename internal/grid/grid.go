// Package grid maps clip load order and physical Launchpad presses onto the
// virtual coordinate space shared by all pages.
package grid

const (
	// Cols and Rows describe the 8x8 pad matrix of one page.
	Cols = 8
	Rows = 8

	// PageSize is the number of matrix cells on one page.
	PageSize = Cols * Rows

	// MaxPages is the hard ceiling on addressable pages (one per top-row button).
	MaxPages = 8

	// Capacity is the number of cells across all pages.
	Capacity = PageSize * MaxPages
)

// Coord is a virtual grid position. X is in [0,7], Y spans every page:
// Y in [0, 8*MaxPages-1].
type Coord struct {
	X, Y int
}

// Point is a physical position as reported by the hardware. Y=0 is the
// top control row and X=8 the right control column.
type Point struct {
	X, Y int
}

// Control cells outside the pad matrix.
var (
	ModeToggle   = Point{X: 8, Y: 1} // "A9"
	StopAll      = Point{X: 8, Y: 2} // "B9"
	LoopModifier = Point{X: 8, Y: 8} // "H9"

	ExitLeft  = Point{X: 0, Y: 0}
	ExitRight = Point{X: 7, Y: 0}
)

// PositionToCoord maps a linear load-order index onto a virtual coordinate.
func PositionToCoord(n int) Coord {
	return Coord{X: n % Cols, Y: n / Cols}
}

// CoordToPosition is the inverse of PositionToCoord.
func CoordToPosition(c Coord) int {
	return c.Y*Cols + c.X
}

// PhysicalToVirtual maps a matrix press on the given page onto a virtual
// coordinate. Physical row 0 holds the page selectors, so matrix rows are
// 1..8 and map onto virtual rows page*8 .. page*8+7.
func PhysicalToVirtual(col, row, page int) Coord {
	return Coord{X: col, Y: row + page*Rows - 1}
}

// IsMatrix reports whether p lies inside the 8x8 pad matrix.
func (p Point) IsMatrix() bool {
	return p.X >= 0 && p.X < Cols && p.Y >= 1 && p.Y <= Rows
}

// IsTopRow reports whether p is one of the page selector buttons.
func (p Point) IsTopRow() bool {
	return p.Y == 0
}

// IsRightColumn reports whether p is one of the round buttons on the right.
func (p Point) IsRightColumn() bool {
	return p.X == Cols && p.Y > 0
}

// PageOf returns the page a virtual coordinate lives on.
func PageOf(c Coord) int {
	return c.Y / Rows
}
