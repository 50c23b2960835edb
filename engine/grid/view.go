package grid

import "math"

// Reader is the read-only view of a grid handed to agents when they choose
// an action.
type Reader interface {
	Width() int
	Height() int
	IsValid(x, y float64) bool
	IsValidPos(pos Position) bool
	At(x, y int) CellTypeID
	AtPos(pos Position) CellTypeID
	Symbol(pos Position) rune
	CellTypeID(name string) CellTypeID
	CellTypeName(id CellTypeID) string
	CellTypeSymbol(id CellTypeID) rune
}

var _ Reader = (*Grid)(nil)
var _ Reader = (*Window)(nil)

// Window masks every cell farther than radius from center as Unknown.
// Bounds and the type registry are those of the underlying grid.
type Window struct {
	Reader
	center Position
	radius float64
}

// NewWindow returns a view of src visible from center. A negative radius
// hides every cell; +Inf shows all of them.
func NewWindow(src Reader, center Position, radius float64) *Window {
	return &Window{Reader: src, center: center, radius: radius}
}

// Visible reports whether the cell under pos is within the window radius.
func (w *Window) Visible(pos Position) bool {
	if w.radius < 0 {
		return false
	}
	if math.IsInf(w.radius, 1) {
		return true
	}
	cell := Pos(math.Floor(pos.X()), math.Floor(pos.Y()))
	origin := Pos(math.Floor(w.center.X()), math.Floor(w.center.Y()))
	return cell.DistanceSquared(origin) <= w.radius*w.radius
}

func (w *Window) At(x, y int) CellTypeID {
	return w.AtPos(Pos(x, y))
}

func (w *Window) AtPos(pos Position) CellTypeID {
	id := w.Reader.AtPos(pos)
	if !w.Visible(pos) {
		return Unknown
	}
	return id
}

func (w *Window) Symbol(pos Position) rune {
	return w.CellTypeSymbol(w.AtPos(pos))
}
