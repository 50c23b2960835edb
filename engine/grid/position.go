package grid

import (
	"cmp"
	"fmt"

	"github.com/nathoo/gridsim/engine/contract"
)

// Number is any integral or real type a Position can be built from.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Position is an immutable 2D coordinate. Rows grow downward, so Down
// increases y. Validity is relative to a Grid and is not checked here.
type Position struct {
	x, y float64
}

// Pos builds a Position from integral or real coordinates.
func Pos[T Number](x, y T) Position {
	return Position{x: float64(x), y: float64(y)}
}

func (p Position) X() float64 { return p.x }
func (p Position) Y() float64 { return p.y }

// CellX truncates x to a cell column. x must be non-negative.
func (p Position) CellX() int {
	contract.Require(p.x >= 0, contract.ErrOutOfDomain, "Position.CellX", "x=%g", p.x)
	return int(p.x)
}

// CellY truncates y to a cell row. y must be non-negative.
func (p Position) CellY() int {
	contract.Require(p.y >= 0, contract.ErrOutOfDomain, "Position.CellY", "y=%g", p.y)
	return int(p.y)
}

// Offset returns the position translated by (dx, dy).
func (p Position) Offset(dx, dy float64) Position {
	return Position{x: p.x + dx, y: p.y + dy}
}

func (p Position) Up() Position    { return Position{x: p.x, y: p.y - 1} }
func (p Position) Down() Position  { return Position{x: p.x, y: p.y + 1} }
func (p Position) Left() Position  { return Position{x: p.x - 1, y: p.y} }
func (p Position) Right() Position { return Position{x: p.x + 1, y: p.y} }

// SameCell reports whether both positions truncate to the same cell.
func (p Position) SameCell(o Position) bool {
	return int(p.x) == int(o.x) && int(p.y) == int(o.y)
}

// DistanceSquared returns the squared euclidean distance to o.
func (p Position) DistanceSquared(o Position) float64 {
	dx, dy := p.x-o.x, p.y-o.y
	return dx*dx + dy*dy
}

// Compare orders positions lexicographically on (x, y).
func (p Position) Compare(o Position) int {
	if c := cmp.Compare(p.x, o.x); c != 0 {
		return c
	}
	return cmp.Compare(p.y, o.y)
}

// Less reports whether p sorts before o.
func (p Position) Less(o Position) bool { return p.Compare(o) < 0 }

func (p Position) String() string {
	return fmt.Sprintf("(%g,%g)", p.x, p.y)
}
