package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_MasksCellsOutsideRadius(t *testing.T) {
	g := New(5, 5, 1, CellType{Name: "floor", Symbol: '.'})
	w := NewWindow(g, Pos(2, 2), 1)

	assert.Equal(t, CellTypeID(1), w.At(2, 2))
	assert.Equal(t, CellTypeID(1), w.At(2, 1))
	assert.Equal(t, CellTypeID(1), w.At(3, 2))
	assert.Equal(t, Unknown, w.At(3, 3), "diagonal is sqrt(2) away")
	assert.Equal(t, Unknown, w.At(0, 0))
	assert.Equal(t, '?', w.Symbol(Pos(4, 4)))
	assert.Equal(t, '.', w.Symbol(Pos(2.5, 2.5)))

	assert.Equal(t, 5, w.Width(), "bounds come from the underlying grid")
	assert.Equal(t, "floor", w.CellTypeName(1))
}

func TestWindow_InfiniteAndNegativeRadius(t *testing.T) {
	g := New(3, 3, 1, CellType{Name: "floor", Symbol: '.'})

	all := NewWindow(g, Pos(0, 0), math.Inf(1))
	assert.Equal(t, CellTypeID(1), all.At(2, 2))

	none := NewWindow(g, Pos(0, 0), -1)
	assert.Equal(t, Unknown, none.At(0, 0))
}
