// Package grid provides the dense 2D cell storage shared by every world:
// a registry of cell types and a row-major array of cell type ids, with
// symbolic text load/print and a whitespace-separated integer dump.
package grid

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nathoo/gridsim/engine/contract"
)

// CellTypeID indexes a Grid's cell type registry.
type CellTypeID int

// Unknown is the reserved sentinel type at index 0. It marks invalid or
// unreachable cells and doubles as the "not found" result of CellTypeID.
const Unknown CellTypeID = 0

// CellType describes one kind of cell (a wall, open floor, water...).
type CellType struct {
	Name   string
	Desc   string
	Symbol rune
}

// Grid is a width x height array of cell type ids.
type Grid struct {
	width     int
	height    int
	cellTypes []CellType
	cells     []CellTypeID
}

// MaxCells bounds Width()*Height().
const MaxCells = 1 << 24

// CheckSize reports whether a width x height grid may be created. The
// product is never computed, so sizes that would overflow int are caught.
func CheckSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	if height != 0 && width > MaxCells/height {
		return fmt.Errorf("grid size %dx%d exceeds %d cells", width, height, MaxCells)
	}
	return nil
}

func requireSize(op string, width, height int) {
	if err := CheckSize(width, height); err != nil {
		contract.Fail(contract.ErrOutOfDomain, op, "%v", err)
	}
}

// New creates a grid filled with fill. The sentinel type is registered
// first, followed by types in order, so types[i] receives id i+1.
func New(width, height int, fill CellTypeID, types ...CellType) *Grid {
	requireSize("grid.New", width, height)
	g := &Grid{width: width, height: height}
	g.AddCellType("Unknown", "This is an invalid cell type and should not be reachable.", '?')
	for _, t := range types {
		g.AddCellType(t.Name, t.Desc, t.Symbol)
	}
	g.requireType("grid.New", fill)
	g.cells = make([]CellTypeID, width*height)
	if fill != Unknown {
		for i := range g.cells {
			g.cells[i] = fill
		}
	}
	return g
}

func (g *Grid) Width() int    { return g.width }
func (g *Grid) Height() int   { return g.height }
func (g *Grid) NumCells() int { return len(g.cells) }

// IsValid reports whether (x, y) lies inside the grid. Bounds are checked
// on the real values, before truncation.
func (g *Grid) IsValid(x, y float64) bool {
	return x >= 0 && x < float64(g.width) && y >= 0 && y < float64(g.height)
}

// IsValidPos reports whether pos lies inside the grid.
func (g *Grid) IsValidPos(pos Position) bool {
	return g.IsValid(pos.X(), pos.Y())
}

func (g *Grid) index(op string, x, y int) int {
	contract.Require(g.IsValid(float64(x), float64(y)), contract.ErrOutOfBounds,
		op, "(%d,%d) outside %dx%d grid", x, y, g.width, g.height)
	return x + y*g.width
}

func (g *Grid) posIndex(op string, pos Position) int {
	contract.Require(g.IsValidPos(pos), contract.ErrOutOfBounds,
		op, "%v outside %dx%d grid", pos, g.width, g.height)
	return pos.CellX() + pos.CellY()*g.width
}

func (g *Grid) requireType(op string, id CellTypeID) {
	contract.Require(id >= 0 && int(id) < len(g.cellTypes), contract.ErrUnknownID,
		op, "cell type %d (have %d)", id, len(g.cellTypes))
}

// At returns the cell type at (x, y).
func (g *Grid) At(x, y int) CellTypeID {
	return g.cells[g.index("Grid.At", x, y)]
}

// Set assigns the cell type at (x, y).
func (g *Grid) Set(x, y int, id CellTypeID) {
	g.requireType("Grid.Set", id)
	g.cells[g.index("Grid.Set", x, y)] = id
}

// AtPos returns the cell type under pos.
func (g *Grid) AtPos(pos Position) CellTypeID {
	return g.cells[g.posIndex("Grid.AtPos", pos)]
}

// SetPos assigns the cell type under pos.
func (g *Grid) SetPos(pos Position, id CellTypeID) {
	g.requireType("Grid.SetPos", id)
	g.cells[g.posIndex("Grid.SetPos", pos)] = id
}

// Cells returns a copy of the cells in row-major order.
func (g *Grid) Cells() []CellTypeID {
	out := make([]CellTypeID, len(g.cells))
	copy(out, g.cells)
	return out
}

// SetCells replaces every cell with cells, which must be row-major and
// exactly Width()*Height() long.
func (g *Grid) SetCells(cells []CellTypeID) error {
	if len(cells) != g.width*g.height {
		return fmt.Errorf("grid is %dx%d, got %d cells", g.width, g.height, len(cells))
	}
	next := make([]CellTypeID, len(cells))
	for i, id := range cells {
		if id < 0 || int(id) >= len(g.cellTypes) {
			return fmt.Errorf("cell %d: unknown cell type %d", i, id)
		}
		next[i] = id
	}
	g.cells = next
	return nil
}

// ---- Cell type registry ----

// CellTypes returns a copy of the registry, sentinel included.
func (g *Grid) CellTypes() []CellType {
	out := make([]CellType, len(g.cellTypes))
	copy(out, g.cellTypes)
	return out
}

// AddCellType registers a new cell type and returns its id. Duplicate
// names are accepted; lookups resolve to the first registration.
func (g *Grid) AddCellType(name, desc string, symbol rune) CellTypeID {
	contract.Require(name != "", contract.ErrOutOfDomain, "Grid.AddCellType", "empty name")
	g.cellTypes = append(g.cellTypes, CellType{Name: name, Desc: desc, Symbol: symbol})
	return CellTypeID(len(g.cellTypes) - 1)
}

// LookupCellType returns the first registered type called name. The
// sentinel is never matched.
func (g *Grid) LookupCellType(name string) (CellTypeID, bool) {
	for i := 1; i < len(g.cellTypes); i++ {
		if g.cellTypes[i].Name == name {
			return CellTypeID(i), true
		}
	}
	return Unknown, false
}

// CellTypeID returns the id for name, or Unknown when there is none.
func (g *Grid) CellTypeID(name string) CellTypeID {
	id, _ := g.LookupCellType(name)
	return id
}

// CellTypeName returns the name of id; unknown ids report the sentinel.
func (g *Grid) CellTypeName(id CellTypeID) string {
	if id < 0 || int(id) >= len(g.cellTypes) {
		return g.cellTypes[Unknown].Name
	}
	return g.cellTypes[id].Name
}

// CellTypeSymbol returns the display symbol of id; unknown ids report the
// sentinel's symbol.
func (g *Grid) CellTypeSymbol(id CellTypeID) rune {
	if id < 0 || int(id) >= len(g.cellTypes) {
		return g.cellTypes[Unknown].Symbol
	}
	return g.cellTypes[id].Symbol
}

// Symbol returns the display symbol of the cell under pos.
func (g *Grid) Symbol(pos Position) rune {
	return g.CellTypeSymbol(g.AtPos(pos))
}

// ---- Size ----

// Resize changes the grid dimensions. The overlapping rectangle keeps its
// values, new cells get fill, and everything else is discarded.
func (g *Grid) Resize(width, height int, fill CellTypeID) {
	requireSize("Grid.Resize", width, height)
	g.requireType("Grid.Resize", fill)

	next := make([]CellTypeID, width*height)
	for i := range next {
		next[i] = fill
	}
	minW, minH := min(g.width, width), min(g.height, height)
	for y := 0; y < minH; y++ {
		for x := 0; x < minW; x++ {
			next[x+y*width] = g.cells[x+y*g.width]
		}
	}

	g.cells = next
	g.width = width
	g.height = height
}

// ---- Text load / print ----

// symbolMap maps display symbols to type ids. When two types share a
// symbol the first registration wins, matching LookupCellType.
func (g *Grid) symbolMap() map[rune]CellTypeID {
	m := make(map[rune]CellTypeID, len(g.cellTypes))
	for i, t := range g.cellTypes {
		if _, taken := m[t.Symbol]; !taken {
			m[t.Symbol] = CellTypeID(i)
		}
	}
	return m
}

// Load replaces the grid with rows of symbols. The first row sets the
// width; short rows are padded with Unknown, extra characters are dropped,
// and unrecognised symbols become Unknown.
func (g *Grid) Load(rows []string) {
	width := 0
	if len(rows) > 0 {
		width = len([]rune(rows[0]))
	}
	requireSize("Grid.Load", width, len(rows))
	symbols := g.symbolMap()
	cells := make([]CellTypeID, width*len(rows))
	for y, row := range rows {
		runes := []rune(row)
		for x := 0; x < width && x < len(runes); x++ {
			cells[x+y*width] = symbols[runes[x]]
		}
	}
	g.cells = cells
	g.width = width
	g.height = len(rows)
}

// LoadReader reads one row per line from r and loads them.
func (g *Grid) LoadReader(r io.Reader) error {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rows = append(rows, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading grid rows: %w", err)
	}
	g.Load(rows)
	return nil
}

// Rows renders each row as a string of display symbols.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			sb.WriteRune(g.CellTypeSymbol(g.cells[x+y*g.width]))
		}
		rows[y] = sb.String()
	}
	return rows
}

// Print writes one line of display symbols per row, with no border.
func (g *Grid) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, row := range g.Rows() {
		bw.WriteString(row)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ---- Serialize / Deserialize ----
// Format: "<width> <height> <cell0> ... <cellN-1>\n", row-major. The cell
// type registry is not included; the reader must share a compatible one.

// Serialize writes the grid dimensions and every cell id.
func (g *Grid) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d", g.width, g.height)
	for _, id := range g.cells {
		fmt.Fprintf(bw, " %d", id)
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// Deserialize reads a payload written by Serialize. The grid is only
// modified when the whole payload is valid.
func (g *Grid) Deserialize(r io.Reader) error {
	br := bufio.NewReader(r)
	var width, height int
	if _, err := fmt.Fscan(br, &width, &height); err != nil {
		return fmt.Errorf("reading grid size: %w", err)
	}
	if err := CheckSize(width, height); err != nil {
		return err
	}
	// Grow as cells arrive so a short payload cannot force a large allocation.
	n := width * height
	cells := make([]CellTypeID, 0, min(n, 4096))
	for i := 0; i < n; i++ {
		var id CellTypeID
		if _, err := fmt.Fscan(br, &id); err != nil {
			return fmt.Errorf("reading cell %d: %w", i, err)
		}
		if id < 0 || int(id) >= len(g.cellTypes) {
			return fmt.Errorf("cell %d: unknown cell type %d", i, id)
		}
		cells = append(cells, id)
	}
	g.cells = cells
	g.width = width
	g.height = height
	return nil
}
