// Package maze is a world of walls and open floor. Agents walk in the four
// axis directions and can pick up and drop the items lying around.
package maze

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
)

// Action ids understood by the maze.
const (
	RemainStill entity.ActionID = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	Take
	Drop
)

// Cell type names registered by NewGrid.
const (
	Floor = "floor"
	Wall  = "wall"
)

// DefaultMap is the stock maze layout.
var DefaultMap = []string{
	"#######################",
	"# #            ##     #",
	"# #  #  ######    ### #",
	"# #  #  #     #  #  # #",
	"# #  #  #  #  #  #  # #",
	"#    #     #     #    #",
	"##################  # #",
	"#                    ##",
	"#                    ##",
	"#  ####################",
	"#######################",
}

// NewGrid returns a grid with the floor and wall cell types registered and
// rows loaded. A nil rows slice loads DefaultMap.
func NewGrid(rows []string) *grid.Grid {
	if rows == nil {
		rows = DefaultMap
	}
	g := grid.New(0, 0, grid.Unknown,
		grid.CellType{Name: Floor, Desc: "Floor that agents can walk on.", Symbol: ' '},
		grid.CellType{Name: Wall, Desc: "Impenetrable wall.", Symbol: '#'},
	)
	g.Load(rows)
	return g
}

// Rules implements the maze. Create with NewRules.
type Rules struct {
	engine.BaseRules

	blocked    map[grid.CellTypeID]bool
	blockNames []string
	radius     float64
}

var (
	_ engine.Rules      = (*Rules)(nil)
	_ engine.Perception = (*Rules)(nil)
)

// Option configures maze Rules.
type Option func(*Rules)

// WithVisionRadius limits what every agent can observe to the cells,
// agents and items within r cells. Zero or less means unlimited.
func WithVisionRadius(r float64) Option {
	return func(m *Rules) {
		if r > 0 {
			m.radius = r
		}
	}
}

// WithBlocking adds more impassable cell types by name, on top of Wall.
func WithBlocking(names ...string) Option {
	return func(m *Rules) {
		m.blockNames = append(m.blockNames, names...)
	}
}

// NewRules builds maze rules for g. Names passed to WithBlocking that g
// does not know are ignored.
func NewRules(g *grid.Grid, opts ...Option) *Rules {
	m := &Rules{
		blocked: map[grid.CellTypeID]bool{},
		radius:  math.Inf(1),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, name := range append([]string{Wall}, m.blockNames...) {
		if id, ok := g.LookupCellType(name); ok {
			m.blocked[id] = true
		}
	}
	m.blockNames = nil
	return m
}

// NewWorld is the stock maze: DefaultMap, wall-only collisions.
func NewWorld(opts ...engine.Option) (*engine.World, *Rules) {
	g := NewGrid(nil)
	rules := NewRules(g)
	return engine.New(rules, append([]engine.Option{engine.WithGrid(g)}, opts...)...), rules
}

// Blocks reports whether agents may not enter cells of type id.
func (m *Rules) Blocks(id grid.CellTypeID) bool { return m.blocked[id] }

// VisionRadius returns the observation radius, +Inf when unlimited.
func (m *Rules) VisionRadius() float64 { return m.radius }

// ConfigAgent gives every agent the movement and item actions.
func (m *Rules) ConfigAgent(_ *engine.World, a entity.Agent) {
	a.AddAction("up", MoveUp)
	a.AddAction("down", MoveDown)
	a.AddAction("left", MoveLeft)
	a.AddAction("right", MoveRight)
	a.AddAction("take", Take)
	a.AddAction("drop", Drop)
}

// DoAction applies one action. Moves off the map or into a blocking cell
// fail and leave the agent where it was.
func (m *Rules) DoAction(w *engine.World, a entity.Agent, action entity.ActionID) int {
	loc := a.Location()
	if !loc.IsPosition() {
		return 0
	}
	pos := loc.AsPosition()

	switch action {
	case RemainStill:
		return 1
	case MoveUp:
		return m.move(w, a, pos.Up())
	case MoveDown:
		return m.move(w, a, pos.Down())
	case MoveLeft:
		return m.move(w, a, pos.Left())
	case MoveRight:
		return m.move(w, a, pos.Right())
	case Take:
		return m.take(w, a, pos)
	case Drop:
		return m.drop(w, a, pos)
	}
	return 0
}

func (m *Rules) move(w *engine.World, a entity.Agent, to grid.Position) int {
	g := w.Grid()
	if !g.IsValidPos(to) || m.blocked[g.AtPos(to)] {
		a.Notify("You can't go that way.", "movement")
		w.Logger().WithFields(logrus.Fields{
			"agent_id": a.ID(),
			"to":       to.String(),
		}).Debug("Move blocked.")
		return 0
	}
	a.SetLocation(entity.At(to))
	return 1
}

func (m *Rules) take(w *engine.World, a entity.Agent, pos grid.Position) int {
	items := w.ItemsAt(pos)
	if len(items) == 0 {
		a.Notify("There is nothing here to take.", "item")
		return 0
	}
	items[0].SetOwner(a.ID())
	a.Notify("Taken: "+items[0].Name()+".", "item")
	return 1
}

func (m *Rules) drop(w *engine.World, a entity.Agent, pos grid.Position) int {
	held := w.ItemsHeldBy(a.ID())
	if len(held) == 0 {
		a.Notify("You aren't carrying anything.", "item")
		return 0
	}
	held[0].SetLocation(entity.At(pos))
	a.Notify("Dropped: "+held[0].Name()+".", "item")
	return 1
}

// ObservableGrid returns the grid masked to the agent's vision radius.
func (m *Rules) ObservableGrid(w *engine.World, a entity.Agent) grid.Reader {
	if math.IsInf(m.radius, 1) || !a.Location().IsPosition() {
		return w.Grid()
	}
	return grid.NewWindow(w.Grid(), a.Location().AsPosition(), m.radius)
}

// KnownAgents lists the agent itself and every agent on a visible cell.
func (m *Rules) KnownAgents(w *engine.World, a entity.Agent) []entity.AgentID {
	view := m.window(w, a)
	var ids []entity.AgentID
	for _, other := range w.Agents() {
		loc := other.Location()
		if other.ID() == a.ID() || (loc.IsPosition() && view.Visible(loc.AsPosition())) {
			ids = append(ids, other.ID())
		}
	}
	return ids
}

// KnownItems lists the items on visible cells and the items a holds.
func (m *Rules) KnownItems(w *engine.World, a entity.Agent) []entity.ItemID {
	view := m.window(w, a)
	var ids []entity.ItemID
	for _, it := range w.Items() {
		loc := it.Location()
		switch {
		case loc.IsPosition() && view.Visible(loc.AsPosition()):
			ids = append(ids, it.ID())
		case it.IsOwned() && it.OwnerID() == a.ID():
			ids = append(ids, it.ID())
		}
	}
	return ids
}

func (m *Rules) window(w *engine.World, a entity.Agent) *grid.Window {
	radius := m.radius
	var center grid.Position
	if loc := a.Location(); loc.IsPosition() {
		center = loc.AsPosition()
	} else if !math.IsInf(radius, 1) {
		radius = -1
	}
	return grid.NewWindow(w.Grid(), center, radius)
}
