package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
)

// fixed performs a preset action every turn and records notifications.
type fixed struct {
	*entity.AgentBase
	action entity.ActionID
	notes  []string
}

func (f *fixed) SelectAction(grid.Reader) entity.ActionID { return f.action }
func (f *fixed) Notify(msg, category string)              { f.notes = append(f.notes, category+": "+msg) }

func addFixed(w *engine.World, name string, at grid.Position, action entity.ActionID) *fixed {
	a := engine.AddAgent(w, name, func(b *entity.AgentBase) *fixed {
		return &fixed{AgentBase: b, action: action}
	})
	a.SetLocation(entity.At(at))
	return a
}

func TestNewGrid_DefaultMap(t *testing.T) {
	g := NewGrid(nil)
	assert.Equal(t, 23, g.Width())
	assert.Equal(t, 11, g.Height())
	assert.Equal(t, DefaultMap, g.Rows())
	assert.Equal(t, g.CellTypeID(Wall), g.At(0, 0))
	assert.Equal(t, g.CellTypeID(Floor), g.At(1, 1))
}

func TestDoAction_Moves(t *testing.T) {
	tests := []struct {
		name   string
		from   grid.Position
		action entity.ActionID
		want   grid.Position
		result int
	}{
		{"stay", grid.Pos(1, 1), RemainStill, grid.Pos(1, 1), 1},
		{"down", grid.Pos(1, 1), MoveDown, grid.Pos(1, 2), 1},
		{"up into wall", grid.Pos(1, 1), MoveUp, grid.Pos(1, 1), 0},
		{"left into wall", grid.Pos(1, 1), MoveLeft, grid.Pos(1, 1), 0},
		{"right into wall", grid.Pos(1, 1), MoveRight, grid.Pos(1, 1), 0},
		{"right on floor", grid.Pos(3, 1), MoveRight, grid.Pos(4, 1), 1},
		{"unknown action", grid.Pos(3, 1), 99, grid.Pos(3, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := NewWorld()
			a := addFixed(w, "A", tt.from, tt.action)
			w.RunAgents()
			assert.Equal(t, tt.result, a.ActionResult())
			assert.Equal(t, tt.want, a.Location().AsPosition())
		})
	}
}

func TestDoAction_OffMap(t *testing.T) {
	g := NewGrid([]string{"  "})
	w := engine.New(NewRules(g), engine.WithGrid(g))
	a := addFixed(w, "A", grid.Pos(1, 0), MoveRight)
	w.RunAgents()
	assert.Equal(t, 0, a.ActionResult())
	assert.Equal(t, grid.Pos(1, 0), a.Location().AsPosition())
	assert.Equal(t, []string{"movement: You can't go that way."}, a.notes)
}

func TestDoAction_CorridorScenario(t *testing.T) {
	g := NewGrid([]string{"# #"})
	require.Equal(t, []grid.CellTypeID{2, 1, 2}, g.Cells())
	w := engine.New(NewRules(g), engine.WithGrid(g))
	a := addFixed(w, "A", grid.Pos(1, 0), MoveLeft)
	w.RunAgents()
	assert.Equal(t, 0, a.ActionResult())
	assert.Equal(t, grid.Pos(1, 0), a.Location().AsPosition())
}

func TestWithBlocking(t *testing.T) {
	g := NewGrid([]string{" ~ "})
	water := g.AddCellType("water", "Deep water.", '~')
	g.Load([]string{" ~ "})

	open := NewRules(g)
	assert.False(t, open.Blocks(water))

	closed := NewRules(g, WithBlocking("water", "lava"))
	assert.True(t, closed.Blocks(water))
	assert.True(t, closed.Blocks(g.CellTypeID(Wall)))

	w := engine.New(closed, engine.WithGrid(g))
	a := addFixed(w, "A", grid.Pos(0, 0), MoveRight)
	w.RunAgents()
	assert.Equal(t, 0, a.ActionResult())
}

func TestTakeAndDrop(t *testing.T) {
	w, _ := NewWorld()
	a := addFixed(w, "A", grid.Pos(3, 1), Take)
	key := w.AddItem("Key")
	key.SetLocation(entity.At(grid.Pos(3, 1)))

	w.RunAgents()
	assert.Equal(t, 1, a.ActionResult())
	require.True(t, key.IsOwned())
	assert.Equal(t, a.ID(), key.OwnerID())

	w.RunAgents()
	assert.Equal(t, 0, a.ActionResult(), "nothing left to take")

	a.SetLocation(entity.At(grid.Pos(5, 1)))
	a.action = Drop
	w.RunAgents()
	assert.Equal(t, 1, a.ActionResult())
	assert.False(t, key.IsOwned())
	assert.Equal(t, grid.Pos(5, 1), key.Location().AsPosition())

	w.RunAgents()
	assert.Equal(t, 0, a.ActionResult(), "hands are empty")
	assert.Equal(t, []string{
		"item: Taken: Key.",
		"item: There is nothing here to take.",
		"item: Dropped: Key.",
		"item: You aren't carrying anything.",
	}, a.notes)
}

func TestPerception_Unlimited(t *testing.T) {
	w, rules := NewWorld()
	a := addFixed(w, "A", grid.Pos(1, 1), RemainStill)
	addFixed(w, "B", grid.Pos(20, 8), RemainStill)
	w.AddItem("Coin").SetLocation(entity.At(grid.Pos(18, 7)))

	assert.Same(t, w.Grid(), rules.ObservableGrid(w, a))
	assert.Equal(t, []entity.AgentID{0, 1}, w.KnownAgents(a))
	assert.Equal(t, []entity.ItemID{0}, w.KnownItems(a))
}

func TestPerception_VisionRadius(t *testing.T) {
	g := NewGrid(nil)
	w := engine.New(NewRules(g, WithVisionRadius(2)), engine.WithGrid(g))
	a := addFixed(w, "A", grid.Pos(3, 1), RemainStill)
	addFixed(w, "Near", grid.Pos(4, 2), RemainStill)
	addFixed(w, "Far", grid.Pos(20, 8), RemainStill)
	near := w.AddItem("Near coin")
	near.SetLocation(entity.At(grid.Pos(5, 1)))
	w.AddItem("Far coin").SetLocation(entity.At(grid.Pos(18, 7)))
	held := w.AddItem("Pocket lint")
	held.SetOwner(a.ID())

	view := w.ObservableGrid(a)
	assert.Equal(t, g.CellTypeID(Wall), view.At(2, 1))
	assert.Equal(t, grid.Unknown, view.At(10, 5))

	assert.Equal(t, []entity.AgentID{0, 1}, w.KnownAgents(a))
	assert.Equal(t, []entity.ItemID{near.ID(), held.ID()}, w.KnownItems(a))
}

func TestWithVisionRadius_NonPositiveIsUnlimited(t *testing.T) {
	g := NewGrid(nil)
	rules := NewRules(g, WithVisionRadius(0))
	assert.True(t, rules.VisionRadius() > 1e300)
}
