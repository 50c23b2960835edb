// Package worlds turns a loaded world definition into a running maze world
// populated with its agents and items.
package worlds

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/nathoo/gridsim/agents/pacer"
	"github.com/nathoo/gridsim/agents/scripted"
	"github.com/nathoo/gridsim/agents/wanderer"
	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
	"github.com/nathoo/gridsim/types"
	"github.com/nathoo/gridsim/worlds/maze"
)

// SpawnFunc adds the human-controlled agent to w.
type SpawnFunc func(w *engine.World, name string) entity.Agent

// Options configures Build.
type Options struct {
	Engine       []engine.Option
	VisionRadius float64
	Player       SpawnFunc // nil: the player is not added
}

// Built is a ready-to-run world.
type Built struct {
	World  *engine.World
	Rules  *maze.Rules
	Player entity.Agent // nil without a player
	Title  string
}

// Close releases agent resources such as script VMs.
func (b *Built) Close() {
	for _, a := range b.World.Agents() {
		if c, ok := a.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

// Default is the stock demo: the default maze with two vertical pacers,
// two horizontal guards and a player in the top-left corner.
func Default() *types.WorldDef {
	return &types.WorldDef{
		Title: "Maze",
		Map:   maze.DefaultMap,
		Agents: []types.AgentDef{
			{Name: "Pacer 1", Kind: types.KindPacer, X: 3, Y: 1},
			{Name: "Pacer 2", Kind: types.KindPacer, X: 6, Y: 1},
			{Name: "Guard 1", Kind: types.KindPacer, X: 7, Y: 7, Horizontal: true},
			{Name: "Guard 2", Kind: types.KindPacer, X: 8, Y: 8, Horizontal: true, Reverse: true},
		},
		Items: []types.ItemDef{
			{Name: "Lantern", X: 11, Y: 7},
		},
		Player: &types.PlayerDef{Name: "Interface", X: 1, Y: 1, Symbol: "@"},
	}
}

// Build creates the grid, rules and entities described by def. Agents are
// added in definition order, the player last; items follow so that owners
// can be resolved by name.
func Build(def *types.WorldDef, opts Options) (*Built, error) {
	g := newGrid(def)

	var blocking []string
	for _, ct := range def.CellTypes {
		if ct.Blocking {
			blocking = append(blocking, ct.Name)
		}
	}
	rules := maze.NewRules(g, maze.WithBlocking(blocking...), maze.WithVisionRadius(opts.VisionRadius))
	w := engine.New(rules, append([]engine.Option{engine.WithGrid(g)}, opts.Engine...)...)
	b := &Built{World: w, Rules: rules, Title: def.Title}

	byName := map[string]entity.AgentID{}
	for _, ad := range def.Agents {
		a, err := addAgent(w, def.Dir, ad)
		if err != nil {
			b.Close()
			return nil, err
		}
		place(a, ad.X, ad.Y, ad.Symbol)
		byName[ad.Name] = a.ID()
	}

	if p := def.Player; p != nil && opts.Player != nil {
		b.Player = opts.Player(w, p.Name)
		place(b.Player, p.X, p.Y, p.Symbol)
		byName[p.Name] = b.Player.ID()
	}

	for _, id := range def.Items {
		item := w.AddItem(id.Name)
		if id.Owner == "" {
			item.SetLocation(entity.At(grid.Pos(id.X, id.Y)))
			continue
		}
		owner, ok := byName[id.Owner]
		if !ok {
			b.Close()
			return nil, fmt.Errorf("item %q: unknown owner %q", id.Name, id.Owner)
		}
		item.SetOwner(owner)
	}

	w.Logger().WithField("title", def.Title).Info("World built.")
	return b, nil
}

func newGrid(def *types.WorldDef) *grid.Grid {
	if len(def.CellTypes) == 0 {
		return maze.NewGrid(def.Map)
	}
	g := grid.New(0, 0, grid.Unknown)
	for _, ct := range def.CellTypes {
		r, _ := utf8.DecodeRuneInString(ct.Symbol)
		g.AddCellType(ct.Name, ct.Desc, r)
	}
	g.Load(def.Map)
	return g
}

func addAgent(w *engine.World, dir string, ad types.AgentDef) (entity.Agent, error) {
	switch ad.Kind {
	case types.KindPacer:
		p := engine.AddAgent(w, ad.Name, pacer.New)
		if ad.Horizontal {
			p.SetHorizontal()
		}
		if ad.Reverse {
			p.ToggleDirection()
		}
		return p, nil
	case types.KindWanderer:
		wa := engine.AddAgent(w, ad.Name, wanderer.New(w.RNG()))
		for name, weight := range ad.Weights {
			wa.SetWeight(name, weight)
		}
		return wa, nil
	case types.KindScript:
		prog := scripted.Program{Path: ad.Script, Source: ad.Source}
		if prog.Path != "" && !filepath.IsAbs(prog.Path) {
			prog.Path = filepath.Join(dir, prog.Path)
		}
		return engine.AddAgent(w, ad.Name, scripted.New(prog, w.Logger())), nil
	}
	return nil, fmt.Errorf("agent %q: unknown kind %q", ad.Name, ad.Kind)
}

func place(a entity.Agent, x, y int, symbol string) {
	a.SetLocation(entity.At(grid.Pos(x, y)))
	if r, _ := utf8.DecodeRuneInString(symbol); symbol != "" {
		a.SetSymbol(r)
	}
}
