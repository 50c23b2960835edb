// Package engine runs a grid world one round at a time: every agent picks
// an action in creation order, the world's Rules apply it, and then the
// rules get one background update.
package engine

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/gridsim/engine/contract"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/events"
	"github.com/nathoo/gridsim/engine/grid"
)

// World owns the grid, the items and the agents, and runs the turn loop.
// It is not safe for concurrent use; turns are strictly sequential.
type World struct {
	grid   *grid.Grid
	items  []*entity.Item
	agents []entity.Agent
	rules  Rules

	log    logrus.FieldLogger
	rng    *RNG
	events *events.Buffer

	round     int
	maxRounds int
	runOver   bool
}

var _ entity.WorldView = (*World)(nil)

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *World) { w.log = l }
}

// WithGrid replaces the initial empty grid.
func WithGrid(g *grid.Grid) Option {
	return func(w *World) { w.grid = g }
}

// WithSeed seeds the world RNG.
func WithSeed(seed int64) Option {
	return func(w *World) { w.rng = NewRNG(seed) }
}

// WithMaxRounds ends Run after n rounds. Zero means no limit.
func WithMaxRounds(n int) Option {
	return func(w *World) { w.maxRounds = n }
}

// WithEventCapacity sizes the turn event buffer. Zero or less keeps
// events.DefaultCapacity.
func WithEventCapacity(n int) Option {
	return func(w *World) { w.events = events.NewBuffer(n) }
}

// New creates a world governed by rules.
func New(rules Rules, opts ...Option) *World {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	w := &World{
		grid:   grid.New(0, 0, grid.Unknown),
		rules:  rules,
		log:    quiet,
		rng:    NewRNG(0),
		events: events.NewBuffer(events.DefaultCapacity),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ---- Accessors ----

// Grid returns the world's main grid.
func (w *World) Grid() *grid.Grid           { return w.grid }
func (w *World) Rules() Rules               { return w.rules }
func (w *World) Logger() logrus.FieldLogger { return w.log }
func (w *World) RNG() *RNG                  { return w.rng }
func (w *World) Events() *events.Buffer     { return w.events }
func (w *World) NumAgents() int             { return len(w.agents) }
func (w *World) NumItems() int              { return len(w.items) }
func (w *World) Round() int                 { return w.round }
func (w *World) SetRound(n int)             { w.round = n }
func (w *World) IsRunOver() bool            { return w.runOver }
func (w *World) Stop()                      { w.runOver = true }
func (w *World) MaxRounds() int             { return w.maxRounds }

// Agent returns the agent with the given id.
func (w *World) Agent(id entity.AgentID) entity.Agent {
	contract.Require(id >= 0 && int(id) < len(w.agents), contract.ErrUnknownID,
		"World.Agent", "agent %d (have %d)", id, len(w.agents))
	return w.agents[id]
}

// Item returns the item with the given id.
func (w *World) Item(id entity.ItemID) *entity.Item {
	contract.Require(id >= 0 && int(id) < len(w.items), contract.ErrUnknownID,
		"World.Item", "item %d (have %d)", id, len(w.items))
	return w.items[id]
}

// Agents returns the agents in creation order.
func (w *World) Agents() []entity.Agent {
	out := make([]entity.Agent, len(w.agents))
	copy(out, w.agents)
	return out
}

// Items returns the items in creation order.
func (w *World) Items() []*entity.Item {
	out := make([]*entity.Item, len(w.items))
	copy(out, w.items)
	return out
}

// ---- Entity creation ----

// AddAgent creates an agent. build wraps the common state in a concrete
// agent type. The rules configure the agent, then Initialize runs; a failed
// Initialize is logged and the agent is added anyway.
func (w *World) AddAgent(name string, build func(*entity.AgentBase) entity.Agent) entity.Agent {
	id := entity.AgentID(len(w.agents))
	agent := build(entity.NewAgentBase(id, name, w))
	contract.Require(agent != nil && agent.ID() == id, contract.ErrUnknownID,
		"World.AddAgent", "agent %q must embed the AgentBase it was built with", name)

	w.rules.ConfigAgent(w, agent)
	if err := agent.Initialize(); err != nil {
		w.log.WithFields(logrus.Fields{
			"agent_id":   id,
			"agent_name": name,
			"error":      err,
		}).Warn("Failed to initialize agent.")
	}
	w.agents = append(w.agents, agent)
	w.log.WithFields(logrus.Fields{"agent_id": id, "agent_name": name}).Debug("Agent added.")
	return agent
}

// AddAgent is World.AddAgent returning the concrete agent type.
func AddAgent[T entity.Agent](w *World, name string, build func(*entity.AgentBase) T) T {
	return w.AddAgent(name, func(b *entity.AgentBase) entity.Agent { return build(b) }).(T)
}

// AddItem creates an item at grid position (0,0).
func (w *World) AddItem(name string) *entity.Item {
	item := entity.NewItem(entity.ItemID(len(w.items)), name, w)
	w.items = append(w.items, item)
	return item
}

// ---- Turn loop ----

// RunAgents gives every agent one turn, in creation order.
func (w *World) RunAgents() {
	for _, agent := range w.agents {
		w.apply(agent, agent.SelectAction(w.ObservableGrid(agent)))
	}
}

func (w *World) apply(agent entity.Agent, action entity.ActionID) {
	result := w.rules.DoAction(w, agent, action)
	agent.SetActionResult(result)
	w.events.Record(events.Event{
		Round:     w.round,
		Agent:     agent.ID(),
		AgentName: agent.Name(),
		Action:    action,
		Result:    result,
	})
}

// UpdateWorld runs the rules' background update.
func (w *World) UpdateWorld() {
	w.rules.UpdateWorld(w)
}

// Step runs a single round.
func (w *World) Step() {
	w.RunAgents()
	w.UpdateWorld()
	w.endRound()
}

func (w *World) endRound() {
	w.log.WithField("round", w.round).Debug("Round complete.")
	w.round++
	if w.maxRounds > 0 && w.round >= w.maxRounds {
		w.runOver = true
	}
}

// Run clears the stop flag and runs rounds until something calls Stop.
// An agent waiting on a human blocks the whole world.
func (w *World) Run() {
	w.runOver = false
	for !w.runOver {
		w.Step()
	}
}

// RunContext is Run with cancellation. The context is checked before every
// agent turn, and agents implementing entity.ContextSelector receive it.
// A cancelled run stops mid-round and returns the context error.
func (w *World) RunContext(ctx context.Context) error {
	w.runOver = false
	for !w.runOver {
		if err := w.StepContext(ctx); err != nil {
			return err
		}
	}
	return nil
}

// StepContext runs a single round with cancellation.
func (w *World) StepContext(ctx context.Context) error {
	for _, agent := range w.agents {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := w.ObservableGrid(agent)
		var action entity.ActionID
		if cs, ok := agent.(entity.ContextSelector); ok {
			var err error
			if action, err = cs.SelectActionContext(ctx, view); err != nil {
				return err
			}
		} else {
			action = agent.SelectAction(view)
		}
		w.apply(agent, action)
	}
	w.UpdateWorld()
	w.endRound()
	return nil
}

// ---- Perception ----

// ObservableGrid returns the grid agent may see.
func (w *World) ObservableGrid(agent entity.Agent) grid.Reader {
	if p, ok := w.rules.(Perception); ok {
		return p.ObservableGrid(w, agent)
	}
	return w.grid
}

// KnownAgents lists the ids of the agents that agent is aware of.
func (w *World) KnownAgents(agent entity.Agent) []entity.AgentID {
	if p, ok := w.rules.(Perception); ok {
		return p.KnownAgents(w, agent)
	}
	ids := make([]entity.AgentID, len(w.agents))
	for i, a := range w.agents {
		ids[i] = a.ID()
	}
	return ids
}

// KnownItems lists the ids of the items that agent is aware of.
func (w *World) KnownItems(agent entity.Agent) []entity.ItemID {
	if p, ok := w.rules.(Perception); ok {
		return p.KnownItems(w, agent)
	}
	ids := make([]entity.ItemID, len(w.items))
	for i, it := range w.items {
		ids[i] = it.ID()
	}
	return ids
}

// ---- Queries used by rules and controllers ----

// ItemsAt returns the items lying on the grid in the same cell as pos.
func (w *World) ItemsAt(pos grid.Position) []*entity.Item {
	var out []*entity.Item
	for _, it := range w.items {
		if loc := it.Location(); loc.IsPosition() && loc.AsPosition().SameCell(pos) {
			out = append(out, it)
		}
	}
	return out
}

// ItemsHeldBy returns the items owned by agent id.
func (w *World) ItemsHeldBy(id entity.AgentID) []*entity.Item {
	var out []*entity.Item
	for _, it := range w.items {
		if it.IsOwned() && it.OwnerID() == id {
			out = append(out, it)
		}
	}
	return out
}

// AgentAt returns the first agent standing in the same cell as pos.
func (w *World) AgentAt(pos grid.Position) (entity.Agent, bool) {
	for _, a := range w.agents {
		if loc := a.Location(); loc.IsPosition() && loc.AsPosition().SameCell(pos) {
			return a, true
		}
	}
	return nil, false
}

// Broadcast notifies every agent.
func (w *World) Broadcast(message, category string) {
	for _, a := range w.agents {
		a.Notify(message, category)
	}
}
