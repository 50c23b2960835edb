package engine

import (
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
)

// Rules is the world-specific policy the turn engine delegates to.
type Rules interface {
	// ConfigAgent runs once for every new agent, before Initialize, and
	// typically registers the world's action vocabulary.
	ConfigAgent(w *World, a entity.Agent)

	// DoAction validates and applies an action. It returns non-zero iff
	// the action was applied; a zero result must leave all state unchanged.
	DoAction(w *World, a entity.Agent, action entity.ActionID) int

	// UpdateWorld runs once per round after every agent has acted.
	UpdateWorld(w *World)
}

// BaseRules provides no-op ConfigAgent and UpdateWorld for embedding.
type BaseRules struct{}

func (BaseRules) ConfigAgent(*World, entity.Agent) {}
func (BaseRules) UpdateWorld(*World)               {}

// Perception is implemented by rules that limit what agents can observe.
// Without it every agent sees the whole grid, every agent and every item.
type Perception interface {
	ObservableGrid(w *World, a entity.Agent) grid.Reader
	KnownAgents(w *World, a entity.Agent) []entity.AgentID
	KnownItems(w *World, a entity.Agent) []entity.ItemID
}
