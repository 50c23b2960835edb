// Package wanderer provides an agent that picks a random registered action
// every turn. Randomness comes from the world RNG so runs stay replayable.
package wanderer

import (
	"errors"

	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
)

// Agent wanders. Actions default to weight 1; a weight of 0 disables one.
type Agent struct {
	*entity.AgentBase
	rng     *engine.RNG
	weights map[string]int
}

// New returns a build function for engine.AddAgent that draws from rng.
func New(rng *engine.RNG) func(*entity.AgentBase) *Agent {
	return func(base *entity.AgentBase) *Agent {
		return &Agent{AgentBase: base, rng: rng, weights: map[string]int{}}
	}
}

// SetWeight changes how likely the named action is relative to the others.
func (a *Agent) SetWeight(name string, weight int) *Agent {
	a.weights[name] = max(weight, 0)
	return a
}

func (a *Agent) weight(name string) int {
	if w, ok := a.weights[name]; ok {
		return w
	}
	return 1
}

// Initialize fails when the agent has nothing to choose from.
func (a *Agent) Initialize() error {
	if len(a.ActionNames()) == 0 {
		return errors.New("wanderer has no actions")
	}
	return nil
}

// SelectAction draws one action by weight. With every weight at zero the
// agent stays put.
func (a *Agent) SelectAction(grid.Reader) entity.ActionID {
	var names []string
	var weights []int
	for _, name := range a.ActionNames() {
		if w := a.weight(name); w > 0 {
			names = append(names, name)
			weights = append(weights, w)
		}
	}
	if len(names) == 0 {
		return entity.NoAction
	}
	return a.ActionID(names[a.rng.WeightedSelect(weights)])
}
