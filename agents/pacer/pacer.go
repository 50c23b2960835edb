// Package pacer provides an agent that walks back and forth along one axis,
// turning around whenever a step fails.
package pacer

import (
	"fmt"
	"strings"

	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
)

// Agent paces vertically by default.
type Agent struct {
	*entity.AgentBase
	horizontal bool
	reverse    bool
}

// New wraps base; use it as the build function for engine.AddAgent.
func New(base *entity.AgentBase) *Agent {
	return &Agent{AgentBase: base}
}

// SetHorizontal switches pacing to the left/right axis.
func (a *Agent) SetHorizontal() *Agent {
	a.horizontal = true
	return a
}

// ToggleDirection turns the agent around.
func (a *Agent) ToggleDirection() *Agent {
	a.reverse = !a.reverse
	return a
}

func (a *Agent) IsHorizontal() bool { return a.horizontal }
func (a *Agent) IsReversed() bool   { return a.reverse }

// Initialize fails when the world did not provide the moves on both axes.
func (a *Agent) Initialize() error {
	var missing []string
	for _, name := range []string{"up", "down", "left", "right"} {
		if !a.HasAction(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("pacer %q: missing actions %s", a.Name(), strings.Join(missing, ", "))
	}
	return nil
}

// SelectAction reverses after a failed move, then steps along the axis.
func (a *Agent) SelectAction(grid.Reader) entity.ActionID {
	if a.ActionResult() == 0 {
		a.reverse = !a.reverse
	}
	switch {
	case a.horizontal && a.reverse:
		return a.ActionID("left")
	case a.horizontal:
		return a.ActionID("right")
	case a.reverse:
		return a.ActionID("up")
	default:
		return a.ActionID("down")
	}
}
