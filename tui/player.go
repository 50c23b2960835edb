package tui

import (
	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
)

// Player is the agent the TUI drives. Its SelectAction never blocks: the
// model queues an action and then steps the world.
type Player struct {
	*entity.InterfaceBase
	next  entity.ActionID
	notes []string
}

// Spawn adds a Player to w. It matches worlds.SpawnFunc.
func Spawn(w *engine.World, name string) entity.Agent {
	return engine.AddAgent(w, name, func(b *entity.AgentBase) *Player {
		return &Player{InterfaceBase: &entity.InterfaceBase{AgentBase: b}}
	})
}

// Queue sets the action taken on the next turn.
func (p *Player) Queue(id entity.ActionID) { p.next = id }

// SelectAction returns the queued action once, then NoAction.
func (p *Player) SelectAction(grid.Reader) entity.ActionID {
	id := p.next
	p.next = entity.NoAction
	return id
}

func (p *Player) Notify(message, category string) {
	p.notes = append(p.notes, message)
}

// TakeNotes returns and clears the pending notifications.
func (p *Player) TakeNotes() []string {
	notes := p.notes
	p.notes = nil
	return notes
}
