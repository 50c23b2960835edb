package entity

import (
	"fmt"

	"github.com/nathoo/gridsim/engine/contract"
	"github.com/nathoo/gridsim/engine/grid"
)

// AgentID identifies an agent within its world. Agent ids are dense and
// assigned in creation order starting at 0.
type AgentID int

// ItemID identifies an item within its world. Item ids are numbered
// independently of agent ids.
type ItemID int

type locationKind uint8

const (
	onGrid locationKind = iota
	inItem
	heldByAgent
)

// Location says where an entity is: on the grid, inside an item, or held
// by an agent. Exactly one of the three is active. The zero value is the
// grid position (0,0).
type Location struct {
	kind locationKind
	pos  grid.Position
	id   int
}

// At places an entity on the grid.
func At(pos grid.Position) Location {
	return Location{kind: onGrid, pos: pos}
}

// InItem places an entity inside an item.
func InItem(id ItemID) Location {
	return Location{kind: inItem, id: int(id)}
}

// HeldBy places an entity in an agent's possession.
func HeldBy(id AgentID) Location {
	return Location{kind: heldByAgent, id: int(id)}
}

func (l Location) IsPosition() bool { return l.kind == onGrid }
func (l Location) IsItemID() bool   { return l.kind == inItem }
func (l Location) IsAgentID() bool  { return l.kind == heldByAgent }

// AsPosition returns the grid position. The location must be on the grid.
func (l Location) AsPosition() grid.Position {
	contract.Require(l.IsPosition(), contract.ErrTypeMismatch,
		"Location.AsPosition", "location is %v", l)
	return l.pos
}

// AsItemID returns the containing item. The location must be inside an item.
func (l Location) AsItemID() ItemID {
	contract.Require(l.IsItemID(), contract.ErrTypeMismatch,
		"Location.AsItemID", "location is %v", l)
	return ItemID(l.id)
}

// AsAgentID returns the holding agent. The location must be held by an agent.
func (l Location) AsAgentID() AgentID {
	contract.Require(l.IsAgentID(), contract.ErrTypeMismatch,
		"Location.AsAgentID", "location is %v", l)
	return AgentID(l.id)
}

func (l Location) String() string {
	switch l.kind {
	case inItem:
		return fmt.Sprintf("item#%d", l.id)
	case heldByAgent:
		return fmt.Sprintf("agent#%d", l.id)
	default:
		return "pos" + l.pos.String()
	}
}
