// Package entity defines the objects placed in a world: the shared Entity
// record, passive Items, and the Agent contract every active participant
// implements.
package entity

// WorldView is the part of the owning world an entity may consult. It is
// a non-owning back-reference; the world owns every entity it creates.
type WorldView interface {
	Agent(id AgentID) Agent
	Item(id ItemID) *Item
	NumAgents() int
	NumItems() int
	KnownAgents(a Agent) []AgentID
	KnownItems(a Agent) []ItemID
	Round() int
	Stop()
}

// Entity is the behaviour shared by items and agents.
type Entity interface {
	Name() string
	SetName(name string)
	Location() Location
	SetLocation(loc Location)
	World() WorldView

	IsAgent() bool
	IsItem() bool
	IsInterface() bool
}

// base holds the identity record embedded by Item and AgentBase.
type base struct {
	id       int
	name     string
	location Location
	world    WorldView
}

func (b *base) Name() string             { return b.name }
func (b *base) SetName(name string)      { b.name = name }
func (b *base) Location() Location       { return b.location }
func (b *base) SetLocation(loc Location) { b.location = loc }
func (b *base) World() WorldView         { return b.world }

func (b *base) IsAgent() bool     { return false }
func (b *base) IsItem() bool      { return false }
func (b *base) IsInterface() bool { return false }
