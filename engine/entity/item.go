package entity

import "github.com/nathoo/gridsim/engine/contract"

// Item is a passive object. Ownership is derived from its Location: an
// item is owned exactly when an agent holds it.
type Item struct {
	base
}

// NewItem builds an item record. Worlds create items through their own
// AddItem so that ids stay dense.
func NewItem(id ItemID, name string, world WorldView) *Item {
	return &Item{base: base{id: int(id), name: name, world: world}}
}

func (it *Item) ID() ItemID    { return ItemID(it.id) }
func (it *Item) IsItem() bool  { return true }
func (it *Item) IsOwned() bool { return it.location.IsAgentID() }

// OwnerID returns the holding agent. The item must be owned.
func (it *Item) OwnerID() AgentID {
	contract.Require(it.IsOwned(), contract.ErrNotOwned,
		"Item.OwnerID", "item %d (%s) is at %v", it.id, it.name, it.location)
	return it.location.AsAgentID()
}

// SetOwner hands the item to an agent, replacing its whole location.
func (it *Item) SetOwner(id AgentID) {
	it.location = HeldBy(id)
}
