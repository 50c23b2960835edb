package entity

import (
	"context"
	"sort"

	"github.com/nathoo/gridsim/engine/contract"
	"github.com/nathoo/gridsim/engine/grid"
)

// ActionID is an opaque, world-defined action identifier.
type ActionID int

// NoAction is always "do nothing". Worlds must not register it by name.
const NoAction ActionID = 0

// DefaultSymbol is the display rune of an agent that never set one.
const DefaultSymbol = '*'

// Agent is an active participant in a world. Concrete agents embed
// *AgentBase and supply SelectAction.
type Agent interface {
	Entity

	ID() AgentID
	Symbol() rune
	SetSymbol(r rune)

	// Initialize runs after the world has configured the agent.
	Initialize() error

	AddAction(name string, id ActionID)
	HasAction(name string) bool
	ActionID(name string) ActionID
	LookupAction(name string) (ActionID, bool)
	ActionNames() []string

	ActionResult() int
	SetActionResult(result int)

	// SelectAction returns the next action given the grid the agent can
	// observe. It is called synchronously within the turn; an agent backed
	// by a human controller may block here until input arrives.
	SelectAction(g grid.Reader) ActionID

	// Notify delivers a best-effort message, such as "blocked" with
	// category "movement".
	Notify(message, category string)
}

// ContextSelector is implemented by agents that can abandon a decision
// when the run is cancelled.
type ContextSelector interface {
	SelectActionContext(ctx context.Context, g grid.Reader) (ActionID, error)
}

// AgentBase implements everything in Agent except SelectAction.
type AgentBase struct {
	base
	actions map[string]ActionID
	result  int
	symbol  rune
}

// NewAgentBase builds the common agent state. Worlds call it from AddAgent.
func NewAgentBase(id AgentID, name string, world WorldView) *AgentBase {
	return &AgentBase{
		base:    base{id: int(id), name: name, world: world},
		actions: map[string]ActionID{},
		result:  1,
		symbol:  DefaultSymbol,
	}
}

func (a *AgentBase) ID() AgentID      { return AgentID(a.id) }
func (a *AgentBase) IsAgent() bool    { return true }
func (a *AgentBase) Symbol() rune     { return a.symbol }
func (a *AgentBase) SetSymbol(r rune) { a.symbol = r }
func (a *AgentBase) Initialize() error {
	return nil
}

// AddAction registers a named action. Action tables are built once during
// setup, so registering a name twice is a contract violation.
func (a *AgentBase) AddAction(name string, id ActionID) {
	contract.Require(!a.HasAction(name), contract.ErrDuplicate,
		"Agent.AddAction", "agent %q already has action %q", a.name, name)
	a.actions[name] = id
}

func (a *AgentBase) HasAction(name string) bool {
	_, ok := a.actions[name]
	return ok
}

// LookupAction returns the id registered for name.
func (a *AgentBase) LookupAction(name string) (ActionID, bool) {
	id, ok := a.actions[name]
	return id, ok
}

// ActionID returns the id registered for name, or NoAction.
func (a *AgentBase) ActionID(name string) ActionID {
	return a.actions[name]
}

// ActionNames lists the registered action names in sorted order.
func (a *AgentBase) ActionNames() []string {
	names := make([]string, 0, len(a.actions))
	for name := range a.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActionResult is the outcome of the most recent action: 0 is failure,
// anything else is success.
func (a *AgentBase) ActionResult() int          { return a.result }
func (a *AgentBase) SetActionResult(result int) { a.result = result }

func (a *AgentBase) Notify(message, category string) {}

// InterfaceBase is an agent whose decisions come from an external
// controller, usually a human. The world treats it like any other agent.
type InterfaceBase struct {
	*AgentBase
}

// NewInterfaceBase builds the common state for a controller-backed agent.
func NewInterfaceBase(id AgentID, name string, world WorldView) *InterfaceBase {
	return &InterfaceBase{AgentBase: NewAgentBase(id, name, world)}
}

func (i *InterfaceBase) IsInterface() bool { return true }
