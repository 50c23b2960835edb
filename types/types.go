// Package types defines the shared data structures for gridsim: world
// definitions produced by the loader and parsed player commands.
// This package contains only type definitions, no logic.
package types

// Command is the parsed representation of one line of player input.
type Command struct {
	Action string   // world action name ("up", "take"), empty for meta commands
	Meta   string   // meta command without the slash ("save", "quit")
	Args   []string // meta command arguments
	Raw    string   // input as typed, trimmed
}

// WorldDef is a complete world definition loaded from Lua.
type WorldDef struct {
	Title     string
	Author    string
	CellTypes []CellTypeDef
	Map       []string
	Agents    []AgentDef
	Items     []ItemDef
	Player    *PlayerDef // nil when the world has no human player
	Dir       string     // directory scripts are resolved against
	Warnings  []string   // non-fatal problems found by validation
}

// CellTypeDef declares one cell type. Symbol must be a single character.
type CellTypeDef struct {
	Name     string
	Symbol   string
	Desc     string
	Blocking bool
}

// Agent kinds understood by the world builder.
const (
	KindPacer    = "pacer"
	KindWanderer = "wanderer"
	KindScript   = "script"
)

// AgentDef declares a non-player agent.
type AgentDef struct {
	Name       string
	Kind       string
	X, Y       int
	Symbol     string
	Horizontal bool           // pacer
	Reverse    bool           // pacer
	Weights    map[string]int // wanderer
	Script     string         // script: path to a .lua file
	Source     string         // script: inline Lua source
}

// ItemDef declares an item lying at (X, Y) or held by the agent named Owner.
type ItemDef struct {
	Name  string
	X, Y  int
	Owner string
}

// PlayerDef places the human-controlled agent.
type PlayerDef struct {
	Name   string
	X, Y   int
	Symbol string
}
