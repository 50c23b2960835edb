package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the world constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// World { title = "...", author = "..." }
	L.SetGlobal("World", L.NewFunction(func(L *lua.LState) int {
		coll.world = L.CheckTable(1)
		return 0
	}))

	// Map { "#####", "#   #", ... }
	L.SetGlobal("Map", L.NewFunction(func(L *lua.LState) int {
		coll.maps = append(coll.maps, L.CheckTable(1))
		return 0
	}))

	L.SetGlobal("CellType", curried(L, func(d rawDef) { coll.cellTypes = append(coll.cellTypes, d) }))
	L.SetGlobal("Agent", curried(L, func(d rawDef) { coll.agents = append(coll.agents, d) }))
	L.SetGlobal("Item", curried(L, func(d rawDef) { coll.items = append(coll.items, d) }))
	L.SetGlobal("Player", curried(L, func(d rawDef) { coll.players = append(coll.players, d) }))
}

// curried builds a constructor used as Kind "name" { ... }: the call with
// the name returns a function that takes the table.
func curried(L *lua.LState, add func(rawDef)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(rawDef{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	})
}
