package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/gridsim/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToIntMap converts a Lua table of name = number pairs.
func tableToIntMap(tbl *lua.LTable) map[string]int {
	if tbl == nil {
		return nil
	}
	m := map[string]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if n, ok := v.(lua.LNumber); ok {
				m[string(ks)] = int(n)
			}
		}
	})
	return m
}

// compile converts all collected Lua data into a WorldDef.
func compile(coll *collector) (*types.WorldDef, error) {
	if coll.world == nil {
		return nil, fmt.Errorf("no World{} definition found")
	}
	def := &types.WorldDef{
		Title:  getString(coll.world, "title"),
		Author: getString(coll.world, "author"),
	}

	switch len(coll.maps) {
	case 0:
	case 1:
		rows, err := compileMap(coll.maps[0])
		if err != nil {
			return nil, err
		}
		def.Map = rows
	default:
		return nil, fmt.Errorf("Map defined %d times, want one", len(coll.maps))
	}

	for _, raw := range coll.cellTypes {
		def.CellTypes = append(def.CellTypes, types.CellTypeDef{
			Name:     raw.name,
			Symbol:   getString(raw.table, "symbol"),
			Desc:     getString(raw.table, "desc"),
			Blocking: getBool(raw.table, "blocking", false),
		})
	}

	for _, raw := range coll.agents {
		def.Agents = append(def.Agents, compileAgent(raw))
	}

	for _, raw := range coll.items {
		def.Items = append(def.Items, types.ItemDef{
			Name:  raw.name,
			X:     getInt(raw.table, "x"),
			Y:     getInt(raw.table, "y"),
			Owner: getString(raw.table, "owner"),
		})
	}

	switch len(coll.players) {
	case 0:
	case 1:
		raw := coll.players[0]
		def.Player = &types.PlayerDef{
			Name:   raw.name,
			X:      getInt(raw.table, "x"),
			Y:      getInt(raw.table, "y"),
			Symbol: getString(raw.table, "symbol"),
		}
		if def.Player.Symbol == "" {
			def.Player.Symbol = "@"
		}
	default:
		return nil, fmt.Errorf("Player defined %d times, want at most one", len(coll.players))
	}

	return def, nil
}

func compileMap(tbl *lua.LTable) ([]string, error) {
	rows := make([]string, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("Map row %d is %s, want a string", i, tbl.RawGetInt(i).Type())
		}
		rows = append(rows, string(s))
	}
	return rows, nil
}

func compileAgent(raw rawDef) types.AgentDef {
	tbl := raw.table
	return types.AgentDef{
		Name:       raw.name,
		Kind:       getString(tbl, "kind"),
		X:          getInt(tbl, "x"),
		Y:          getInt(tbl, "y"),
		Symbol:     getString(tbl, "symbol"),
		Horizontal: getBool(tbl, "horizontal", false),
		Reverse:    getBool(tbl, "reverse", false),
		Weights:    tableToIntMap(getTable(tbl, "weights")),
		Script:     getString(tbl, "script"),
		Source:     getString(tbl, "source"),
	}
}

// sortedLuaFiles returns .lua files with world.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var worldFile string
	var others []string
	for _, f := range files {
		if f == "world.lua" {
			worldFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if worldFile != "" {
		return append([]string{worldFile}, others...)
	}
	return others
}
