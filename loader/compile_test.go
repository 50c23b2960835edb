package loader

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"zeta.lua", "agents.lua", "world.lua", "items.lua"})
	want := []string{"world.lua", "agents.lua", "items.lua", "zeta.lua"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sortedLuaFiles = %v, want %v", got, want)
	}

	got = sortedLuaFiles([]string{"b.lua", "a.lua"})
	if !reflect.DeepEqual(got, []string{"a.lua", "b.lua"}) {
		t.Errorf("without world.lua: %v", got)
	}
}

func TestTableHelpers(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoString(`t = { name = "bat", fast = true, x = 3.9, weights = { up = 2, down = "x" } }`); err != nil {
		t.Fatal(err)
	}
	tbl := L.GetGlobal("t").(*lua.LTable)

	if got := getString(tbl, "name"); got != "bat" {
		t.Errorf("getString = %q", got)
	}
	if got := getString(tbl, "missing"); got != "" {
		t.Errorf("getString(missing) = %q", got)
	}
	if !getBool(tbl, "fast", false) || !getBool(tbl, "missing", true) {
		t.Error("getBool defaults wrong")
	}
	if got := getInt(tbl, "x"); got != 3 {
		t.Errorf("getInt truncation = %d, want 3", got)
	}
	if got := tableToIntMap(getTable(tbl, "weights")); !reflect.DeepEqual(got, map[string]int{"up": 2}) {
		t.Errorf("tableToIntMap = %v", got)
	}
	if tableToIntMap(getTable(tbl, "missing")) != nil {
		t.Error("tableToIntMap(nil) should be nil")
	}
}

func TestCompile_PlayerSymbolDefault(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	coll := &collector{}
	registerAPI(L, coll)
	if err := L.DoString(`World { title = "t" } Map { "  " } Player "P" { x = 1, y = 0 }`); err != nil {
		t.Fatal(err)
	}
	def, err := compile(coll)
	if err != nil {
		t.Fatal(err)
	}
	if def.Player.Symbol != "@" {
		t.Errorf("player symbol = %q, want @", def.Player.Symbol)
	}
}
