// Package loader reads Lua world definitions into a types.WorldDef.
// The Lua VM is discarded after loading; agent scripts get their own.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/gridsim/loader/sandbox"
	"github.com/nathoo/gridsim/types"
)

// rawDef is one curried constructor call: Kind "name" { ... }.
type rawDef struct {
	name  string
	table *lua.LTable
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	world     *lua.LTable
	cellTypes []rawDef
	maps      []*lua.LTable
	agents    []rawDef
	items     []rawDef
	players   []rawDef
}

// Load reads a world definition. path is either a single .lua file or a
// directory of them, executed with world.lua first and the rest in
// alphabetical order.
func Load(path string) (*types.WorldDef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading world %s: %w", path, err)
	}

	var dir string
	var luaFiles []string
	if info.IsDir() {
		dir = path
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
				luaFiles = append(luaFiles, e.Name())
			}
		}
		if len(luaFiles) == 0 {
			return nil, fmt.Errorf("no .lua files found in %s", dir)
		}
		luaFiles = sortedLuaFiles(luaFiles)
	} else {
		dir = filepath.Dir(path)
		luaFiles = []string{filepath.Base(path)}
	}

	L := sandbox.New()
	defer L.Close()

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	def, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling world data: %w", err)
	}
	def.Dir = dir

	if err := validate(def); err != nil {
		return nil, err
	}
	return def, nil
}
