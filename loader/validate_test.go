package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/gridsim/types"
)

// validDef returns a minimal valid WorldDef for testing.
func validDef() *types.WorldDef {
	return &types.WorldDef{
		Title: "Test",
		Map:   []string{"#####", "#   #", "#####"},
		Agents: []types.AgentDef{
			{Name: "Pacer", Kind: types.KindPacer, X: 1, Y: 1},
		},
		Items: []types.ItemDef{
			{Name: "Coin", X: 3, Y: 1},
		},
		Player: &types.PlayerDef{Name: "Hero", X: 2, Y: 1, Symbol: "@"},
	}
}

func TestValidate_ValidDef(t *testing.T) {
	if err := validate(validDef()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *types.WorldDef)
		want   string
	}{
		{"empty title", func(d *types.WorldDef) { d.Title = "" }, "title is required"},
		{"missing map", func(d *types.WorldDef) { d.Map = nil }, "Map is required"},
		{"empty first row", func(d *types.WorldDef) { d.Map = []string{""} }, "row 1 is empty"},
		{"unknown kind", func(d *types.WorldDef) { d.Agents[0].Kind = "dragon" }, `unknown kind "dragon"`},
		{"agent out of bounds", func(d *types.WorldDef) { d.Agents[0].X = 5 }, `agent "Pacer" at (5,1)`},
		{"negative position", func(d *types.WorldDef) { d.Agents[0].Y = -1 }, "outside the 5x3 map"},
		{"long symbol", func(d *types.WorldDef) { d.Agents[0].Symbol = "PP" }, "single character"},
		{
			"duplicate agent",
			func(d *types.WorldDef) { d.Agents = append(d.Agents, d.Agents[0]) },
			`duplicate agent name "Pacer"`,
		},
		{"player name clash", func(d *types.WorldDef) { d.Player.Name = "Pacer" }, "already used by an agent"},
		{"player out of bounds", func(d *types.WorldDef) { d.Player.Y = 3 }, "player at (2,3)"},
		{"player symbol", func(d *types.WorldDef) { d.Player.Symbol = "" }, "player symbol"},
		{"item out of bounds", func(d *types.WorldDef) { d.Items[0].X = 40 }, `item "Coin" at (40,1)`},
		{"unknown owner", func(d *types.WorldDef) { d.Items[0].Owner = "Nobody" }, `owner "Nobody"`},
		{"script without source", func(d *types.WorldDef) { d.Agents[0].Kind = types.KindScript }, "needs script or source"},
		{
			"missing script file",
			func(d *types.WorldDef) {
				d.Agents[0].Kind = types.KindScript
				d.Agents[0].Script = "absent.lua"
			},
			`script agent "Pacer"`,
		},
		{
			"duplicate cell type",
			func(d *types.WorldDef) {
				d.CellTypes = []types.CellTypeDef{{Name: "wall", Symbol: "#"}, {Name: "wall", Symbol: "W"}}
			},
			`duplicate cell type "wall"`,
		},
		{
			"shared symbol",
			func(d *types.WorldDef) {
				d.CellTypes = []types.CellTypeDef{{Name: "wall", Symbol: "#"}, {Name: "rock", Symbol: "#"}}
			},
			`reuses symbol "#" of "wall"`,
		},
		{
			"multi-rune cell symbol",
			func(d *types.WorldDef) { d.CellTypes = []types.CellTypeDef{{Name: "wall", Symbol: "##"}} },
			"must be a single character",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDef()
			def.Dir = t.TempDir()
			tt.mutate(def)
			err := validate(def)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			assertContains(t, ve.Errors, tt.want)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	def := validDef()
	def.Title = ""
	def.Agents[0].Kind = ""
	def.Items[0].Owner = "Ghost"

	ve, ok := validate(def).(*ValidationError)
	if !ok {
		t.Fatal("expected *ValidationError")
	}
	if len(ve.Errors) != 3 {
		t.Errorf("errors = %d, want 3: %v", len(ve.Errors), ve.Errors)
	}
	if !strings.HasPrefix(ve.Error(), "validation failed with 3 error(s)") {
		t.Errorf("Error() = %q", ve.Error())
	}
}

func TestValidate_Warnings(t *testing.T) {
	def := validDef()
	def.Map = []string{"#####", "# X #", "###"}
	def.Items[0].X = 2
	def.Agents = append(def.Agents, types.AgentDef{
		Name: "Chatty", Kind: types.KindPacer, X: 3, Y: 1, Source: "x = 1",
	})

	if err := validate(def); err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}
	assertContains(t, def.Warnings, `undeclared symbol 'X'`)
	assertContains(t, def.Warnings, "row 3 has 3 cells, want 5")
	assertContains(t, def.Warnings, "ignores its script")
}

func TestValidate_ScriptFileFound(t *testing.T) {
	def := validDef()
	def.Dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(def.Dir, "bot.lua"), []byte("-- bot"), 0o644); err != nil {
		t.Fatal(err)
	}
	def.Agents[0].Kind = types.KindScript
	def.Agents[0].Script = "bot.lua"
	if err := validate(def); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

// assertContains checks that at least one string in the slice contains substr.
func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected one of %v to contain %q", strs, substr)
}
