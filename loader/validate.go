package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/nathoo/gridsim/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var validKinds = map[string]bool{
	types.KindPacer:    true,
	types.KindWanderer: true,
	types.KindScript:   true,
}

// defaultSymbols are the cell symbols available when a world declares no
// cell types of its own.
const defaultSymbols = " #"

// validate checks the compiled def for consistency. Warnings are stored on
// the def; any error fails the load.
func validate(def *types.WorldDef) error {
	ve := &ValidationError{}

	if def.Title == "" {
		ve.addf("World.title is required")
	}

	symbols := validateCellTypes(def.CellTypes, ve)

	width, height := 0, len(def.Map)
	if height == 0 {
		ve.addf("Map is required")
	} else {
		width = utf8.RuneCountInString(def.Map[0])
		if width == 0 {
			ve.addf("Map row 1 is empty")
		}
	}
	for i, row := range def.Map {
		if n := utf8.RuneCountInString(row); n != width {
			ve.warnf("Map row %d has %d cells, want %d", i+1, n, width)
		}
		for _, r := range row {
			if !strings.ContainsRune(symbols, r) {
				ve.warnf("Map row %d uses undeclared symbol %q", i+1, r)
				break
			}
		}
	}
	inBounds := func(x, y int) bool {
		return x >= 0 && x < width && y >= 0 && y < height
	}

	names := map[string]bool{}
	for _, a := range def.Agents {
		if a.Name == "" {
			ve.addf("agent name is required")
		} else if names[a.Name] {
			ve.addf("duplicate agent name %q", a.Name)
		}
		names[a.Name] = true

		if !validKinds[a.Kind] {
			ve.addf("agent %q has unknown kind %q", a.Name, a.Kind)
		}
		if height > 0 && !inBounds(a.X, a.Y) {
			ve.addf("agent %q at (%d,%d) is outside the %dx%d map", a.Name, a.X, a.Y, width, height)
		}
		if utf8.RuneCountInString(a.Symbol) > 1 {
			ve.addf("agent %q symbol %q must be a single character", a.Name, a.Symbol)
		}
		validateScript(def.Dir, a, ve)
	}

	if p := def.Player; p != nil {
		if p.Name == "" {
			ve.addf("player name is required")
		} else if names[p.Name] {
			ve.addf("player name %q is already used by an agent", p.Name)
		}
		names[p.Name] = true
		if height > 0 && !inBounds(p.X, p.Y) {
			ve.addf("player at (%d,%d) is outside the %dx%d map", p.X, p.Y, width, height)
		}
		if utf8.RuneCountInString(p.Symbol) != 1 {
			ve.addf("player symbol %q must be a single character", p.Symbol)
		}
	}

	for _, it := range def.Items {
		if it.Name == "" {
			ve.addf("item name is required")
		}
		switch {
		case it.Owner != "":
			if !names[it.Owner] {
				ve.addf("item %q owner %q is not a defined agent", it.Name, it.Owner)
			}
		case height > 0 && !inBounds(it.X, it.Y):
			ve.addf("item %q at (%d,%d) is outside the %dx%d map", it.Name, it.X, it.Y, width, height)
		}
	}

	def.Warnings = ve.Warnings
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateCellTypes checks names and symbols and returns every symbol a
// map may use.
func validateCellTypes(cts []types.CellTypeDef, ve *ValidationError) string {
	if len(cts) == 0 {
		return defaultSymbols
	}
	var symbols strings.Builder
	seenName := map[string]bool{}
	seenSymbol := map[string]string{}
	for _, ct := range cts {
		if seenName[ct.Name] {
			ve.addf("duplicate cell type %q", ct.Name)
		}
		seenName[ct.Name] = true

		if utf8.RuneCountInString(ct.Symbol) != 1 {
			ve.addf("cell type %q symbol %q must be a single character", ct.Name, ct.Symbol)
			continue
		}
		if other, ok := seenSymbol[ct.Symbol]; ok {
			ve.addf("cell type %q reuses symbol %q of %q", ct.Name, ct.Symbol, other)
		}
		seenSymbol[ct.Symbol] = ct.Name
		symbols.WriteString(ct.Symbol)
	}
	return symbols.String()
}

func validateScript(dir string, a types.AgentDef, ve *ValidationError) {
	hasScript := a.Script != "" || a.Source != ""
	if a.Kind != types.KindScript {
		if hasScript {
			ve.warnf("agent %q of kind %q ignores its script", a.Name, a.Kind)
		}
		return
	}
	switch {
	case !hasScript:
		ve.addf("script agent %q needs script or source", a.Name)
	case a.Script != "":
		path := a.Script
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			ve.addf("script agent %q: %v", a.Name, err)
		}
	}
}
