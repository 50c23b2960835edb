// Package save implements the flat JSON state dump of a world: grid cells,
// round, RNG position and every entity's mutable state. Definitions (cell
// types, agent kinds, scripts) are not saved; a dump is applied onto a
// world built from the same definition.
package save

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"

	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
)

// Version is the current dump format.
const Version = 1

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     int         `json:"version"`
	Title       string      `json:"title,omitempty"`
	Round       int         `json:"round"`
	RNGSeed     int64       `json:"rng_seed"`
	RNGPosition int64       `json:"rng_position"`
	Grid        GridData    `json:"grid"`
	Agents      []AgentData `json:"agents"`
	Items       []ItemData  `json:"items"`
}

// GridData is the main grid in row-major order.
type GridData struct {
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Cells  []grid.CellTypeID `json:"cells"`
}

// Location kinds.
const (
	KindPosition = "pos"
	KindItem     = "item"
	KindAgent    = "agent"
)

// LocationData is an entity.Location. X and Y are used by "pos", ID by
// "item" and "agent".
type LocationData struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	ID   int     `json:"id,omitempty"`
}

type AgentData struct {
	ID           entity.AgentID `json:"id"`
	Name         string         `json:"name"`
	Symbol       string         `json:"symbol"`
	Location     LocationData   `json:"location"`
	ActionResult int            `json:"action_result"`
}

type ItemData struct {
	ID       entity.ItemID `json:"id"`
	Name     string        `json:"name"`
	Location LocationData  `json:"location"`
}

// Capture records the state of w.
func Capture(w *engine.World, title string) *SaveData {
	g := w.Grid()
	sd := &SaveData{
		Version:     Version,
		Title:       title,
		Round:       w.Round(),
		RNGSeed:     w.RNG().Seed(),
		RNGPosition: w.RNG().Position(),
		Grid:        GridData{Width: g.Width(), Height: g.Height(), Cells: g.Cells()},
		Agents:      []AgentData{},
		Items:       []ItemData{},
	}
	for _, a := range w.Agents() {
		sd.Agents = append(sd.Agents, AgentData{
			ID:           a.ID(),
			Name:         a.Name(),
			Symbol:       string(a.Symbol()),
			Location:     encodeLocation(a.Location()),
			ActionResult: a.ActionResult(),
		})
	}
	for _, it := range w.Items() {
		sd.Items = append(sd.Items, ItemData{
			ID:       it.ID(),
			Name:     it.Name(),
			Location: encodeLocation(it.Location()),
		})
	}
	return sd
}

// Save serializes the state of w to JSON bytes.
func Save(w *engine.World, title string) ([]byte, error) {
	return json.MarshalIndent(Capture(w, title), "", "  ")
}

// Load validates data against the dump schema and decodes it.
func Load(data []byte) (*SaveData, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid save: %w", err)
	}

	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if err := checkGrid(sd.Grid); err != nil {
		return nil, fmt.Errorf("invalid save: %w", err)
	}
	if sd.Agents == nil {
		sd.Agents = []AgentData{}
	}
	if sd.Items == nil {
		sd.Items = []ItemData{}
	}
	return &sd, nil
}

// Apply restores sd onto w. The world must hold the same entities, by id,
// as when sd was captured. Nothing is changed when Apply fails.
func Apply(w *engine.World, sd *SaveData) error {
	if len(sd.Agents) != w.NumAgents() {
		return fmt.Errorf("save has %d agents, world has %d", len(sd.Agents), w.NumAgents())
	}
	if len(sd.Items) != w.NumItems() {
		return fmt.Errorf("save has %d items, world has %d", len(sd.Items), w.NumItems())
	}

	if sd.RNGPosition < 0 || sd.RNGPosition > engine.MaxRNGPosition {
		return fmt.Errorf("rng position %d outside [0, %d]", sd.RNGPosition, int64(engine.MaxRNGPosition))
	}
	if err := checkGrid(sd.Grid); err != nil {
		return err
	}
	numTypes := grid.CellTypeID(len(w.Grid().CellTypes()))
	for i, c := range sd.Grid.Cells {
		if c < 0 || c >= numTypes {
			return fmt.Errorf("cell %d has unknown type %d", i, c)
		}
	}

	agentLocs := make([]entity.Location, len(sd.Agents))
	for i, ad := range sd.Agents {
		if int(ad.ID) != i {
			return fmt.Errorf("agent %d saved out of order as id %d", i, ad.ID)
		}
		loc, err := decodeLocation(w, ad.Location)
		if err != nil {
			return fmt.Errorf("agent %d: %w", i, err)
		}
		agentLocs[i] = loc
	}
	itemLocs := make([]entity.Location, len(sd.Items))
	for i, id := range sd.Items {
		if int(id.ID) != i {
			return fmt.Errorf("item %d saved out of order as id %d", i, id.ID)
		}
		loc, err := decodeLocation(w, id.Location)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		itemLocs[i] = loc
	}

	g := w.Grid()
	if g.Width() != sd.Grid.Width || g.Height() != sd.Grid.Height {
		g.Resize(sd.Grid.Width, sd.Grid.Height, grid.Unknown)
	}
	if err := g.SetCells(sd.Grid.Cells); err != nil {
		return err
	}

	for i, ad := range sd.Agents {
		a := w.Agent(entity.AgentID(i))
		a.SetName(ad.Name)
		if r, _ := utf8.DecodeRuneInString(ad.Symbol); ad.Symbol != "" {
			a.SetSymbol(r)
		}
		a.SetLocation(agentLocs[i])
		a.SetActionResult(ad.ActionResult)
	}
	for i, id := range sd.Items {
		it := w.Item(entity.ItemID(i))
		it.SetName(id.Name)
		it.SetLocation(itemLocs[i])
	}

	w.SetRound(sd.Round)
	w.RNG().Reset(sd.RNGSeed, sd.RNGPosition)
	return nil
}

func checkGrid(gd GridData) error {
	if err := grid.CheckSize(gd.Width, gd.Height); err != nil {
		return err
	}
	if len(gd.Cells) != gd.Width*gd.Height {
		return fmt.Errorf("grid is %dx%d but has %d cells", gd.Width, gd.Height, len(gd.Cells))
	}
	return nil
}

func encodeLocation(loc entity.Location) LocationData {
	switch {
	case loc.IsItemID():
		return LocationData{Kind: KindItem, ID: int(loc.AsItemID())}
	case loc.IsAgentID():
		return LocationData{Kind: KindAgent, ID: int(loc.AsAgentID())}
	default:
		pos := loc.AsPosition()
		return LocationData{Kind: KindPosition, X: pos.X(), Y: pos.Y()}
	}
}

func decodeLocation(w *engine.World, ld LocationData) (entity.Location, error) {
	switch ld.Kind {
	case KindPosition:
		return entity.At(grid.Pos(ld.X, ld.Y)), nil
	case KindItem:
		if ld.ID < 0 || ld.ID >= w.NumItems() {
			return entity.Location{}, fmt.Errorf("location refers to unknown item %d", ld.ID)
		}
		return entity.InItem(entity.ItemID(ld.ID)), nil
	case KindAgent:
		if ld.ID < 0 || ld.ID >= w.NumAgents() {
			return entity.Location{}, fmt.Errorf("location refers to unknown agent %d", ld.ID)
		}
		return entity.HeldBy(entity.AgentID(ld.ID)), nil
	}
	return entity.Location{}, fmt.Errorf("unknown location kind %q", ld.Kind)
}

// Compressed reports whether path names a zstd-compressed dump.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// WriteFile writes data to path, creating parent directories. Paths ending
// in .zst are zstd-compressed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if !Compressed(path) {
		return os.WriteFile(path, data, 0o644)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("zstd encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd encode: %w", err)
	}
	return f.Close()
}

// ReadFile reads a dump written by WriteFile.
func ReadFile(path string) ([]byte, error) {
	if !Compressed(path) {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return data, nil
}
