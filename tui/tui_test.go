package tui

import (
	"strings"
	"testing"

	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
	"github.com/nathoo/gridsim/worlds/maze"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[World saved to test.json.]", kindSystem},
		{"[trace] round 0: Player (#0) action 4 -> 1 (ok)", kindTrace},
		{"You can't go that way.", kindError},
		{"You aren't carrying anything.", kindError},
		{"There is nothing here to take.", kindError},
		{"Taken: Lantern.", kindItem},
		{"Dropped: Lantern.", kindItem},
		{"The lights flicker.", kindNarrative},
		{"", kindNarrative},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"You can't go that way, the wall is too thick.", 20,
			"You can't go that\nway, the wall is too\nthick."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("d")
	h.Push("go north")
	h.Push("take")

	for _, want := range []string{"take", "go north", "d", "d"} {
		prev, ok := h.Prev()
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("d")
	h.Push("go north")

	h.Prev() // "go north"
	h.Prev() // "d"

	next, ok := h.Next()
	if !ok || next != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Last(); ok {
		t.Error("expected no last entry on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	for _, want := range []string{"c", "b", "b"} {
		if prev, _ := h.Prev(); prev != want {
			t.Errorf("expected %q, got %q", want, prev)
		}
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("d")
	h.Push("d")
	h.Push("d")

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

func TestHistory_PushEndsNavigation(t *testing.T) {
	h := NewHistory(5)
	h.Push("a")
	h.Push("b")

	h.Prev() // "b"
	h.Prev() // "a"
	h.Push("c")

	prev, ok := h.Prev()
	if !ok || prev != "c" {
		t.Errorf("expected 'c' after push, got %q", prev)
	}
	if last, _ := h.Last(); last != "c" {
		t.Errorf("Last = %q, want c", last)
	}
}

func newTestModel(t *testing.T) (Model, *engine.World, *Player) {
	t.Helper()
	g := maze.NewGrid([]string{
		"#####",
		"#   #",
		"#####",
	})
	w := engine.New(maze.NewRules(g), engine.WithGrid(g))
	p := Spawn(w, "Player").(*Player)
	p.SetLocation(entity.At(grid.Pos(1, 1)))
	p.SetSymbol('@')
	m := New(w, p, Options{Title: "Test", SaveDir: t.TempDir()})
	m.width = 80
	return m, w, p
}

func submit(t *testing.T, m Model, input string) Model {
	t.Helper()
	m.input.SetValue(input)
	next, _ := m.handleEnter()
	return next.(Model)
}

func TestPlayer_QueuedActionIsUsedOnce(t *testing.T) {
	_, w, p := newTestModel(t)

	p.Queue(maze.MoveRight)
	if got := p.SelectAction(w.Grid()); got != maze.MoveRight {
		t.Errorf("first SelectAction = %d, want %d", got, maze.MoveRight)
	}
	if got := p.SelectAction(w.Grid()); got != entity.NoAction {
		t.Errorf("second SelectAction = %d, want NoAction", got)
	}
}

func TestHandleEnter_StepsWorld(t *testing.T) {
	m, w, p := newTestModel(t)

	m = submit(t, m, "d")

	if w.Round() != 1 {
		t.Errorf("round = %d, want 1", w.Round())
	}
	if pos := p.Location().AsPosition(); !pos.SameCell(grid.Pos(2, 1)) {
		t.Errorf("position = %s, want (2,1)", pos)
	}
	if len(m.rawLines) == 0 || m.rawLines[0].text != "> d" {
		t.Errorf("expected echoed input, got %+v", m.rawLines)
	}
}

func TestHandleEnter_CollectsNotes(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = submit(t, m, "w")

	var found bool
	for _, rl := range m.rawLines {
		if rl.text == "You can't go that way." && rl.kind == kindError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected blocked note, got %+v", m.rawLines)
	}
}

func TestHandleEnter_UnknownDoesNotStep(t *testing.T) {
	m, w, _ := newTestModel(t)

	m = submit(t, m, "xyzzy")

	if w.Round() != 0 {
		t.Errorf("round = %d, want 0", w.Round())
	}
	last := m.rawLines[len(m.rawLines)-1]
	if !last.isSystem || !strings.Contains(last.text, "Unknown command") {
		t.Errorf("expected unknown command message, got %+v", last)
	}
}

func TestHandleEnter_Again(t *testing.T) {
	m, w, p := newTestModel(t)

	m = submit(t, m, "d")
	submit(t, m, "g")

	if w.Round() != 2 {
		t.Errorf("round = %d, want 2", w.Round())
	}
	if pos := p.Location().AsPosition(); !pos.SameCell(grid.Pos(3, 1)) {
		t.Errorf("position = %s, want (3,1)", pos)
	}
}

func TestHandleEnter_Trace(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = submit(t, m, "/trace")
	m = submit(t, m, "d")

	last := m.rawLines[len(m.rawLines)-1]
	if last.kind != kindTrace || !strings.HasPrefix(last.text, "[trace] round 0: Player") {
		t.Errorf("expected trace line, got %+v", last)
	}
}

func TestHandleEnter_QuitStopsWorld(t *testing.T) {
	m, w, _ := newTestModel(t)

	m = submit(t, m, "q")

	if !m.quitting {
		t.Error("expected quitting")
	}
	if !w.IsRunOver() {
		t.Error("expected world stopped")
	}
}

func TestHandleMeta_SaveAndLoad(t *testing.T) {
	m, w, p := newTestModel(t)

	output, quit := m.handleMeta("save", []string{"test"})
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "World saved") {
		t.Fatalf("expected save confirmation, got %v", output)
	}

	m = submit(t, m, "d")
	output, _ = m.handleMeta("load", []string{"test"})
	if len(output) == 0 || !strings.Contains(output[0], "World loaded") {
		t.Fatalf("expected load confirmation, got %v", output)
	}
	if w.Round() != 0 {
		t.Errorf("round = %d, want 0", w.Round())
	}
	if pos := p.Location().AsPosition(); !pos.SameCell(grid.Pos(1, 1)) {
		t.Errorf("position = %s, want (1,1)", pos)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m, _, _ := newTestModel(t)

	output, quit := m.handleMeta("load", []string{"nonexistent"})
	if quit {
		t.Error("load should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Load failed") {
		t.Errorf("expected load failure, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m, _, _ := newTestModel(t)

	output, quit := m.handleMeta("help", nil)
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/save", "/load", "/quit", "take", "PgUp"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m, _, _ := newTestModel(t)

	output, _ := m.handleMeta("trace", nil)
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("trace", nil)
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m, _, _ := newTestModel(t)

	output, quit := m.handleMeta("bogus", nil)
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command: /bogus") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m, _, _ := newTestModel(t)

	output, _ := m.handleMeta("state", nil)

	joined := strings.Join(output, "\n")
	for _, want := range []string{"Round: 0", "Position: (1,1)"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in state output:\n%s", want, joined)
		}
	}
}

func TestRenderStatusBar(t *testing.T) {
	m, w, p := newTestModel(t)
	lamp := w.AddItem("Lamp")
	lamp.SetOwner(p.ID())

	bar := m.renderStatusBar()

	for _, want := range []string{"Test | 1,1", "Inv: Lamp | R:0"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q: %q", want, bar)
		}
	}
}
