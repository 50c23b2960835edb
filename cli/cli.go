// Package cli provides the plain-text human interface: an agent that draws
// the grid, reads one command per turn and handles meta commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/grid"
	"github.com/nathoo/gridsim/engine/parser"
	"github.com/nathoo/gridsim/engine/save"
)

// ItemSymbol marks cells holding at least one item.
const ItemSymbol = '+'

// Options configures an Interface.
type Options struct {
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Title     string
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// Spawn adds an Interface to w. It matches worlds.SpawnFunc.
func (o Options) Spawn(w *engine.World, name string) entity.Agent {
	return New(w, name, o)
}

// Interface is an agent controlled from a terminal. SelectAction blocks
// until a line of input arrives.
//
// Input is read by a background goroutine once the first turn starts.
// Close stops it.
type Interface struct {
	*entity.InterfaceBase
	world     *engine.World
	scanner   *bufio.Scanner
	out       io.Writer
	saveDir   string
	title     string
	trace     bool
	echo      bool
	lastCmd   string
	notes     []string
	lines     <-chan string
	done      chan struct{}
	closeOnce sync.Once
}

var _ entity.ContextSelector = (*Interface)(nil)

// New adds an Interface named name to w.
func New(w *engine.World, name string, o Options) *Interface {
	return engine.AddAgent(w, name, func(b *entity.AgentBase) *Interface {
		return &Interface{
			InterfaceBase: &entity.InterfaceBase{AgentBase: b},
			world:         w,
			scanner:       bufio.NewScanner(o.In),
			out:           o.Out,
			saveDir:       o.SaveDir,
			title:         o.Title,
			trace:         o.Trace,
			echo:          o.EchoInput,
			done:          make(chan struct{}),
		}
	})
}

// Notify queues a message for the next time the grid is drawn.
func (c *Interface) Notify(message, category string) {
	c.notes = append(c.notes, message)
}

// SelectAction draws the world and reads commands until one of them is a
// world action. End of input or /quit stops the world.
func (c *Interface) SelectAction(g grid.Reader) entity.ActionID {
	id, _ := c.SelectActionContext(context.Background(), g)
	return id
}

// SelectActionContext is SelectAction that gives up waiting for input
// when ctx is done.
func (c *Interface) SelectActionContext(ctx context.Context, g grid.Reader) (entity.ActionID, error) {
	if c.trace && c.world.Round() > 0 {
		c.printTrace(c.world.Round() - 1)
	}
	c.flushNotes()
	c.drawGrid(g)

	for {
		c.print("Your move? ")
		line, err := c.readLine(ctx)
		if errors.Is(err, io.EOF) {
			c.printLine("")
			c.world.Stop()
			return entity.NoAction, nil
		}
		if err != nil {
			c.printLine("")
			return entity.NoAction, err
		}
		input := strings.TrimSpace(line)
		// Skip blank and comment lines (for script files).
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.echo {
			c.printLine(input)
		}

		// Handle "again" / "g".
		if lower := strings.ToLower(input); lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printSystem("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		cmd := parser.Parse(input)
		if cmd.Meta != "" || cmd.Action == "" {
			if c.handleMeta(cmd.Meta, cmd.Args, g) {
				c.world.Stop()
				return entity.NoAction, nil
			}
			continue
		}
		if cmd.Action == parser.Wait {
			return entity.NoAction, nil
		}
		id, ok := c.LookupAction(cmd.Action)
		if !ok {
			c.printSystem(fmt.Sprintf("Unknown command %q. Type /help for available commands.", input))
			continue
		}
		return id, nil
	}
}

// Close stops the input goroutine. A Read already blocked on the input
// cannot be interrupted; the goroutine exits when it returns.
func (c *Interface) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readLine returns the next input line. Lines are read on a separate
// goroutine, started on first use, so that a wait can be cancelled.
func (c *Interface) readLine(ctx context.Context) (string, error) {
	if c.lines == nil {
		lines := make(chan string)
		go func() {
			defer close(lines)
			for c.scanner.Scan() {
				select {
				case <-c.done:
					return
				default:
				}
				select {
				case lines <- c.scanner.Text():
				case <-c.done:
					return
				}
			}
		}()
		c.lines = lines
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// handleMeta dispatches meta-commands. Returns true if the player quit.
func (c *Interface) handleMeta(cmd string, args []string, g grid.Reader) bool {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	switch cmd {
	case "quit":
		c.printSystem("Goodbye.")
		return true

	case "save":
		c.cmdSave(arg)

	case "load":
		if c.cmdLoad(arg) {
			c.drawGrid(g)
		}

	case "help":
		c.cmdHelp()

	case "state":
		c.cmdState()

	case "trace":
		c.trace = !c.trace
		if c.trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: /%s. Type /help for available commands.", cmd))
	}
	return false
}

// savePath resolves a save name: default quicksave, .json appended when
// there is no extension, relative names under the save directory.
func (c *Interface) savePath(name string) string {
	return ResolveSavePath(c.saveDir, name)
}

// ResolveSavePath maps a /save or /load argument to a file path.
func ResolveSavePath(dir, name string) string {
	if name == "" {
		name = "quicksave"
	}
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

func (c *Interface) cmdSave(name string) {
	data, err := save.Save(c.world, c.title)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	path := c.savePath(name)
	if err := save.WriteFile(path, data); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("World saved to %s.", path))
}

func (c *Interface) cmdLoad(name string) bool {
	path := c.savePath(name)
	data, err := save.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return false
	}
	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return false
	}
	if err := save.Apply(c.world, sd); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return false
	}
	c.printSystem(fmt.Sprintf("World loaded from %s (round %d).", path, sd.Round))
	return true
}

// HelpLines is the /help text, shared with the TUI.
var HelpLines = []string{
	"System:",
	"  /save [name]  Save the world (default: quicksave)",
	"  /load [name]  Load a saved world (default: quicksave)",
	"  /quit         Exit (also q)",
	"  /help         Show this help",
	"  /state        Show round, position and inventory",
	"  /trace        Toggle per-agent action trace",
	"",
	"Actions:",
	"  w a s d       Move up, left, down, right (also go north, left...)",
	"  t / take      Pick up an item here",
	"  p / drop      Drop the first item you carry",
	"  z / wait      Stay where you are",
	"  again (g)     Repeat your last command",
}

func (c *Interface) cmdHelp() {
	for _, line := range HelpLines {
		c.printLine(line)
	}
}

func (c *Interface) cmdState() {
	for _, line := range StateLines(c.world, c) {
		c.printSystem(line)
	}
}

// StateLines describes agent a for /state.
func StateLines(w *engine.World, a entity.Agent) []string {
	lines := []string{fmt.Sprintf("Round: %d", w.Round())}
	if loc := a.Location(); loc.IsPosition() {
		lines = append(lines, fmt.Sprintf("Position: %s", loc.AsPosition()))
	}
	var held []string
	for _, it := range w.ItemsHeldBy(a.ID()) {
		held = append(held, it.Name())
	}
	lines = append(lines,
		fmt.Sprintf("Carrying: %v", held),
		fmt.Sprintf("Last result: %d", a.ActionResult()),
		fmt.Sprintf("Agents: %d, items: %d", w.NumAgents(), w.NumItems()),
	)
	return lines
}

func (c *Interface) printTrace(round int) {
	for _, ev := range c.world.Events().Round(round) {
		c.printSystem("[trace] " + ev.String())
	}
}

func (c *Interface) flushNotes() {
	for _, n := range c.notes {
		c.printSystem(n)
	}
	c.notes = nil
}

func (c *Interface) drawGrid(g grid.Reader) {
	rows := Render(c.world, c, g)
	border := "+" + strings.Repeat("-", g.Width()) + "+"
	c.printLine(border)
	for _, row := range rows {
		c.printLine("|" + row + "|")
	}
	c.printLine(border)
	c.printLine("Use W, A, S, D to move, T/P to take/drop, or Q to quit.")
}

// Render returns the rows a sees: cell symbols from g, then the known items
// lying on the grid, then the known agents on top.
func Render(w *engine.World, a entity.Agent, g grid.Reader) []string {
	cells := make([][]rune, g.Height())
	for y := range cells {
		cells[y] = make([]rune, g.Width())
		for x := range cells[y] {
			cells[y][x] = g.Symbol(grid.Pos(x, y))
		}
	}
	put := func(loc entity.Location, r rune) {
		if !loc.IsPosition() {
			return
		}
		pos := loc.AsPosition()
		if g.IsValidPos(pos) {
			cells[pos.CellY()][pos.CellX()] = r
		}
	}
	for _, id := range w.KnownItems(a) {
		put(w.Item(id).Location(), ItemSymbol)
	}
	for _, id := range w.KnownAgents(a) {
		other := w.Agent(id)
		put(other.Location(), other.Symbol())
	}

	rows := make([]string, len(cells))
	for y, row := range cells {
		rows[y] = string(row)
	}
	return rows
}

func (c *Interface) printLine(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Interface) print(text string) {
	fmt.Fprint(c.out, text)
}

func (c *Interface) printSystem(text string) {
	fmt.Fprintf(c.out, "[%s]\n", text)
}
