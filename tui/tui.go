package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/gridsim/cli"
	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/entity"
	"github.com/nathoo/gridsim/engine/parser"
	"github.com/nathoo/gridsim/engine/save"
)

// rawLine stores an unstyled log line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Options configures the model.
type Options struct {
	Title   string
	SaveDir string
	Trace   bool
}

// Model is the Bubble Tea model. Every submitted action queues it on the
// player and steps the world one round.
type Model struct {
	world  *engine.World
	player *Player
	title  string

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	saveDir  string
}

// outputMsg carries lines into the Update loop.
type outputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // log lines
	isSystem bool     // true for meta-command output
}

// New creates a model for w, driven through player.
func New(w *engine.World, player *Player, o Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		world:   w,
		player:  player,
		title:   o.Title,
		input:   ti,
		history: NewHistory(100),
		trace:   o.Trace,
		saveDir: o.SaveDir,
	}
}

// Run starts the Bubble Tea program and returns when the player quits or
// the world stops.
func Run(w *engine.World, player *Player, o Options) error {
	p := tea.NewProgram(New(w, player, o), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string
		if m.title != "" {
			lines = append(lines, m.title, "")
		}
		lines = append(lines, "Type w, a, s or d and press Enter to move. /help lists every command.")
		return outputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - m.gridHeight() - 2 // status bar + input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.world.Stop()
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	// Handle "again" / "g".
	if lower := strings.ToLower(input); lower == "again" || lower == "g" {
		last, ok := m.history.Last()
		if !ok {
			m = m.appendOutput(outputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = last
	}
	m.history.Push(input)

	cmd := parser.Parse(input)
	if cmd.Meta != "" || cmd.Action == "" {
		output, quit := m.handleMeta(cmd.Meta, cmd.Args)
		m = m.appendOutput(outputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			m.world.Stop()
			return m, tea.Quit
		}
		return m, nil
	}

	action := entity.NoAction
	if cmd.Action != parser.Wait {
		id, ok := m.player.LookupAction(cmd.Action)
		if !ok {
			m = m.appendOutput(outputMsg{
				input:    input,
				lines:    []string{fmt.Sprintf("Unknown command %q. Type /help for available commands.", input)},
				isSystem: true,
			})
			return m, nil
		}
		action = id
	}

	m.player.Queue(action)
	round := m.world.Round()
	m.world.Step()

	output := m.player.TakeNotes()
	if m.trace {
		for _, ev := range m.world.Events().Round(round) {
			output = append(output, "[trace] "+ev.String())
		}
	}
	m = m.appendOutput(outputMsg{input: input, lines: output})

	if m.world.IsRunOver() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			lineLen = len(word)
		case lineLen+1+len(word) > width:
			result.WriteString("\n")
			lineLen = len(word)
		default:
			result.WriteString(" ")
			lineLen += 1 + len(word)
		}
		result.WriteString(word)
	}
	return result.String()
}

// gridHeight is the number of terminal rows the bordered grid takes.
func (m Model) gridHeight() int {
	return m.world.Grid().Height() + 2
}

// renderGrid draws what the player can observe inside a border.
func (m Model) renderGrid() string {
	rows := cli.Render(m.world, m.player, m.world.ObservableGrid(m.player))

	agents := map[rune]bool{}
	for _, id := range m.world.KnownAgents(m.player) {
		agents[m.world.Agent(id).Symbol()] = true
	}
	self := m.player.Symbol()

	styled := make([]string, len(rows))
	for y, row := range rows {
		var b strings.Builder
		for _, r := range row {
			b.WriteString(styleCell(r, self, agents))
		}
		styled[y] = b.String()
	}
	return styleGridBox.Render(strings.Join(styled, "\n"))
}

// View renders the layout: grid, log viewport, status bar and input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.renderGrid() + "\n" + m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(cmd string, args []string) ([]string, bool) {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	switch cmd {
	case "quit":
		return []string{"Goodbye."}, true

	case "save":
		return m.cmdSave(arg), false

	case "load":
		return m.cmdLoad(arg), false

	case "help":
		return append(append([]string{}, cli.HelpLines...),
			"", "Navigation: PgUp/PgDn to scroll, Up/Down for command history"), false

	case "state":
		return cli.StateLines(m.world, m.player), false

	case "trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: /%s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	data, err := save.Save(m.world, m.title)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	path := cli.ResolveSavePath(m.saveDir, name)
	if err := save.WriteFile(path, data); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("World saved to %s.", path)}
}

func (m *Model) cmdLoad(name string) []string {
	path := cli.ResolveSavePath(m.saveDir, name)
	data, err := save.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	if err := save.Apply(m.world, sd); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	return []string{fmt.Sprintf("World loaded from %s (round %d).", path, sd.Round)}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
