package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/gridsim/cli"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleGridBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleWall = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	styleUnseen = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	styleItem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleAgent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleSelf = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true)

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleItemNote = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of a log line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindItem
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of log line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Taken:"),
		strings.HasPrefix(line, "Dropped:"):
		return kindItem
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You aren't"),
		strings.HasPrefix(line, "There is nothing"):
		return kindError
	default:
		return kindNarrative
	}
}

func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindItem:
		return styleItemNote.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styleCell colours one grid rune. self is the player's symbol.
func styleCell(r, self rune, agents map[rune]bool) string {
	s := string(r)
	switch {
	case r == self:
		return styleSelf.Render(s)
	case agents[r]:
		return styleAgent.Render(s)
	case r == cli.ItemSymbol:
		return styleItem.Render(s)
	case r == '#':
		return styleWall.Render(s)
	case r == '?':
		return styleUnseen.Render(s)
	default:
		return s
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
