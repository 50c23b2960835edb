package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// world title, the player's cell, what they carry and the round.
func (m Model) renderStatusBar() string {
	title := m.title
	if title == "" {
		title = "gridsim"
	}
	left := " " + title
	if loc := m.player.Location(); loc.IsPosition() {
		pos := loc.AsPosition()
		left += fmt.Sprintf(" | %d,%d", pos.CellX(), pos.CellY())
	}

	round := m.world.Round()
	right := fmt.Sprintf("R:%d ", round)

	// Show carried items if they fit, otherwise just count.
	if held := m.world.ItemsHeldBy(m.player.ID()); len(held) > 0 {
		names := make([]string, len(held))
		for i, it := range held {
			names[i] = it.Name()
		}
		candidate := fmt.Sprintf("Inv: %s | R:%d ", strings.Join(names, ", "), round)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | R:%d ", len(held), round)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
