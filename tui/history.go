// Package tui provides a Bubble Tea terminal UI for a grid world.
package tui

// History keeps the most recent commands for Up/Down recall and "again".
type History struct {
	entries []string
	max     int
	back    int // steps back from the newest entry; 0 when not navigating
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	return &History{entries: make([]string, 0, max), max: max}
}

// Push records cmd and ends any navigation. Repeating the newest entry
// does not add a duplicate.
func (h *History) Push(cmd string) {
	h.back = 0
	if last, ok := h.Last(); ok && last == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Last returns the newest command.
func (h *History) Last() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

// Prev moves one entry older, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.back < len(h.entries) {
		h.back++
	}
	return h.entries[len(h.entries)-h.back], true
}

// Next moves one entry newer. It reports false once navigation runs past
// the newest entry, meaning the input should be cleared.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.entries[len(h.entries)-h.back], true
}

func (h *History) ResetCursor() { h.back = 0 }
