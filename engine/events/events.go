// Package events records what every agent did on every turn. The buffer is
// bounded; the oldest records are dropped first.
package events

import (
	"fmt"

	"github.com/nathoo/gridsim/engine/entity"
)

// Event is one agent turn: the action it chose and the world's verdict.
type Event struct {
	Round     int
	Agent     entity.AgentID
	AgentName string
	Action    entity.ActionID
	Result    int
}

// Succeeded reports whether the world applied the action.
func (e Event) Succeeded() bool { return e.Result != 0 }

func (e Event) String() string {
	outcome := "ok"
	if !e.Succeeded() {
		outcome = "failed"
	}
	return fmt.Sprintf("round %d: %s (#%d) action %d -> %d (%s)",
		e.Round, e.AgentName, e.Agent, e.Action, e.Result, outcome)
}

// DefaultCapacity is the buffer size used when none is given.
const DefaultCapacity = 1024

// Buffer keeps the most recent events in arrival order.
type Buffer struct {
	events []Event
	max    int
}

// NewBuffer creates a buffer holding at most max events.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultCapacity
	}
	return &Buffer{max: max}
}

// Record appends an event, evicting the oldest when full.
func (b *Buffer) Record(e Event) {
	b.events = append(b.events, e)
	if len(b.events) > b.max {
		b.events = b.events[len(b.events)-b.max:]
	}
}

func (b *Buffer) Len() int { return len(b.events) }

// All returns a copy of the buffered events.
func (b *Buffer) All() []Event {
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Round returns the buffered events of round n.
func (b *Buffer) Round(n int) []Event {
	var out []Event
	for _, e := range b.events {
		if e.Round == n {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the events of the most recent round that has any.
func (b *Buffer) Last() []Event {
	if len(b.events) == 0 {
		return nil
	}
	return b.Round(b.events[len(b.events)-1].Round)
}

// Reset drops every event.
func (b *Buffer) Reset() {
	b.events = nil
}
