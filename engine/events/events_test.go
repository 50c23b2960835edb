package events

import (
	"testing"
)

func TestBuffer_RecordAndRound(t *testing.T) {
	b := NewBuffer(10)
	b.Record(Event{Round: 0, Agent: 0, AgentName: "A", Action: 1, Result: 1})
	b.Record(Event{Round: 0, Agent: 1, AgentName: "B", Action: 2, Result: 0})
	b.Record(Event{Round: 1, Agent: 0, AgentName: "A", Action: 1, Result: 1})

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	r0 := b.Round(0)
	if len(r0) != 2 || r0[0].AgentName != "A" || r0[1].AgentName != "B" {
		t.Errorf("Round(0) = %v", r0)
	}
	last := b.Last()
	if len(last) != 1 || last[0].Round != 1 {
		t.Errorf("Last() = %v", last)
	}
}

func TestBuffer_EvictsOldest(t *testing.T) {
	b := NewBuffer(2)
	for i := 0; i < 5; i++ {
		b.Record(Event{Round: i})
	}
	all := b.All()
	if len(all) != 2 || all[0].Round != 3 || all[1].Round != 4 {
		t.Errorf("All() = %v, want rounds 3 and 4", all)
	}
}

func TestBuffer_EmptyAndReset(t *testing.T) {
	b := NewBuffer(0)
	if b.Last() != nil {
		t.Error("expected nil Last() on empty buffer")
	}
	b.Record(Event{})
	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len after Reset = %d", b.Len())
	}
}

func TestEvent_String(t *testing.T) {
	e := Event{Round: 2, Agent: 1, AgentName: "Guard", Action: 3, Result: 0}
	want := "round 2: Guard (#1) action 3 -> 0 (failed)"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if e.Succeeded() {
		t.Error("result 0 must not count as success")
	}
}
