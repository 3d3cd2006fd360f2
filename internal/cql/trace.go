package cql

import (
	"github.com/zjrosen/cqlhl/internal/cql/grammar"
	"github.com/zjrosen/cqlhl/internal/log"
)

// TraceStack collects grammar trace events. It implements grammar.Tracer.
type TraceStack struct {
	events []grammar.Event
}

// NewTraceStack creates an empty trace recorder.
func NewTraceStack() *TraceStack {
	return &TraceStack{}
}

// Trace records ev.
func (t *TraceStack) Trace(ev grammar.Event) {
	t.events = append(t.events, ev)
}

// Events returns the recorded events in emission order.
func (t *TraceStack) Events() []grammar.Event {
	return t.events
}

// Reduce folds the recorded events into a fresh RangeStore and returns it
// together with the furthest offset consumed by a terminal rule.
func (t *TraceStack) Reduce() (*RangeStore, int) {
	return ReduceEvents(t.events)
}

type frame struct {
	rule    string
	lastPos int
}

// ReduceEvents is the pure fold behind TraceStack.Reduce. Zero-width terminal
// matches are not recorded; zero-width non-terminal matches are.
func ReduceEvents(events []grammar.Event) (*RangeStore, int) {
	store := NewRangeStore()
	var stack []frame
	lastPos := 0

	pop := func(ev grammar.Event) (frame, bool) {
		if len(stack) == 0 {
			log.Warn(log.CatGrammar, "Unbalanced trace event", "type", string(ev.Type), "rule", ev.Rule)
			return frame{}, false
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, true
	}

	for _, ev := range events {
		switch ev.Type {
		case grammar.EventEnter:
			stack = append(stack, frame{rule: ev.Rule, lastPos: ev.Location.Start.Offset})
		case grammar.EventMatch:
			top, ok := pop(ev)
			if !ok {
				continue
			}
			end := ev.Location.End.Offset
			if IsTerminal(top.rule) {
				if top.lastPos < end {
					store.SetTerminal(top.lastPos, end, top.rule)
					lastPos = max(lastPos, end)
				}
			} else {
				store.AddNonTerminal(top.lastPos, end, top.rule)
			}
		case grammar.EventFail:
			pop(ev)
		}
	}
	return store, lastPos
}
