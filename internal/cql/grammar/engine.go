// Package grammar implements a small PEG interpreter that reports every rule
// application to a Tracer, plus the CQL rule set built on top of it.
//
// The engine follows the tracing conventions of generated pegjs parsers: a
// rule.enter event is emitted with a zero-width location at the current
// offset, rule.match carries the consumed [start,end) span and rule.fail is
// zero-width at the start offset. Offsets are rune offsets.
package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// DefaultCallstackLimit bounds nested rule applications for a single parse.
const DefaultCallstackLimit = 500

var (
	// ErrUnknownRule is returned when the requested start rule does not exist.
	ErrUnknownRule = errors.New("unknown start rule")
	// ErrCallstackLimit is returned when rule nesting exceeds the configured limit.
	ErrCallstackLimit = errors.New("callstack limit exceeded")
)

var terminalName = regexp.MustCompile(`^[A-Z_]+$`)

// EventType identifies a trace event.
type EventType string

const (
	EventEnter EventType = "rule.enter"
	EventMatch EventType = "rule.match"
	EventFail  EventType = "rule.fail"
)

// Position is a point in the parsed input. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Location is a span of the parsed input.
type Location struct {
	Start Position
	End   Position
}

// Event is a single rule application report.
type Event struct {
	Type     EventType
	Rule     string
	Location Location
}

// Tracer receives rule application events in emission order.
type Tracer interface {
	Trace(ev Event)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(ev Event)

// Trace calls f(ev).
func (f TracerFunc) Trace(ev Event) { f(ev) }

// Option configures a single Parse call.
type Option func(*parseOptions)

type parseOptions struct {
	start  string
	tracer Tracer
	limit  int
}

// StartRule selects the rule the input must match.
func StartRule(name string) Option {
	return func(o *parseOptions) { o.start = name }
}

// WithTracer attaches a tracer to the parse.
func WithTracer(t Tracer) Option {
	return func(o *parseOptions) { o.tracer = t }
}

// WithCallstackLimit overrides DefaultCallstackLimit. Zero disables the limit.
func WithCallstackLimit(n int) Option {
	return func(o *parseOptions) { o.limit = n }
}

// Grammar is an immutable, validated rule set. It is safe for concurrent use.
type Grammar struct {
	rules     map[string]*rule
	order     []string
	start     string
	space     string
	terminals []string
}

type rule struct {
	name     string
	display  string
	terminal bool
	body     expr
}

// ruleDef declares a rule while a grammar is being built.
type ruleDef struct {
	name    string
	display string
	body    expr
}

func define(name string, body expr) ruleDef {
	return ruleDef{name: name, body: body}
}

// token declares a terminal rule; display is used in "expected" lists.
func token(name, display string, body expr) ruleDef {
	return ruleDef{name: name, display: display, body: body}
}

// build validates the definitions and panics on a malformed grammar. The
// space rule is matched around the start rule.
func build(start, space string, defs ...ruleDef) *Grammar {
	g := &Grammar{rules: make(map[string]*rule, len(defs)), start: start, space: space}
	for _, d := range defs {
		if _, dup := g.rules[d.name]; dup {
			panic(fmt.Sprintf("grammar: duplicate rule %q", d.name))
		}
		r := &rule{name: d.name, display: d.display, body: d.body, terminal: terminalName.MatchString(d.name)}
		if r.display == "" {
			r.display = d.name
		}
		g.rules[d.name] = r
		g.order = append(g.order, d.name)
		if r.terminal {
			g.terminals = append(g.terminals, d.name)
		}
	}
	for _, name := range g.order {
		r := g.rules[name]
		for _, ref := range refsOf(r.body) {
			target, ok := g.rules[ref]
			if !ok {
				panic(fmt.Sprintf("grammar: rule %q references undefined rule %q", name, ref))
			}
			if r.terminal {
				panic(fmt.Sprintf("grammar: terminal rule %q references rule %q", name, target.name))
			}
		}
	}
	for _, name := range []string{start, space} {
		if _, ok := g.rules[name]; !ok {
			panic(fmt.Sprintf("grammar: missing rule %q", name))
		}
	}
	sort.Strings(g.terminals)
	return g
}

// Rules returns every rule name in declaration order.
func (g *Grammar) Rules() []string {
	return append([]string(nil), g.order...)
}

// Terminals returns the sorted names of all terminal rules.
func (g *Grammar) Terminals() []string {
	return append([]string(nil), g.terminals...)
}

// HasRule reports whether name is defined.
func (g *Grammar) HasRule(name string) bool {
	_, ok := g.rules[name]
	return ok
}

// IsTerminal reports whether name follows the terminal naming convention.
func IsTerminal(name string) bool {
	return terminalName.MatchString(name)
}

// Parse matches input against the start rule, optionally surrounded by
// whitespace, and requires the whole input to be consumed. A failed match is
// reported as *SyntaxError.
func (g *Grammar) Parse(input string, opts ...Option) error {
	o := parseOptions{start: g.start, limit: DefaultCallstackLimit}
	for _, opt := range opts {
		opt(&o)
	}
	start, ok := g.rules[o.start]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRule, o.start)
	}

	s := newState(input, o)
	space := g.rules[g.space]
	matched := s.call(g, space) && s.call(g, start) && s.call(g, space)
	if s.overflow {
		return fmt.Errorf("%w (%d)", ErrCallstackLimit, o.limit)
	}
	if matched && s.pos == len(s.input) {
		return nil
	}
	if matched {
		s.expect(s.pos, "end of input")
	}
	return s.syntaxError()
}
