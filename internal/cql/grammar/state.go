package grammar

import (
	"sort"
)

type state struct {
	input  []rune
	lines  []int
	pos    int
	tracer Tracer

	depth    int
	limit    int
	overflow bool
	active   map[string]int

	// silent > 0 inside predicates, where failures are not reported.
	silent     int
	maxFailPos int
	expected   map[string]struct{}
}

func newState(input string, o parseOptions) *state {
	runes := []rune(input)
	lines := []int{0}
	for i, r := range runes {
		if r == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &state{
		input:    runes,
		lines:    lines,
		tracer:   o.tracer,
		limit:    o.limit,
		active:   make(map[string]int),
		expected: make(map[string]struct{}),
	}
}

// inside reports whether rule is currently being applied.
func (s *state) inside(rule string) bool {
	return s.active[rule] > 0
}

func (s *state) call(g *Grammar, r *rule) bool {
	if s.overflow {
		return false
	}
	if s.limit > 0 && s.depth >= s.limit {
		s.overflow = true
		return false
	}

	start := s.pos
	s.emit(EventEnter, r.name, start, start)
	s.depth++
	s.active[r.name]++
	ok := r.body.match(g, s)
	s.active[r.name]--
	s.depth--

	if ok {
		s.emit(EventMatch, r.name, start, s.pos)
		return true
	}
	s.pos = start
	if r.terminal {
		s.expect(start, r.display)
	}
	s.emit(EventFail, r.name, start, start)
	return false
}

func (s *state) emit(typ EventType, rule string, from, to int) {
	if s.tracer == nil {
		return
	}
	s.tracer.Trace(Event{
		Type:     typ,
		Rule:     rule,
		Location: Location{Start: s.position(from), End: s.position(to)},
	})
}

// expect records a failed expectation, keeping only the furthest offset.
func (s *state) expect(pos int, what string) {
	if s.silent > 0 || pos < s.maxFailPos {
		return
	}
	if pos > s.maxFailPos {
		s.maxFailPos = pos
		clear(s.expected)
	}
	s.expected[what] = struct{}{}
}

func (s *state) position(offset int) Position {
	line := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > offset })
	return Position{Offset: offset, Line: line, Column: offset - s.lines[line-1] + 1}
}

func (s *state) syntaxError() *SyntaxError {
	err := &SyntaxError{
		Expected: make([]string, 0, len(s.expected)),
		Location: Location{Start: s.position(s.maxFailPos), End: s.position(s.maxFailPos)},
	}
	for what := range s.expected {
		err.Expected = append(err.Expected, what)
	}
	sort.Strings(err.Expected)
	if s.maxFailPos < len(s.input) {
		err.Found = string(s.input[s.maxFailPos])
		err.Location.End = s.position(s.maxFailPos + 1)
	} else {
		err.AtEOF = true
	}
	return err
}
