package grammar

import (
	"slices"
	"unicode"
)

// expr is a parsing expression. match either consumes input and returns true
// or leaves the position untouched and returns false.
type expr interface {
	match(g *Grammar, s *state) bool
}

type (
	seqExpr    struct{ items []expr }
	choiceExpr struct{ alts []expr }
	optExpr    struct{ e expr }
	starExpr   struct{ e expr }
	andExpr    struct{ e expr }
	notExpr    struct{ e expr }
	refExpr    struct{ name string }
	litExpr    struct{ text []rune }
	classExpr  struct {
		fn    func(rune) bool
		least int
	}
	runeExpr struct{ fn func(rune) bool }
	whenExpr struct{ fn func(s *state) bool }
)

func seq(items ...expr) expr { return seqExpr{items: items} }
func alt(alts ...expr) expr { return choiceExpr{alts: alts} }
func opt(items ...expr) expr { return optExpr{e: seq(items...)} }
func star(items ...expr) expr { return starExpr{e: seq(items...)} }
func plus(items ...expr) expr {
	e := seq(items...)
	return seq(e, starExpr{e: e})
}
func and(e expr) expr { return andExpr{e: e} }
func not(e expr) expr { return notExpr{e: e} }
func ref(name string) expr { return refExpr{name: name} }
func lit(text string) expr { return litExpr{text: []rune(text)} }
func when(fn func(*state) bool) expr { return whenExpr{fn: fn} }

// chars greedily matches runes accepted by fn, requiring at least `least` of them.
func chars(least int, fn func(rune) bool) expr { return classExpr{fn: fn, least: least} }

// anyOf matches one rune from set.
func anyOf(set string) expr {
	rs := []rune(set)
	return runeExpr{fn: func(r rune) bool { return slices.Contains(rs, r) }}
}

// anyRune matches any single rune.
func anyRune() expr {
	return runeExpr{fn: func(rune) bool { return true }}
}

// keyword matches text not followed by an identifier character.
func keyword(text string) expr {
	return seq(lit(text), not(chars(1, isIdentChar)))
}

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (e seqExpr) match(g *Grammar, s *state) bool {
	start := s.pos
	for _, item := range e.items {
		if !item.match(g, s) {
			s.pos = start
			return false
		}
	}
	return true
}

func (e choiceExpr) match(g *Grammar, s *state) bool {
	start := s.pos
	for _, a := range e.alts {
		if a.match(g, s) {
			return true
		}
		s.pos = start
		if s.overflow {
			return false
		}
	}
	return false
}

func (e optExpr) match(g *Grammar, s *state) bool {
	start := s.pos
	if !e.e.match(g, s) {
		s.pos = start
	}
	return !s.overflow
}

func (e starExpr) match(g *Grammar, s *state) bool {
	for {
		start := s.pos
		if !e.e.match(g, s) {
			s.pos = start
			return !s.overflow
		}
		if s.pos == start {
			return true
		}
	}
}

func (e andExpr) match(g *Grammar, s *state) bool {
	start := s.pos
	s.silent++
	ok := e.e.match(g, s)
	s.silent--
	s.pos = start
	return ok
}

func (e notExpr) match(g *Grammar, s *state) bool {
	start := s.pos
	s.silent++
	ok := e.e.match(g, s)
	s.silent--
	s.pos = start
	return !ok && !s.overflow
}

func (e refExpr) match(g *Grammar, s *state) bool {
	return s.call(g, g.rules[e.name])
}

func (e litExpr) match(_ *Grammar, s *state) bool {
	if len(s.input)-s.pos < len(e.text) {
		return false
	}
	for i, r := range e.text {
		if s.input[s.pos+i] != r {
			return false
		}
	}
	s.pos += len(e.text)
	return true
}

func (e classExpr) match(_ *Grammar, s *state) bool {
	end := s.pos
	for end < len(s.input) && e.fn(s.input[end]) {
		end++
	}
	if end-s.pos < e.least {
		return false
	}
	s.pos = end
	return true
}

func (e runeExpr) match(_ *Grammar, s *state) bool {
	if s.pos >= len(s.input) || !e.fn(s.input[s.pos]) {
		return false
	}
	s.pos++
	return true
}

func (e whenExpr) match(_ *Grammar, s *state) bool {
	return e.fn(s)
}

// refsOf lists the rule names referenced anywhere inside e.
func refsOf(e expr) []string {
	switch v := e.(type) {
	case refExpr:
		return []string{v.name}
	case seqExpr:
		return refsOfAll(v.items)
	case choiceExpr:
		return refsOfAll(v.alts)
	case optExpr:
		return refsOf(v.e)
	case starExpr:
		return refsOf(v.e)
	case andExpr:
		return refsOf(v.e)
	case notExpr:
		return refsOf(v.e)
	}
	return nil
}

func refsOfAll(es []expr) []string {
	var out []string
	for _, e := range es {
		out = append(out, refsOf(e)...)
	}
	return out
}
