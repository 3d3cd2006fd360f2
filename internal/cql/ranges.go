// Package cql turns a grammar trace of a possibly incomplete CQL query into
// highlighted markup and the entities (attributes, structures, paradigmatic
// sub-queries) the query mentions.
package cql

import (
	"sort"

	"github.com/zjrosen/cqlhl/internal/cql/grammar"
)

// CharsRule labels the half-open rune range [From,To) of a query with a rule.
type CharsRule struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Rule string `json:"rule"`
}

// Len returns the width of the range in runes.
func (c CharsRule) Len() int {
	return c.To - c.From
}

// Contains reports whether other lies within c.
func (c CharsRule) Contains(other CharsRule) bool {
	return other.From >= c.From && other.To <= c.To
}

type rangeKey struct {
	from, to int
}

// RangeStore holds the rule applications of a single highlighting pass.
// Terminal rules are unique per range and the last write wins; non-terminal
// applications are kept in discovery order without exact duplicates.
type RangeStore struct {
	terminals    map[rangeKey]string
	nonTerminals []CharsRule
	seen         map[CharsRule]struct{}
}

// NewRangeStore creates an empty store.
func NewRangeStore() *RangeStore {
	return &RangeStore{
		terminals: make(map[rangeKey]string),
		seen:      make(map[CharsRule]struct{}),
	}
}

// IsTerminal reports whether rule names a terminal grammar rule.
func IsTerminal(rule string) bool {
	return grammar.IsTerminal(rule)
}

// SetTerminal records a terminal rule for [from,to), replacing any earlier one.
func (s *RangeStore) SetTerminal(from, to int, rule string) {
	s.terminals[rangeKey{from, to}] = rule
}

// AddNonTerminal records a non-terminal application unless it is already known.
func (s *RangeStore) AddNonTerminal(from, to int, rule string) {
	cr := CharsRule{From: from, To: to, Rule: rule}
	if _, dup := s.seen[cr]; dup {
		return
	}
	s.seen[cr] = struct{}{}
	s.nonTerminals = append(s.nonTerminals, cr)
}

// Terminals returns the terminal ranges ordered by start, longer ranges first
// on equal starts.
func (s *RangeStore) Terminals() []CharsRule {
	out := make([]CharsRule, 0, len(s.terminals))
	for k, rule := range s.terminals {
		out = append(out, CharsRule{From: k.from, To: k.to, Rule: rule})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To > out[j].To
	})
	return out
}

// NonTerminals returns the non-terminal applications in discovery order.
func (s *RangeStore) NonTerminals() []CharsRule {
	return append([]CharsRule(nil), s.nonTerminals...)
}

// nested returns the non-terminals lying within outer whose rule is one of
// rules, in discovery order. outer itself is never included.
func nested(nts []CharsRule, outer CharsRule, rules ...string) []CharsRule {
	var out []CharsRule
	for _, nt := range nts {
		if nt == outer || !outer.Contains(nt) {
			continue
		}
		for _, r := range rules {
			if nt.Rule == r {
				out = append(out, nt)
				break
			}
		}
	}
	return out
}
