package cql

import (
	"strconv"

	"github.com/zjrosen/cqlhl/internal/cql/grammar"
)

// AttrType classifies a ParsedAttr.
type AttrType string

const (
	AttrPos       AttrType = "posattr"
	AttrStruct    AttrType = "struct"
	AttrStructAtt AttrType = "structattr"
)

// PQType classifies a paradigmatic query item.
type PQType string

const (
	PQSpecification PQType = "specification"
	PQSubset        PQType = "subset"
	PQSuperset      PQType = "superset"
)

// Range is a half-open rune range of the query.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func rangeOf(c CharsRule) *Range {
	return &Range{From: c.From, To: c.To}
}

// ParsedAttr is an attribute or structure mentioned by a query.
// A nil RangeAttr marks the nameless form. Children and Suggestions are
// never nil, so they encode as JSON lists.
type ParsedAttr struct {
	Name        string       `json:"name"`
	Value       string       `json:"value"`
	Type        AttrType     `json:"type"`
	Children    []ParsedAttr `json:"children"`
	RangeVal    *Range       `json:"rangeVal"`
	RangeAttr   *Range       `json:"rangeAttr"`
	RangeAll    Range        `json:"rangeAll"`
	Suggestions []string     `json:"suggestions"`
}

// ParsedPQItem is a sub-query of a paradigmatic query. A nil Limit means the
// item carries no limit at all.
type ParsedPQItem struct {
	Query string   `json:"query"`
	Limit *float64 `json:"limit,omitempty"`
	Type  PQType   `json:"type"`
}

// ExtractEntities walks the non-terminals in discovery order. Attribute and
// structure entities are prepended as they are found, paradigmatic items are
// appended.
func ExtractEntities(query []rune, nts []CharsRule) ([]ParsedAttr, []ParsedPQItem) {
	var attrs []ParsedAttr
	var pq []ParsedPQItem

	for _, nt := range nts {
		switch nt.Rule {
		case grammar.RuleOnePosition:
			for _, av := range ownedAttVals(nts, nt) {
				if a, ok := posAttr(query, nts, av); ok {
					attrs = append([]ParsedAttr{a}, attrs...)
				}
			}
		case grammar.RuleStructure:
			if a, ok := structAttr(query, nts, nt); ok {
				attrs = append([]ParsedAttr{a}, attrs...)
			}
		case grammar.RulePQType:
			if item, ok := pqItem(query, nts, nt, PQSpecification); ok {
				pq = append(pq, item)
			}
		case grammar.RulePQAlways:
			if item, ok := pqItem(query, nts, nt, PQSuperset); ok {
				pq = append(pq, item)
			}
		case grammar.RulePQNever:
			if item, ok := pqItem(query, nts, nt, PQSubset); ok {
				pq = append(pq, item)
			}
		}
	}
	return attrs, pq
}

// ownedAttVals returns the AttVal applications inside pos that do not belong
// to a Position nested deeper inside it (meet and union operands).
func ownedAttVals(nts []CharsRule, pos CharsRule) []CharsRule {
	inner := nested(nts, pos, grammar.RulePosition)
	var out []CharsRule
	for _, av := range nested(nts, pos, grammar.RuleAttVal) {
		owned := true
		for _, p := range inner {
			if p.Len() < pos.Len() && p.Contains(av) {
				owned = false
				break
			}
		}
		if owned {
			out = append(out, av)
		}
	}
	return out
}

// attValParts returns the single name and single value of an AttVal.
func attValParts(nts []CharsRule, av CharsRule, valueRules ...string) (name, value CharsRule, ok bool) {
	names := nested(nts, av, grammar.RuleAttName)
	values := nested(nts, av, valueRules...)
	if len(names) != 1 || len(values) != 1 {
		return CharsRule{}, CharsRule{}, false
	}
	return names[0], values[0], true
}

func substr(query []rune, c CharsRule) string {
	if c.From < 0 || c.To > len(query) || c.From > c.To {
		return ""
	}
	return string(query[c.From:c.To])
}

func posAttr(query []rune, nts []CharsRule, av CharsRule) (ParsedAttr, bool) {
	name, value, ok := attValParts(nts, av, grammar.RuleRegExpRaw, grammar.RuleSimpleString)
	if !ok {
		return ParsedAttr{}, false
	}
	return ParsedAttr{
		Name:        substr(query, name),
		Value:       substr(query, value),
		Type:        AttrPos,
		Children:    []ParsedAttr{},
		RangeAttr:   rangeOf(name),
		RangeVal:    rangeOf(value),
		RangeAll:    Range{From: name.From, To: value.To},
		Suggestions: []string{},
	}, true
}

// structName finds the structure's own name: the last AttName inside it that
// is not part of one of its attribute conditions.
func structName(nts []CharsRule, st CharsRule) (CharsRule, bool) {
	attVals := nested(nts, st, grammar.RuleAttVal)
	var found CharsRule
	ok := false
	for _, n := range nested(nts, st, grammar.RuleAttName) {
		inAttVal := false
		for _, av := range attVals {
			if av.Contains(n) {
				inAttVal = true
				break
			}
		}
		if !inAttVal {
			found, ok = n, true
		}
	}
	return found, ok
}

func structAttr(query []rune, nts []CharsRule, st CharsRule) (ParsedAttr, bool) {
	name, ok := structName(nts, st)
	if !ok {
		return ParsedAttr{}, false
	}
	children := []ParsedAttr{}
	for _, av := range nested(nts, st, grammar.RuleAttVal) {
		n, v, ok := attValParts(nts, av, grammar.RuleRegExpRaw)
		if !ok {
			continue
		}
		children = append(children, ParsedAttr{
			Name:        substr(query, n),
			Value:       substr(query, v),
			Type:        AttrStructAtt,
			Children:    []ParsedAttr{},
			RangeAttr:   rangeOf(n),
			RangeVal:    rangeOf(v),
			RangeAll:    Range{From: n.From, To: v.To},
			Suggestions: []string{},
		})
	}
	return ParsedAttr{
		Name:        substr(query, name),
		Type:        AttrStruct,
		Children:    children,
		RangeAttr:   rangeOf(name),
		RangeAll:    Range{From: st.From, To: st.To},
		Suggestions: []string{},
	}, true
}

func pqItem(query []rune, nts []CharsRule, nt CharsRule, typ PQType) (ParsedPQItem, bool) {
	queries := nested(nts, nt, grammar.RuleQuery)
	if len(queries) == 0 {
		return ParsedPQItem{}, false
	}
	item := ParsedPQItem{Query: substr(query, queries[0]), Type: typ}
	if typ != PQSpecification {
		limit := pqLimit(query, nts, nt)
		item.Limit = &limit
	}
	return item, true
}

func pqLimit(query []rune, nts []CharsRule, nt CharsRule) float64 {
	limits := nested(nts, nt, grammar.RulePQLimit)
	if len(limits) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(substr(query, limits[0]), 64)
	if err != nil {
		return 0
	}
	return v
}
