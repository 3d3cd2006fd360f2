package cql

import (
	"sort"
	"strings"

	"github.com/zjrosen/cqlhl/internal/cql/grammar"
	"github.com/zjrosen/cqlhl/internal/log"
)

// StyledChunk is a terminal range together with its rendered form.
type StyledChunk struct {
	From   int
	To     int
	Value  string
	Markup string
}

// BuildChunks turns the sorted terminal ranges into a strictly increasing,
// non-overlapping chunk sequence. Ranges past the end of the query and ranges
// starting before the end of an already accepted chunk are dropped.
func BuildChunks(query []rune, terminals []CharsRule, r Renderer) []StyledChunk {
	chunks := make([]StyledChunk, 0, len(terminals))
	maxTo := 0
	for _, t := range terminals {
		if t.To > len(query) || t.From < maxTo {
			continue
		}
		maxTo = t.To
		class, ok := TerminalClass(t.Rule)
		if !ok {
			log.Warn(log.CatHighlight, "No markup for terminal rule", "rule", t.Rule)
		}
		text := substr(query, t)
		chunks = append(chunks, StyledChunk{From: t.From, To: t.To, Value: text, Markup: r.Terminal(class, text)})
	}
	return chunks
}

type colorizer struct {
	query   []rune
	base    int
	nts     []CharsRule
	chunks  []StyledChunk
	buckets [][]string
	opts    *Options
}

// colorize renders one pass. base is the offset of query within the full
// query the user typed.
func colorize(query []rune, store *RangeStore, base int, opts *Options) string {
	c := &colorizer{
		query: query,
		base:  base,
		nts:   store.NonTerminals(),
		opts:  opts,
	}
	c.chunks = BuildChunks(query, store.Terminals(), opts.Renderer)
	c.buckets = make([][]string, len(c.chunks)+1)
	c.insertions()

	var b strings.Builder
	for i, ch := range c.chunks {
		for _, s := range c.buckets[i] {
			b.WriteString(s)
		}
		b.WriteString(ch.Markup)
	}
	for _, s := range c.buckets[len(c.chunks)] {
		b.WriteString(s)
	}
	return b.String()
}

// convertRange maps query offsets to the indices of the chunk starting at i1
// and the chunk ending at i2. Either index is -1 when no chunk boundary
// coincides exactly.
func (c *colorizer) convertRange(i1, i2 int) (int, int) {
	first, last := -1, -1
	for i, ch := range c.chunks {
		if ch.From == i1 {
			first = i
		}
		if ch.To == i2 {
			last = i
		}
	}
	return first, last
}

// wrap surrounds the chunks covering rng. Opening markup is appended to its
// bucket and closing markup prepended, so wraps made earlier enclose wraps
// made later on the same boundaries.
func (c *colorizer) wrap(rng CharsRule, m Mark) bool {
	first, last := c.convertRange(rng.From, rng.To)
	if first < 0 || last < first {
		return false
	}
	c.buckets[first] = append(c.buckets[first], c.opts.Renderer.Open(m))
	c.buckets[last+1] = append([]string{c.opts.Renderer.Close(m)}, c.buckets[last+1]...)
	return true
}

func (c *colorizer) lineBreak(at int) {
	first, _ := c.convertRange(at, -1)
	if first < 0 {
		return
	}
	c.buckets[first] = append(c.buckets[first], c.opts.Renderer.LineBreak())
}

func (c *colorizer) tr(key string, subs map[string]string) string {
	return c.opts.Translator.Translate(key, subs)
}

// insertions walks the non-terminals from the last discovered to the first,
// so outer rules are decorated before the rules nested in them.
func (c *colorizer) insertions() {
	ordinals := positionOrdinals(c.nts)
	for i := len(c.nts) - 1; i >= 0; i-- {
		nt := c.nts[i]
		switch nt.Rule {
		case grammar.RulePosition:
			if n, ok := ordinals[nt]; ok && c.opts.WrapLongQuery && n%3 == 0 {
				c.lineBreak(nt.From)
			}
			for _, av := range ownedAttVals(c.nts, nt) {
				c.decorateAttVal(av)
			}
		case grammar.RuleStructure:
			c.decorateStructure(nt)
		case grammar.RuleWithinContainingPart:
			if c.opts.WrapLongQuery {
				c.lineBreak(nt.From)
			}
		case grammar.RuleRgLookOperator:
			c.wrap(nt, Mark{Kind: MarkLook})
		}
	}
}

// decorateAttVal skips an AttVal without exactly one name and one value,
// like the entity extraction does.
func (c *colorizer) decorateAttVal(av CharsRule) {
	name, v, ok := attValParts(c.nts, av, grammar.RuleRegExpRaw, grammar.RuleSimpleString)
	if !ok {
		return
	}
	nameStr := substr(c.query, name)
	if c.opts.Attrs.AttrExists(nameStr) {
		c.wrap(name, Mark{Kind: MarkAttr, Title: c.tr(KeyPosAttrTooltip, map[string]string{"name": nameStr})})
	}

	start, end := c.base+v.From, c.base+v.To
	switch {
	case c.opts.Attrs.IsTagAttr(nameStr):
		c.wrap(v, Mark{Kind: MarkTag, Title: c.tr(KeyTagEditorTooltip, nil), Data: dataIdx(start, end)})
	case c.opts.WrapRange != nil:
		if prefix, suffix, ok := c.opts.WrapRange(start, end); ok {
			c.wrap(v, Mark{Kind: MarkCustom, Open: prefix, Close: suffix})
		}
	}
}

func (c *colorizer) decorateStructure(st CharsRule) {
	name, ok := structName(c.nts, st)
	if !ok {
		return
	}
	structStr := substr(c.query, name)
	if c.opts.Attrs.StructExists(structStr) {
		c.wrap(name, Mark{
			Kind:  MarkStruct,
			Title: c.tr(KeyStructTooltip, map[string]string{"name": structStr}),
			Data:  []DataAttr{{Name: "struct", Value: structStr}},
		})
	}
	for _, av := range nested(c.nts, st, grammar.RuleAttVal) {
		names := nested(c.nts, av, grammar.RuleAttName)
		if len(names) != 1 || names[0] == name {
			continue
		}
		attrStr := substr(c.query, names[0])
		if !c.opts.Attrs.StructAttrExists(structStr, attrStr) {
			continue
		}
		c.wrap(names[0], Mark{
			Kind:  MarkStructAttr,
			Title: c.tr(KeyStructAttrTooltip, map[string]string{"struct": structStr, "name": attrStr}),
			Data:  []DataAttr{{Name: "struct", Value: structStr}, {Name: "attr", Value: attrStr}},
		})
	}
}

// positionOrdinals numbers the Positions not nested in another Position in
// source order, starting at 1.
func positionOrdinals(nts []CharsRule) map[CharsRule]int {
	var top []CharsRule
	for _, nt := range nts {
		if nt.Rule != grammar.RulePosition {
			continue
		}
		if len(enclosing(nts, nt, grammar.RulePosition)) == 0 {
			top = append(top, nt)
		}
	}
	sort.Slice(top, func(i, j int) bool { return top[i].From < top[j].From })
	out := make(map[CharsRule]int, len(top))
	for i, p := range top {
		out[p] = i + 1
	}
	return out
}

// enclosing returns the non-terminals of the given rules that strictly
// contain inner.
func enclosing(nts []CharsRule, inner CharsRule, rules ...string) []CharsRule {
	var out []CharsRule
	for _, nt := range nts {
		if nt == inner || !nt.Contains(inner) || nt.Len() == inner.Len() {
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
