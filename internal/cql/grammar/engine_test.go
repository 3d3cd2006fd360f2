package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type recorder struct {
	events []Event
}

func (r *recorder) Trace(ev Event) { r.events = append(r.events, ev) }

func TestParse_ValidQueries(t *testing.T) {
	tests := []struct {
		name  string
		query string
		rule  string
	}{
		{"single position", `[word="dog"]`, RuleQuery},
		{"surrounding whitespace", `  [word="dog"]  `, RuleQuery},
		{"regexp position", `"dogs?"`, RuleQuery},
		{"negated attribute", `[lemma!="be"]`, RuleQuery},
		{"exact match", `[word=="a.b"]`, RuleQuery},
		{"conjunction and disjunction", `[word="a" & tag="N.*" | lemma="b"]`, RuleQuery},
		{"empty position", `[]`, RuleQuery},
		{"sequence", `[word="a"] [] [tag="V.*"]`, RuleQuery},
		{"repetition", `[]{1,3} [word="x"]+ []*`, RuleQuery},
		{"alternatives", `[word="a"] | [word="b"]`, RuleQuery},
		{"within structure", `[word="a"] within <s/>`, RuleQuery},
		{"within structure attr", `[word="a"] within <doc id="x" & title="y"/>`, RuleQuery},
		{"not containing", `<s/> !containing [word="a"]`, RuleQuery},
		{"open and close tags", `<s> [word="a"] </s>`, RuleQuery},
		{"labelled positions", `1:[word="a"] 2:[] & 1.tag = 2.tag`, RuleQuery},
		{"meet", `(meet [word="a"] [tag="N"] -2 2)`, RuleQuery},
		{"union", `(union [word="a"] [word="b"])`, RuleQuery},
		{"group within", `([word="a"] within <s/>)`, RuleQuery},
		{"ws and term", `[ws("a", "b", "c") & term("x")]`, RuleQuery},
		{"swap and ccoll", `[swap(1, word="a") | ccoll(1, 2, tag="N")]`, RuleQuery},
		{"regexp syntax", `"(?:ab|c)[^a-z\]]{2,}x.*$"`, RuleQuery},
		{"look-ahead", `"a(?=b)(?<!c)"`, RuleQuery},
		{"trailing semicolon", `[word="a"];`, RuleQuery},
		{"attribute named like keyword", `[ws="a" & within="b"]`, RuleQuery},
		{"unicode", `[word="kůň"]`, RuleQuery},
		{"paradigmatic", `[word="a"] !within [word="b"]`, RulePQuery},
		{"paradigmatic with limits", `[word="a"] within {0.5} [tag="N"] !within {2} [word="b"]`, RulePQuery},
		{"bare regexp", `dog|cat.*`, RuleRegExpRaw},
		{"quoted regexp", `"dog"`, RuleRegExpRaw},
		{"within part", `<s/> [word="x"]`, RuleWithinContainingPart},
		{"sequence rule", `[word="x"] | [tag="y"]`, RuleSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CQL.Parse(tt.query, StartRule(tt.rule))
			require.NoError(t, err)
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		found  string
		atEOF  bool
		column int
	}{
		{"unterminated string", `[word="dog`, "", true, 11},
		{"trailing garbage", `[word="dog"] xyz`, "x", false, 14},
		{"missing value", `[word=]`, "]", false, 7},
		{"unbalanced bracket", `[word="a"`, "", true, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CQL.Parse(tt.query)
			var synErr *SyntaxError
			require.ErrorAs(t, err, &synErr)
			require.Equal(t, tt.found, synErr.Found)
			require.Equal(t, tt.atEOF, synErr.AtEOF)
			require.Equal(t, tt.column, synErr.Location.Start.Column)
			require.NotEmpty(t, synErr.Expected)
		})
	}
}

func TestParse_SyntaxErrorMessage(t *testing.T) {
	err := CQL.Parse(`[word="dog`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1, column 11")
	require.Contains(t, err.Error(), "end of input found")
}

func TestParse_SyntaxErrorLineAndColumn(t *testing.T) {
	err := CQL.Parse("[word=\"a\"]\n[word=]")
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	require.Equal(t, 2, synErr.Location.Start.Line)
	require.Equal(t, 7, synErr.Location.Start.Column)
	require.Equal(t, 17, synErr.Location.Start.Offset)
}

func TestParse_UnknownRule(t *testing.T) {
	err := CQL.Parse(`[]`, StartRule("Nope"))
	require.ErrorIs(t, err, ErrUnknownRule)
}

func TestParse_CallstackLimit(t *testing.T) {
	err := CQL.Parse(`[word="a"]`, WithCallstackLimit(5))
	require.ErrorIs(t, err, ErrCallstackLimit)

	err = CQL.Parse(`[word="a"]`, WithCallstackLimit(0))
	require.NoError(t, err)
}

func TestParse_WithinClauseBelongsToPQuery(t *testing.T) {
	rec := &recorder{}
	err := CQL.Parse(`[word="a"] !within [word="b"]`, StartRule(RulePQuery), WithTracer(rec))
	require.NoError(t, err)

	spans := map[string][2]int{}
	for _, ev := range rec.events {
		if ev.Type == EventMatch && (ev.Rule == RulePQType || ev.Rule == RulePQNever) {
			spans[ev.Rule] = [2]int{ev.Location.Start.Offset, ev.Location.End.Offset}
		}
	}
	require.Equal(t, [2]int{0, 10}, spans[RulePQType])
	require.Equal(t, [2]int{11, 29}, spans[RulePQNever])
}

func TestTrace_EventLocations(t *testing.T) {
	var lbracket []Event
	tracer := TracerFunc(func(ev Event) {
		if ev.Rule == "LBRACKET" {
			lbracket = append(lbracket, ev)
		}
	})
	require.NoError(t, CQL.Parse(`[]`, WithTracer(tracer)))

	require.NotEmpty(t, lbracket)
	enter := lbracket[0]
	require.Equal(t, EventEnter, enter.Type)
	require.Equal(t, 0, enter.Location.Start.Offset)
	require.Equal(t, 0, enter.Location.End.Offset)

	// The following attempt at offset 2 fails, so the match is the second event.
	require.GreaterOrEqual(t, len(lbracket), 2)
	match := lbracket[1]
	require.Equal(t, EventMatch, match.Type)
	require.Equal(t, 0, match.Location.Start.Offset)
	require.Equal(t, 1, match.Location.End.Offset)
}

func TestTerminals(t *testing.T) {
	terms := CQL.Terminals()
	require.Contains(t, terms, Space)
	require.Contains(t, terms, "ATTR_CHARS")
	require.Contains(t, terms, "RG_CHARS")
	for _, name := range terms {
		require.True(t, IsTerminal(name), name)
	}
	for _, name := range CQL.Rules() {
		require.True(t, CQL.HasRule(name))
	}
	require.False(t, IsTerminal("Query"))
	require.False(t, IsTerminal("RgAtom"))
}

func TestBuild_PanicsOnBadGrammar(t *testing.T) {
	require.Panics(t, func() {
		build("A", "_", define("A", ref("B")), token("_", "ws", chars(0, isSpace)))
	})
	require.Panics(t, func() {
		build("A", "_", define("A", ref("X")), token("X", "x", ref("_")), token("_", "ws", chars(0, isSpace)))
	})
	require.Panics(t, func() {
		build("A", "_", define("A", lit("a")), define("A", lit("b")), token("_", "ws", chars(0, isSpace)))
	})
}

func genQueryish() *rapid.Generator[string] {
	alphabet := []rune(`[]()<>{}="'!&|:;,./\*+?^$-_ aw0519` + "\t\nč")
	return rapid.StringOf(rapid.RuneFrom(alphabet))
}

// Every enter is closed by a match or a fail of the same rule, and terminal
// rules never apply other rules.
func TestTrace_BalancedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := genQueryish().Draw(t, "input")
		rule := rapid.SampledFrom([]string{RulePQuery, RuleQuery, RuleWithinContainingPart, RuleSequence, RuleRegExpRaw}).Draw(t, "rule")

		rec := &recorder{}
		err := CQL.Parse(input, StartRule(rule), WithTracer(rec))
		if err != nil {
			var synErr *SyntaxError
			if !errors.As(err, &synErr) && !errors.Is(err, ErrCallstackLimit) {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		var stack []string
		for _, ev := range rec.events {
			switch ev.Type {
			case EventEnter:
				if len(stack) > 0 && IsTerminal(stack[len(stack)-1]) {
					t.Fatalf("terminal %s applied %s", stack[len(stack)-1], ev.Rule)
				}
				stack = append(stack, ev.Rule)
			case EventMatch, EventFail:
				if len(stack) == 0 || stack[len(stack)-1] != ev.Rule {
					t.Fatalf("unbalanced %s of %s", ev.Type, ev.Rule)
				}
				stack = stack[:len(stack)-1]
				if ev.Location.End.Offset < ev.Location.Start.Offset {
					t.Fatalf("negative span for %s", ev.Rule)
				}
				if ev.Type == EventFail && ev.Location.End.Offset != ev.Location.Start.Offset {
					t.Fatalf("fail of %s is not zero-width", ev.Rule)
				}
			}
		}
		if len(stack) != 0 {
			t.Fatalf("unclosed rules: %v", stack)
		}
	})
}
