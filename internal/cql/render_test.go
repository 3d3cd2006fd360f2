package cql

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	// Force colors in CI so styled output is deterministic.
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func TestHTMLRenderer_Terminal(t *testing.T) {
	r := HTMLRenderer{}
	require.Equal(t, `<span class="sh-bracket">[</span>`, r.Terminal(ClassBracket, "["))
	require.Equal(t, `<span class="sh-regexp">&#34;</span>`, r.Terminal(ClassRegexp, `"`))
	require.Equal(t, "a &lt; b", r.Terminal(ClassNone, "a < b"))
}

func TestHTMLRenderer_Marks(t *testing.T) {
	r := HTMLRenderer{}

	tag := Mark{Kind: MarkTag, Title: "Edit tag", Data: dataIdx(20, 23)}
	require.Equal(t, `<a class="sh-tag" data-leftIdx="20" data-rightIdx="23" title="Edit tag">`, r.Open(tag))
	require.Equal(t, "</a>", r.Close(tag))

	st := Mark{Kind: MarkStructAttr, Title: `<"doc">`, Data: []DataAttr{{Name: "struct", Value: "doc"}, {Name: "attr", Value: "id"}}}
	require.Equal(t, `<span class="sh-struct-known" data-struct="doc" data-attr="id" title="&lt;&#34;doc&#34;&gt;">`, r.Open(st))
	require.Equal(t, "</span>", r.Close(st))

	require.Equal(t, `<span class="sh-attr-known">`, r.Open(Mark{Kind: MarkAttr}))
	require.Equal(t, `<span class="sh-rg-look">`, r.Open(Mark{Kind: MarkLook}))

	custom := Mark{Kind: MarkCustom, Open: "<mark>", Close: "</mark>"}
	require.Equal(t, "<mark>", r.Open(custom))
	require.Equal(t, "</mark>", r.Close(custom))
}

func TestHTMLRenderer_Unrecognized(t *testing.T) {
	r := HTMLRenderer{}
	require.Equal(t,
		`<span class="sh-error" title="bad &amp; worse">x&lt;</span>`,
		r.Unrecognized("x<", "bad & worse"))
	require.Equal(t, "<br />", r.LineBreak())
}

func TestANSIRenderer_StylesTerminals(t *testing.T) {
	r := ANSIRenderer{}

	out := r.Terminal(ClassBracket, "[")
	require.Contains(t, out, "\x1b[")
	require.Equal(t, "[", ansi.Strip(out))

	require.Equal(t, " ", r.Terminal(ClassNone, " "))
	require.Empty(t, r.Open(Mark{Kind: MarkAttr, Title: "x"}))
	require.Empty(t, r.Close(Mark{Kind: MarkAttr}))
	require.Equal(t, "\n", r.LineBreak())
}

func TestANSIRenderer_KeepsLinesAndTabs(t *testing.T) {
	r := ANSIRenderer{}

	out := r.Terminal(ClassRegexp, "a\tb\nc")
	require.Equal(t, "a\tb\nc", ansi.Strip(out))

	out = r.Unrecognized("xyz", "ignored")
	require.Equal(t, "xyz", ansi.Strip(out))
	require.NotContains(t, out, "ignored")
}

func TestHighlight_ANSIStripsToQuery(t *testing.T) {
	queries := []string{
		`[word="dog"]`,
		`[word="a"] within <doc id="x"/>`,
		`[word="a"] xyz [tag="N"]`,
		"[word=\"a\"]\n[tag=\"N\"]",
		`(meet [lemma="kůň"] [] -2 2)`,
	}
	for _, q := range queries {
		res, err := Highlight(q, Options{Renderer: ANSIRenderer{}, WrapLongQuery: false})
		require.NoError(t, err)
		require.Equal(t, q, ansi.Strip(res.Markup))
	}
}
