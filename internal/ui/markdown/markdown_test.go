package markdown

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestNew_Styles(t *testing.T) {
	for _, style := range append([]string{"", "auto"}, Styles...) {
		r, err := New(60, style)
		require.NoError(t, err, style)
		require.Equal(t, 60, r.Width())
	}

	_, err := New(60, "neon")
	require.ErrorContains(t, err, `unknown markdown style "neon"`)
}

func TestRender_PlainText(t *testing.T) {
	r, err := New(40, "ascii")
	require.NoError(t, err)

	out, err := r.Render("# Positions\n\nA position matches one token.")
	require.NoError(t, err)
	plain := ansi.Strip(out)
	require.Contains(t, plain, "Positions")
	require.Contains(t, plain, "A position matches one token.")
}

func TestRender_Wraps(t *testing.T) {
	r, err := New(20, "notty")
	require.NoError(t, err)

	out, err := r.Render(strings.Repeat("word ", 20))
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(ansi.Strip(out), "\n"), "\n") {
		require.LessOrEqual(t, ansi.StringWidth(strings.TrimRight(line, " ")), 20)
	}
}
