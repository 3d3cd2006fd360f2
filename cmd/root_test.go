package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cqlhl/internal/config"
	"github.com/zjrosen/cqlhl/internal/cql"
)

// run executes the root command with a fresh viper and default flags. A
// config file in a temp dir keeps the user's own config out of the way.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	viper.Reset()
	bindFlags()
	_ = viper.BindPFlag("format", highlightCmd.Flags().Lookup("format"))
	cfg = config.Config{}
	resetFlags(rootCmd)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestHighlight_HTML(t *testing.T) {
	out, stderr, err := run(t, "", "highlight", `[word="dog"]`)
	require.NoError(t, err)
	require.Empty(t, stderr)
	require.Contains(t, out, `<span class="sh-bracket">[</span>`)
	require.Contains(t, out, `class="sh-attr-known"`, "the default corpus knows word")
}

func TestHighlight_Stdin(t *testing.T) {
	out, _, err := run(t, "[word=\"dog\"]\n", "highlight")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "</span>\n"))
}

func TestHighlight_ReportsErrorOnStderr(t *testing.T) {
	out, stderr, err := run(t, "", "highlight", `[word="a"]`, "xyz")
	require.NoError(t, err)
	require.Contains(t, out, `<span class="sh-error"`)
	require.Equal(t, "Unrecognized input x at column 12\n", stderr)

	_, stderr, err = run(t, "", "highlight", "--quiet", `[word="a"] xyz`)
	require.NoError(t, err)
	require.Empty(t, stderr)
}

func TestHighlight_ANSIAndLocale(t *testing.T) {
	out, stderr, err := run(t, "", "highlight", "-f", "ansi", "-l", "cs", `[word="a"] xyz`)
	require.NoError(t, err)
	require.Equal(t, "[word=\"a\"] xyz\n", ansi.Strip(out))
	require.Equal(t, "Nerozpoznaný vstup x na pozici 12\n", stderr)
}

func TestHighlight_InvalidConfig(t *testing.T) {
	_, _, err := run(t, "", "highlight", "-t", "kwic", "[]")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestHighlight_NoQuery(t *testing.T) {
	_, _, err := run(t, "", "highlight")
	require.ErrorIs(t, err, errNoQuery)
}

func TestEntities_JSON(t *testing.T) {
	out, _, err := run(t, "", "entities", "-t", "pquery", `[word="a"] !within [word="b"]`)
	require.NoError(t, err)

	var got entitiesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Attrs, 2)
	require.Len(t, got.PQItems, 2)
	require.Equal(t, cql.PQSpecification, got.PQItems[0].Type)
	require.Equal(t, cql.PQSubset, got.PQItems[1].Type)
	require.Empty(t, got.Error)
	require.Empty(t, got.Markup)
}

func TestEntities_EmptyListsAndMarkup(t *testing.T) {
	out, _, err := run(t, "", "entities", "--compact", "--markup", "[]")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, "\n"))
	require.Contains(t, out, `"attrs":[]`)
	require.Contains(t, out, `"pqItems":[]`)
	require.Contains(t, out, `"markup":"<span class=\"sh-bracket\">`)
}

func TestCheck(t *testing.T) {
	out, _, err := run(t, "", "check", `[word="dog"] within <s/>`)
	require.NoError(t, err)
	require.Equal(t, "ok\n", out)

	_, _, err = run(t, "", "check", `[word=`)
	require.ErrorIs(t, err, cql.ErrInvalidQuery)
	require.EqualError(t, err, "invalid query: Unrecognized input end of input at column 7")
}

func TestSyntax(t *testing.T) {
	out, _, err := run(t, "", "syntax", "--style", "notty", "--width", "60")
	require.NoError(t, err)
	plain := ansi.Strip(out)
	require.Contains(t, plain, "Paradigmatic queries")
	for _, ex := range syntaxExamples {
		require.Contains(t, plain, ex.query)
	}

	out, _, err = run(t, "", "syntax", "--plain")
	require.NoError(t, err)
	require.Equal(t, syntaxDoc, out)
}

func TestConfigInitAndSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cqlhl", "config.yaml")

	out, _, err := run(t, "", "config", "init", path)
	require.NoError(t, err)
	require.Equal(t, "wrote "+path+"\n", out)

	_, _, err = run(t, "", "config", "init", path)
	require.ErrorContains(t, err, "already exists")

	_, _, err = run(t, "", "config", "init", "--force", path)
	require.NoError(t, err)

	_, _, err = run(t, "", "--config", path, "config", "set", "supertype", "wlist")
	require.NoError(t, err)
	_, _, err = run(t, "", "--config", path, "config", "set", "cache.ttl", "1h")
	require.NoError(t, err)
	_, _, err = run(t, "", "--config", path, "config", "set", "wrap_long_query", "true")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "supertype: wlist")
	require.Contains(t, string(data), "wrap_long_query: true")
	require.Contains(t, string(data), "# Query supertype: conc, pquery or wlist")

	_, _, err = run(t, "", "--config", path, "config", "set", "theme", "dark")
	require.ErrorIs(t, err, config.ErrUnknownKey)

	_, _, err = run(t, "", "--config", path, "config", "set", "format", "pdf")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestConfigShow(t *testing.T) {
	out, _, err := run(t, "", "-t", "pquery", "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "supertype: pquery")
	require.Contains(t, out, "corpus: default")
}

func TestReadQuery(t *testing.T) {
	q, err := readQuery([]string{`[word="a"]`, `[]`}, strings.NewReader("ignored"))
	require.NoError(t, err)
	require.Equal(t, `[word="a"] []`, q)

	q, err = readQuery([]string{"-"}, strings.NewReader("[]\r\n"))
	require.NoError(t, err)
	require.Equal(t, "[]", q)

	q, err = readQuery(nil, strings.NewReader("[]\n\n"))
	require.NoError(t, err)
	require.Equal(t, "[]\n", q)

	_, err = readQuery(nil, strings.NewReader(""))
	require.ErrorIs(t, err, errNoQuery)
}
