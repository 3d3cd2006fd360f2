package cmd

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/cqlhl/internal/cql"
	"github.com/zjrosen/cqlhl/internal/ui/markdown"
)

//go:embed syntax.md
var syntaxDoc string

// syntaxExamples are printed highlighted after the reference.
var syntaxExamples = []struct {
	supertype cql.Supertype
	query     string
}{
	{cql.SupertypeConc, `[lemma="dog" & tag="N.*"]`},
	{cql.SupertypeConc, `"the" []{0,2} [tag="J.*"]? [word="cats?"]`},
	{cql.SupertypeConc, `1:[tag="V.*"] [] 2:[] & 1.lemma = 2.lemma`},
	{cql.SupertypeConc, `[word="bank"] within <doc title="Finance.*"/>`},
	{cql.SupertypeConc, `(meet [lemma="take"] [lemma="part"] -2 2)`},
	{cql.SupertypePQuery, `[word="a"] within {0.5} [tag="N"] !within [word="b"]`},
	{cql.SupertypeWList, `"colou?r(ed|s)?"`},
}

var syntaxCmd = &cobra.Command{
	Use:   "syntax",
	Short: "Show a CQL syntax reference with highlighted examples",
	RunE:  runSyntax,
}

func init() {
	rootCmd.AddCommand(syntaxCmd)

	syntaxCmd.Flags().Int("width", 80, "word wrap width")
	syntaxCmd.Flags().String("style", "auto", "markdown style: auto, dark, light, notty or ascii")
	syntaxCmd.Flags().Bool("plain", false, "print the raw markdown")
}

func runSyntax(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		fmt.Fprint(out, syntaxDoc)
		return nil
	}

	width, _ := cmd.Flags().GetInt("width")
	style, _ := cmd.Flags().GetString("style")
	r, err := markdown.New(width, style)
	if err != nil {
		return err
	}
	doc, err := r.Render(syntaxDoc)
	if err != nil {
		return fmt.Errorf("rendering syntax reference: %w", err)
	}
	fmt.Fprint(out, doc)

	var b strings.Builder
	b.WriteString("Examples\n\n")
	for _, ex := range syntaxExamples {
		res, err := cql.Highlight(ex.query, cql.Options{Supertype: ex.supertype, Renderer: cql.ANSIRenderer{}})
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "  %-7s %s\n", ex.supertype, res.Markup)
	}
	fmt.Fprint(out, b.String())
	return nil
}
