package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/cqlhl/internal/cql"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities [query]",
	Short: "Print the attributes and paradigmatic items of a query as JSON",
	Long: `Extract the entities of a query: positional attributes, structures with
their attributes, and the items of a paradigmatic query. Ranges are
half-open character offsets into the query.`,
	Example: `  cqlhl entities '[word="dog"] within <doc id="x"/>'`,
	RunE:    runEntities,
}

func init() {
	rootCmd.AddCommand(entitiesCmd)

	entitiesCmd.Flags().Bool("compact", false, "print JSON on a single line")
	entitiesCmd.Flags().Bool("markup", false, "include the HTML markup")
}

// entitiesOutput keeps empty lists as [] rather than null.
type entitiesOutput struct {
	Attrs   []cql.ParsedAttr   `json:"attrs"`
	PQItems []cql.ParsedPQItem `json:"pqItems"`
	Error   string             `json:"error,omitempty"`
	Markup  string             `json:"markup,omitempty"`
}

func runEntities(cmd *cobra.Command, args []string) error {
	query, err := readQuery(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := newEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	opts, err := e.options()
	if err != nil {
		return err
	}
	res, err := e.highlight(ctx, query, opts)
	if err != nil {
		return err
	}

	out := entitiesOutput{
		Attrs:   res.Attrs,
		PQItems: res.PQItems,
		Error:   res.Error,
	}
	if out.Attrs == nil {
		out.Attrs = []cql.ParsedAttr{}
	}
	if out.PQItems == nil {
		out.PQItems = []cql.ParsedPQItem{}
	}
	if withMarkup, _ := cmd.Flags().GetBool("markup"); withMarkup {
		out.Markup = res.Markup
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if compact, _ := cmd.Flags().GetBool("compact"); !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding entities: %w", err)
	}
	return nil
}
