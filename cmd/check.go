package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/cqlhl/internal/cql"
)

var checkCmd = &cobra.Command{
	Use:   "check [query]",
	Short: "Validate a query, failing on the first grammar error",
	Long: `Parse a query without error recovery. The command exits with status 1
and names the position of the first error when the query is not valid for
the selected supertype.`,
	Example: `  cqlhl check '[word="dog"]' && echo valid`,
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	// The lenient pass supplies the translated message.
	res, err := e.highlight(ctx, query, opts)
	if err != nil {
		return err
	}
	opts.Strict = true
	if _, err := e.highlight(ctx, query, opts); err != nil {
		if res.Error != "" {
			return fmt.Errorf("%w: %s", cql.ErrInvalidQuery, res.Error)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
