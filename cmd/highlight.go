package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/cqlhl/internal/config"
	"github.com/zjrosen/cqlhl/internal/cql"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [query]",
	Short: "Print the highlighted markup of a query",
	Long: `Highlight a query and print the result as HTML for web clients or as
ANSI colors for the terminal. The query is read from stdin when no argument
is given. Grammar errors do not fail the command: the unrecognized part is
marked and the error is reported on stderr.`,
	Example: `  cqlhl highlight '[lemma="dog"] within <s/>'
  echo '[word="a"] !within [word="b"]' | cqlhl highlight -t pquery
  cqlhl highlight --format ansi '[tag="N.*"]{2}'`,
	RunE: runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)

	highlightCmd.Flags().StringP("format", "f", "", "output format: html or ansi")
	highlightCmd.Flags().Bool("quiet", false, "do not report grammar errors on stderr")
	_ = viper.BindPFlag("format", highlightCmd.Flags().Lookup("format"))
}

func runHighlight(cmd *cobra.Command, args []string) error {
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
	if cfg.Format == config.FormatANSI {
		opts.Renderer = cql.ANSIRenderer{}
	}

	res, err := e.highlight(ctx, query, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Markup)
	if quiet, _ := cmd.Flags().GetBool("quiet"); res.Error != "" && !quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Error)
	}
	return nil
}
