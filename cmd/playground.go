package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/cqlhl/internal/cql"
	"github.com/zjrosen/cqlhl/internal/log"
	"github.com/zjrosen/cqlhl/internal/playground"
	"github.com/zjrosen/cqlhl/internal/pubsub"
	"github.com/zjrosen/cqlhl/internal/schema"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground [query]",
	Short: "Edit a query with live highlighting",
	Long: `Launch an interactive editor that highlights the query as it is typed and
lists the attributes, structures and paradigmatic items it mentions.
Tab switches the supertype, ctrl+s saves the settings to the config file.`,
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(cmd *cobra.Command, args []string) error {
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

	var attrs cql.AttrHelper = e.schema
	var events *pubsub.Listener[string]
	if cfg.Cache.Watch {
		if err := e.schemas.Watch(ctx, cfg.SchemaDir); err != nil {
			log.ErrorErr(log.CatWatcher, "Schema watch unavailable", err, "dir", cfg.SchemaDir)
		} else {
			attrs = schema.NewLive(e.schemas, cfg.Corpus, e.schema)
			events = pubsub.NewListener[string](ctx, e.schemas)
		}
	}

	query := ""
	if len(args) > 0 {
		query, _ = readQuery(args, cmd.InOrStdin())
	}

	model := playground.New(playground.Config{
		Query:         query,
		Corpus:        e.schema.Corpus,
		Supertype:     opts.Supertype,
		Locale:        e.catalog.Locale(),
		WrapLongQuery: opts.WrapLongQuery,
		Attrs:         attrs,
		ConfigPath:    configFilePath(),
		SchemaEvents:  events,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
