package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/cqlhl/internal/config"
	"github.com/zjrosen/cqlhl/internal/cql"
	"github.com/zjrosen/cqlhl/internal/i18n"
	"github.com/zjrosen/cqlhl/internal/log"
	"github.com/zjrosen/cqlhl/internal/schema"
	"github.com/zjrosen/cqlhl/internal/tracing"
)

// env is everything a command needs to highlight queries.
type env struct {
	cfg      config.Config
	schemas  *schema.CachedProvider
	schema   *schema.Schema
	catalog  *i18n.Catalog
	provider *tracing.Provider
}

func newEnv(ctx context.Context, c config.Config) (*env, error) {
	provider, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	catalog, err := i18n.Load(c.Locale)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	schemas := schema.NewCachedProvider(schema.FileProvider{Dir: c.SchemaDir}, c.Cache.TTL)
	_, span := provider.Tracer().Start(ctx, tracing.SpanLoadSchema)
	span.SetAttributes(attribute.String(tracing.AttrCorpusName, c.Corpus))
	s, err := schemas.Load(ctx, c.Corpus)
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	log.Debug(log.CatSchema, "Using schema", "corpus", s.Corpus, "locale", catalog.Locale())
	return &env{cfg: c, schemas: schemas, schema: s, catalog: catalog, provider: provider}, nil
}

func (e *env) close(ctx context.Context) {
	e.schemas.Close()
	if err := e.provider.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTracing, "Failed to flush traces", err)
	}
}

// options builds highlighting options from the config.
func (e *env) options() (cql.Options, error) {
	st, err := cql.ParseSupertype(e.cfg.Supertype)
	if err != nil {
		return cql.Options{}, err
	}
	return cql.Options{
		Supertype:     st,
		Attrs:         e.schema,
		Translator:    e.catalog,
		WrapLongQuery: e.cfg.WrapLongQuery,
	}, nil
}

// highlight runs one traced highlighting pass.
func (e *env) highlight(ctx context.Context, query string, opts cql.Options) (cql.Result, error) {
	return tracing.Highlight(ctx, e.provider.Tracer(), query, opts,
		attribute.String(tracing.AttrCorpusName, e.schema.Corpus),
		attribute.String(tracing.AttrLocale, e.catalog.Locale()),
	)
}

var errNoQuery = errors.New("no query given")

// readQuery joins the arguments, or reads stdin when there are none or the
// only argument is "-". A single trailing newline from stdin is dropped.
func readQuery(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	if f, ok := stdin.(*os.File); ok && len(args) == 0 {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", errNoQuery
		}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading query: %w", err)
	}
	q := strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
	if q == "" {
		return "", errNoQuery
	}
	return q, nil
}
