package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/cqlhl/internal/cachemanager"
	"github.com/zjrosen/cqlhl/internal/log"
	"github.com/zjrosen/cqlhl/internal/pubsub"
	"github.com/zjrosen/cqlhl/internal/watcher"
)

// Provider loads corpus schemas by name.
type Provider interface {
	Load(ctx context.Context, corpus string) (*Schema, error)
}

// FileProvider reads <Dir>/<corpus>.yaml (or .yml). The default corpus is
// served from the built-in schema unless the directory overrides it.
type FileProvider struct {
	Dir string
}

func (p FileProvider) Load(_ context.Context, corpus string) (*Schema, error) {
	if corpus == "" || corpus != filepath.Base(corpus) || strings.HasPrefix(corpus, ".") {
		return nil, fmt.Errorf("%w: %q", ErrCorpusNotFound, corpus)
	}

	if p.Dir != "" {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(p.Dir, corpus+ext)
			data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from the configured schema dir
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("reading schema %s: %w", path, err)
			}
			s, err := Parse(data)
			if err != nil {
				log.ErrorErr(log.CatSchema, "Invalid schema file", err, "path", path)
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			if s.Corpus != corpus {
				log.Warn(log.CatSchema, "Schema file names another corpus", "path", path, "corpus", s.Corpus)
			}
			log.Debug(log.CatSchema, "Loaded schema", "path", path, "posattrs", len(s.PosAttrs), "structures", len(s.Structures))
			return s, nil
		}
	}

	if corpus == DefaultCorpus {
		return Default(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrCorpusNotFound, corpus)
}

// CachedProvider keeps loaded schemas in memory for ttl. Subscribers are
// told when Watch drops the cache.
type CachedProvider struct {
	cache   *cachemanager.ReadThroughCache[string, *Schema, string]
	ttl     time.Duration
	changes *pubsub.Broker[string]
}

// NewCachedProvider wraps p with a read-through cache. A non-positive ttl
// disables caching.
func NewCachedProvider(p Provider, ttl time.Duration) *CachedProvider {
	manager := cachemanager.NewInMemoryCacheManager[string, *Schema]("schemas", ttl, cachemanager.DefaultCleanupInterval)
	return &CachedProvider{
		cache: cachemanager.NewReadThroughCache[string, *Schema, string](manager, p.Load, ttl <= 0),
		ttl:     ttl,
		changes: pubsub.NewBroker[string](),
	}
}

// Load serves corpus from the cache. Each hit restarts the ttl, so a schema
// in use by the playground never expires.
func (c *CachedProvider) Load(ctx context.Context, corpus string) (*Schema, error) {
	return c.cache.GetWithRefresh(ctx, corpus, corpus, c.ttl)
}

// Invalidate forgets the given corpora, or all of them when none is given.
func (c *CachedProvider) Invalidate(ctx context.Context, corpora ...string) error {
	return c.cache.Invalidate(ctx, corpora...)
}

// Subscribe returns a channel receiving a pubsub.SchemaReloaded event, with
// the watched dir as payload, after each reload triggered by Watch.
func (c *CachedProvider) Subscribe(ctx context.Context) <-chan pubsub.Event[string] {
	return c.changes.Subscribe(ctx)
}

// Close ends all subscriptions.
func (c *CachedProvider) Close() {
	c.changes.Close()
}

// Watch invalidates the whole cache whenever a schema file in dir changes,
// until ctx is done.
func (c *CachedProvider) Watch(ctx context.Context, dir string) error {
	w, err := watcher.New(watcher.DefaultConfig(dir))
	if err != nil {
		return err
	}
	onChange, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return err
	}

	go func() {
		defer func() { _ = w.Stop() }()
		for {
			select {
			case <-ctx.Done():
				return
			case <-onChange:
				if err := c.Invalidate(ctx); err != nil {
					log.ErrorErr(log.CatCache, "Failed to invalidate schemas", err)
					continue
				}
				log.Info(log.CatSchema, "Schema cache invalidated", "dir", dir)
				c.changes.Publish(pubsub.SchemaReloaded, dir)
			}
		}
	}()
	return nil
}

// Live answers attribute lookups from the provider's current schema, so a
// cache invalidation shows on the next lookup. The fallback serves lookups
// while the schema cannot be loaded.
type Live struct {
	provider Provider
	corpus   string
	fallback *Schema
}

func NewLive(p Provider, corpus string, fallback *Schema) *Live {
	return &Live{provider: p, corpus: corpus, fallback: fallback}
}

func (l *Live) current() *Schema {
	s, err := l.provider.Load(context.Background(), l.corpus)
	if err != nil {
		log.Debug(log.CatSchema, "Serving fallback schema", "corpus", l.corpus, "error", err.Error())
		return l.fallback
	}
	return s
}

func (l *Live) AttrExists(name string) bool           { return l.current().AttrExists(name) }
func (l *Live) IsTagAttr(name string) bool            { return l.current().IsTagAttr(name) }
func (l *Live) StructExists(name string) bool         { return l.current().StructExists(name) }
func (l *Live) StructAttrExists(st, name string) bool { return l.current().StructAttrExists(st, name) }
