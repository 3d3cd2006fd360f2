package cachemanager

import (
	"context"
	"time"

	"github.com/zjrosen/cqlhl/internal/log"
)

// ReadThroughCache loads values on a miss and keeps them for the requested
// ttl. Failed loads are never cached. A bypassed cache loads on every call.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache  CacheManager[K, V]
	load   func(ctx context.Context, input I) (V, error)
	bypass bool
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	load func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, load: load, bypass: bypass}
}

// Get returns the cached value for key, loading it from input on a miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if !r.bypass {
		if value, ok := r.cache.Get(ctx, key); ok {
			return value, nil
		}
	}
	return r.fill(ctx, key, input, ttl)
}

// GetWithRefresh is Get with a sliding expiry: every hit restarts the ttl.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if !r.bypass {
		if value, ok := r.cache.GetWithRefresh(ctx, key, ttl); ok {
			return value, nil
		}
	}
	return r.fill(ctx, key, input, ttl)
}

func (r *ReadThroughCache[K, V, I]) fill(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	value, err := r.load(ctx, input)
	if err != nil {
		log.Debug(log.CatCache, "Load failed", "key", string(key), "error", err.Error())
		return value, err
	}
	if !r.bypass {
		r.cache.Set(ctx, key, value, ttl)
	}
	return value, nil
}

// Invalidate drops the given keys, or everything when no key is given.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, keys ...K) error {
	if len(keys) == 0 {
		return r.cache.Flush(ctx)
	}
	return r.cache.Delete(ctx, keys...)
}
