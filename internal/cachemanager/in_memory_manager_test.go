package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type corpusKey string

type corpusInfo struct {
	Name     string
	PosAttrs []string
}

func newCorpusCache() *InMemoryCacheManager[corpusKey, corpusInfo] {
	return NewInMemoryCacheManager[corpusKey, corpusInfo]("corpora", DefaultExpiration, DefaultCleanupInterval)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := newCorpusCache()
	info := corpusInfo{Name: "susanne", PosAttrs: []string{"word", "lemma"}}
	cache.Set(context.Background(), "susanne", info, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "susanne")
	require.True(t, ok)
	require.Equal(t, info, got)
}

func TestInMemoryCacheManager_GetMissingValue(t *testing.T) {
	cache := newCorpusCache()

	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithInvalidValueType(t *testing.T) {
	cache := newCorpusCache()
	cache.cache.Set("susanne", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "susanne")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_ExpiredValue(t *testing.T) {
	cache := newCorpusCache()
	cache.Set(context.Background(), "susanne", corpusInfo{Name: "susanne"}, time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "susanne")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := newCorpusCache()

	_, ok := cache.GetWithRefresh(context.Background(), "susanne", time.Hour)
	require.False(t, ok)

	cache.Set(context.Background(), "susanne", corpusInfo{Name: "susanne"}, DefaultExpiration)
	got, ok := cache.GetWithRefresh(context.Background(), "susanne", time.Hour)
	require.True(t, ok)
	require.Equal(t, "susanne", got.Name)
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	cache := newCorpusCache()
	require.NoError(t, cache.Delete(context.Background()))

	cache.Set(context.Background(), "susanne", corpusInfo{Name: "susanne"}, DefaultExpiration)
	cache.Set(context.Background(), "syn", corpusInfo{Name: "syn"}, DefaultExpiration)

	require.NoError(t, cache.Delete(context.Background(), "susanne", "absent"))

	_, ok := cache.Get(context.Background(), "susanne")
	require.False(t, ok)
	_, ok = cache.Get(context.Background(), "syn")
	require.True(t, ok)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := newCorpusCache()
	cache.Set(context.Background(), "susanne", corpusInfo{Name: "susanne"}, DefaultExpiration)

	require.NoError(t, cache.Flush(context.Background()))

	_, ok := cache.Get(context.Background(), "susanne")
	require.False(t, ok)
}
