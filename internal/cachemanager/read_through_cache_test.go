package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cqlhl/internal/mocks"
)

func loadCorpus(_ context.Context, name string) (corpusInfo, error) {
	return corpusInfo{Name: name, PosAttrs: []string{"word"}}, nil
}

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[corpusKey, corpusInfo](t)
	cache := NewReadThroughCache[corpusKey, corpusInfo, string](managerMock, loadCorpus, true)

	got, err := cache.Get(context.Background(), "susanne", "susanne", time.Minute)
	require.NoError(t, err)
	require.Equal(t, corpusInfo{Name: "susanne", PosAttrs: []string{"word"}}, got)
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[corpusKey, corpusInfo](t)
	managerMock.EXPECT().Get(mock.Anything, corpusKey("susanne")).Return(corpusInfo{Name: "cached"}, true)

	cache := NewReadThroughCache[corpusKey, corpusInfo, string](managerMock, loadCorpus, false)

	got, err := cache.Get(context.Background(), "susanne", "susanne", time.Minute)
	require.NoError(t, err)
	require.Equal(t, corpusInfo{Name: "cached"}, got)
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[corpusKey, corpusInfo](t)
	managerMock.EXPECT().Get(mock.Anything, corpusKey("susanne")).Return(corpusInfo{}, false)
	managerMock.EXPECT().Set(mock.Anything, corpusKey("susanne"),
		corpusInfo{Name: "susanne", PosAttrs: []string{"word"}}, time.Minute).Return()

	cache := NewReadThroughCache[corpusKey, corpusInfo, string](managerMock, loadCorpus, false)

	got, err := cache.Get(context.Background(), "susanne", "susanne", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "susanne", got.Name)
}

func TestReadThroughCache_Get_LoadErrorIsNotCached(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[corpusKey, corpusInfo](t)
	managerMock.EXPECT().Get(mock.Anything, corpusKey("broken")).Return(corpusInfo{}, false)

	loadErr := errors.New("no such corpus")
	cache := NewReadThroughCache[corpusKey, corpusInfo, string](managerMock,
		func(context.Context, string) (corpusInfo, error) { return corpusInfo{}, loadErr },
		false,
	)

	_, err := cache.Get(context.Background(), "broken", "broken", time.Minute)
	require.ErrorIs(t, err, loadErr)
}

func TestReadThroughCache_GetWithRefresh_EmptyCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[corpusKey, corpusInfo](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, corpusKey("syn"), time.Hour).Return(corpusInfo{}, false)
	managerMock.EXPECT().Set(mock.Anything, corpusKey("syn"), mock.Anything, time.Hour).Return()

	cache := NewReadThroughCache[corpusKey, corpusInfo, string](managerMock, loadCorpus, false)

	got, err := cache.GetWithRefresh(context.Background(), "syn", "syn", time.Hour)
	require.NoError(t, err)
	require.Equal(t, "syn", got.Name)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[corpusKey, corpusInfo](t)
	managerMock.EXPECT().Delete(mock.Anything, corpusKey("syn")).Return(nil)
	managerMock.EXPECT().Flush(mock.Anything).Return(nil)

	cache := NewReadThroughCache[corpusKey, corpusInfo, string](managerMock, loadCorpus, false)

	require.NoError(t, cache.Invalidate(context.Background(), "syn"))
	require.NoError(t, cache.Invalidate(context.Background()))
}

func TestReadThroughCache_WithInMemoryManager(t *testing.T) {
	calls := 0
	cache := NewReadThroughCache[corpusKey, corpusInfo, string](
		newCorpusCache(),
		func(ctx context.Context, name string) (corpusInfo, error) {
			calls++
			return loadCorpus(ctx, name)
		},
		false,
	)

	for range 3 {
		_, err := cache.Get(context.Background(), "susanne", "susanne", time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 1, calls)

	require.NoError(t, cache.Invalidate(context.Background(), "susanne"))
	_, err := cache.Get(context.Background(), "susanne", "susanne", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
