package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockCacheManager is a testify mock of CacheManager.
type mockCacheManager[K comparable, V any] struct {
	mock.Mock
}

func (m *mockCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).(V), args.Bool(1)
}

func (m *mockCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(V), args.Bool(1)
}

func (m *mockCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *mockCacheManager[K, V]) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func loader(calls *int) func(context.Context, noteID) (parsedNote, error) {
	return func(_ context.Context, id noteID) (parsedNote, error) {
		*calls++
		if id == "bad" {
			return parsedNote{}, errors.New("not found")
		}
		return parsedNote{ID: id, Content: "loaded"}, nil
	}
}

func TestReadThroughCache_SkipCacheAlwaysLoads(t *testing.T) {
	m := &mockCacheManager[noteID, parsedNote]{}
	calls := 0
	r := NewReadThroughCache[noteID, parsedNote, noteID](m, loader(&calls), true)

	for range 2 {
		got, err := r.Get(context.Background(), "n1", "n1", time.Minute)
		require.NoError(t, err)
		require.Equal(t, parsedNote{ID: "n1", Content: "loaded"}, got)
	}
	require.Equal(t, 2, calls)
	require.NoError(t, r.Invalidate(context.Background(), "n1"))
	m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReadThroughCache_HitSkipsLoader(t *testing.T) {
	ctx := context.Background()
	m := &mockCacheManager[noteID, parsedNote]{}
	m.On("Get", ctx, noteID("n1")).Return(parsedNote{ID: "n1", Content: "cached"}, true)

	calls := 0
	r := NewReadThroughCache[noteID, parsedNote, noteID](m, loader(&calls), false)

	got, err := r.Get(ctx, "n1", "n1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got.Content)
	require.Zero(t, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_MissLoadsAndSets(t *testing.T) {
	ctx := context.Background()
	m := &mockCacheManager[noteID, parsedNote]{}
	m.On("Get", ctx, noteID("n1")).Return(parsedNote{}, false)
	m.On("Set", ctx, noteID("n1"), parsedNote{ID: "n1", Content: "loaded"}, time.Minute).Return()

	calls := 0
	r := NewReadThroughCache[noteID, parsedNote, noteID](m, loader(&calls), false)

	got, err := r.Get(ctx, "n1", "n1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "loaded", got.Content)
	require.Equal(t, 1, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_LoaderErrorNotCached(t *testing.T) {
	ctx := context.Background()
	m := &mockCacheManager[noteID, parsedNote]{}
	m.On("Get", ctx, noteID("bad")).Return(parsedNote{}, false)

	calls := 0
	r := NewReadThroughCache[noteID, parsedNote, noteID](m, loader(&calls), false)

	_, err := r.Get(ctx, "bad", "bad", time.Minute)
	require.Error(t, err)
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_GetWithRefresh(t *testing.T) {
	ctx := context.Background()
	m := &mockCacheManager[noteID, parsedNote]{}
	m.On("GetWithRefresh", ctx, noteID("n1"), time.Hour).Return(parsedNote{ID: "n1", Content: "cached"}, true)

	calls := 0
	r := NewReadThroughCache[noteID, parsedNote, noteID](m, loader(&calls), false)

	got, err := r.GetWithRefresh(ctx, "n1", "n1", time.Hour)
	require.NoError(t, err)
	require.Equal(t, "cached", got.Content)
	require.Zero(t, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_WithInMemoryManager(t *testing.T) {
	ctx := context.Background()
	calls := 0
	r := NewReadThroughCache[noteID, parsedNote, noteID](
		NewInMemoryCacheManager[noteID, parsedNote]("notes", DefaultExpiration, DefaultCleanupInterval),
		loader(&calls),
		false,
	)

	for range 3 {
		_, err := r.Get(ctx, "n1", "n1", time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 1, calls)

	require.NoError(t, r.Invalidate(ctx, "n1"))
	_, err := r.Get(ctx, "n1", "n1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
