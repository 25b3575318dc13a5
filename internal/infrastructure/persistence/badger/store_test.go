package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "@MovieApp:watchlist")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "@MovieApp:watchlist", `[{"id":1}]`))
	require.NoError(t, s.Set(ctx, "@MovieApp:watchlist", `[]`))

	v, ok, err := s.Get(ctx, "@MovieApp:watchlist")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Delete(ctx, "@MovieApp:watchlist"))
	require.NoError(t, s.Delete(ctx, "@MovieApp:watchlist"))
	_, ok, err = s.Get(ctx, "@MovieApp:watchlist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "@MovieApp:selectedSort", "rating"))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "@MovieApp:selectedSort")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "rating", v)
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)
}
