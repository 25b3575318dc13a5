package gorm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/moviebrowser/pkg/logger"
)

func TestKVStoreUpsert(t *testing.T) {
	s := NewKVStore(NewTestDB(t), nil)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "@MovieApp:selectedCategory")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "@MovieApp:selectedCategory", "upcoming"))
	require.NoError(t, s.Set(ctx, "@MovieApp:selectedCategory", "popular"))

	v, ok, err := s.Get(ctx, "@MovieApp:selectedCategory")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "popular", v)

	var count int64
	require.NoError(t, s.db.Model(&KVEntryModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.Delete(ctx, "@MovieApp:selectedCategory"))
	_, ok, err = s.Get(ctx, "@MovieApp:selectedCategory")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "moviebrowser.db")
	ctx := context.Background()

	db, cleanup, err := NewDB(path, logger.NewNoop(), false)
	require.NoError(t, err)
	s := NewKVStore(db, cleanup)
	require.NoError(t, s.Set(ctx, "@MovieApp:watchlist", `[{"id":603}]`))
	require.NoError(t, s.Close())

	db, cleanup, err = NewDB(path, logger.NewNoop(), false)
	require.NoError(t, err)
	s = NewKVStore(db, cleanup)
	defer s.Close()

	v, ok, err := s.Get(ctx, "@MovieApp:watchlist")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":603}]`, v)
}
