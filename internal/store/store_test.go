package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/persistence/memory"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

func movie(id int, title string) models.Movie {
	return models.Movie{ID: id, Title: title, GenreIDs: []int{}}
}

type StoreTestSuite struct {
	suite.Suite
	kv    *memory.Store
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = memory.New()
	s.store = New(s.kv, logger.NewNoop(), WithWriteTimeout(time.Second))
}

func (s *StoreTestSuite) flush() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	s.Require().NoError(s.store.Flush(ctx))
}

func (s *StoreTestSuite) TestDefaultsWhenStorageEmpty() {
	s.store.Hydrate(s.ctx)

	state := s.store.Snapshot()
	s.Equal(models.CategoryNowPlaying, state.Category)
	s.Equal(models.SortAlphabetical, state.Sort)
	s.Empty(state.SearchQuery)
	s.NotNil(state.Watchlist)
	s.Empty(state.Watchlist)
}

func (s *StoreTestSuite) TestHydrateLoadsPersistedState() {
	list, err := json.Marshal([]models.Movie{movie(1, "Heat"), movie(2, "Ran")})
	s.Require().NoError(err)
	s.kv = memory.NewWith(map[string]string{
		KeyWatchlist: string(list),
		KeyCategory:  "popular",
		KeySort:      "rating",
	})
	s.store = New(s.kv, logger.NewNoop())

	s.store.Hydrate(s.ctx)

	state := s.store.Snapshot()
	s.Equal(models.CategoryPopular, state.Category)
	s.Equal(models.SortRating, state.Sort)
	s.Require().Len(state.Watchlist, 2)
	s.Equal("Heat", state.Watchlist[0].Title)
	s.Equal("Ran", state.Watchlist[1].Title)
}

func (s *StoreTestSuite) TestHydrateIgnoresMalformedData() {
	s.kv = memory.NewWith(map[string]string{
		KeyWatchlist: "{not json",
		KeyCategory:  "top_rated",
		KeySort:      "rating",
	})
	s.store = New(s.kv, logger.NewNoop())

	s.store.Hydrate(s.ctx)

	state := s.store.Snapshot()
	s.Empty(state.Watchlist)
	s.Equal(DefaultCategory, state.Category)
	s.Equal(models.SortRating, state.Sort)
}

func (s *StoreTestSuite) TestHydrateSurvivesClosedStorage() {
	s.Require().NoError(s.kv.Close())

	s.store.Hydrate(s.ctx)

	s.Equal(DefaultState(), s.store.Snapshot())
}

func (s *StoreTestSuite) TestHydrateDoesNotWriteBack() {
	s.kv = memory.NewWith(map[string]string{KeyCategory: "upcoming"})
	s.store = New(s.kv, logger.NewNoop())

	s.store.Hydrate(s.ctx)
	s.flush()

	s.Equal(map[string]string{KeyCategory: "upcoming"}, s.kv.Snapshot())
}

func (s *StoreTestSuite) TestAddToWatchlistIsIdempotent() {
	s.store.AddToWatchlist(movie(1, "Heat"))
	state := s.store.AddToWatchlist(movie(1, "Heat (again)"))

	s.Require().Len(state.Watchlist, 1)
	s.Equal("Heat", state.Watchlist[0].Title)
	s.True(s.store.IsInWatchlist(1))
}

func (s *StoreTestSuite) TestRemoveAbsentIsNoop() {
	s.store.AddToWatchlist(movie(1, "Heat"))
	s.flush()
	before := s.kv.Snapshot()

	state := s.store.RemoveFromWatchlist(99)
	s.flush()

	s.Len(state.Watchlist, 1)
	s.Equal(before, s.kv.Snapshot())
}

func (s *StoreTestSuite) TestPersistsChangedKeys() {
	s.store.AddToWatchlist(movie(1, "Heat"))
	s.store.AddToWatchlist(movie(2, "Ran"))
	s.store.RemoveFromWatchlist(1)
	s.store.SetCategory(models.CategoryUpcoming)
	s.store.SetSort(models.SortReleaseDate)
	s.flush()

	snap := s.kv.Snapshot()
	s.Equal("upcoming", snap[KeyCategory])
	s.Equal("release_date", snap[KeySort])

	var list []models.Movie
	s.Require().NoError(json.Unmarshal([]byte(snap[KeyWatchlist]), &list))
	s.Require().Len(list, 1)
	s.Equal(2, list[0].ID)
}

func (s *StoreTestSuite) TestSearchQueryIsNotPersisted() {
	state := s.store.SetSearchQuery("  alien  ")
	s.flush()

	s.Equal("alien", state.SearchQuery)
	s.Empty(s.kv.Snapshot())
}

func (s *StoreTestSuite) TestInvalidPreferenceIgnored() {
	state := s.store.SetCategory("top_rated")
	s.flush()

	s.Equal(DefaultCategory, state.Category)
	s.Empty(s.kv.Snapshot())
}

func (s *StoreTestSuite) TestWriteFailureDoesNotBlockOtherKeys() {
	s.kv.FailSet(KeyWatchlist, errors.New("disk full"))

	state := s.store.AddToWatchlist(movie(1, "Heat"))
	s.store.SetSort(models.SortRating)
	s.flush()

	// State reflects the change even though the write failed.
	s.Len(state.Watchlist, 1)
	s.True(s.store.IsInWatchlist(1))

	snap := s.kv.Snapshot()
	s.NotContains(snap, KeyWatchlist)
	s.Equal("rating", snap[KeySort])
}

func (s *StoreTestSuite) TestLastWriteWins() {
	for _, c := range []models.Category{
		models.CategoryPopular,
		models.CategoryUpcoming,
		models.CategoryNowPlaying,
		models.CategoryPopular,
	} {
		s.store.SetCategory(c)
	}
	s.flush()

	s.Equal("popular", s.kv.Snapshot()[KeyCategory])
}

func (s *StoreTestSuite) TestSubscribe() {
	var (
		mu   sync.Mutex
		seen []models.SortKey
	)
	unsubscribe := s.store.Subscribe(func(st AppState) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st.Sort)
	})

	s.store.SetSort(models.SortRating)
	unsubscribe()
	s.store.SetSort(models.SortReleaseDate)

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]models.SortKey{models.SortRating}, seen)
}

func (s *StoreTestSuite) TestSnapshotIsACopy() {
	s.store.AddToWatchlist(movie(1, "Heat"))

	snap := s.store.Snapshot()
	snap.Watchlist[0].Title = "changed"

	s.Equal("Heat", s.store.Snapshot().Watchlist[0].Title)
}

func (s *StoreTestSuite) TestConcurrentDispatch() {
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.store.AddToWatchlist(movie(id, "m"))
		}(i)
	}
	wg.Wait()
	s.flush()

	s.Len(s.store.Snapshot().Watchlist, 50)

	var list []models.Movie
	s.Require().NoError(json.Unmarshal([]byte(s.kv.Snapshot()[KeyWatchlist]), &list))
	s.Len(list, 50)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	original := DefaultState()
	original.Watchlist = []models.Movie{movie(1, "Heat"), movie(2, "Ran")}
	backing := original.Watchlist

	added := Reduce(original, AddToWatchlist(movie(3, "Zodiac")))
	removed := Reduce(original, RemoveFromWatchlist(1))

	assert.Len(t, original.Watchlist, 2)
	assert.Equal(t, 1, backing[0].ID)
	assert.Equal(t, 2, backing[1].ID)
	assert.Len(t, added.Watchlist, 3)
	require.Len(t, removed.Watchlist, 1)
	assert.Equal(t, 2, removed.Watchlist[0].ID)
}

func TestReduce(t *testing.T) {
	base := DefaultState()
	base.Watchlist = []models.Movie{movie(1, "Heat")}

	tests := []struct {
		name   string
		action Action
		check  func(t *testing.T, got AppState)
	}{
		{
			name:   "set category",
			action: SetCategory(models.CategoryPopular),
			check: func(t *testing.T, got AppState) {
				assert.Equal(t, models.CategoryPopular, got.Category)
			},
		},
		{
			name:   "unknown category ignored",
			action: SetCategory("trending"),
			check: func(t *testing.T, got AppState) {
				assert.Equal(t, DefaultCategory, got.Category)
			},
		},
		{
			name:   "set sort",
			action: SetSort(models.SortReleaseDate),
			check: func(t *testing.T, got AppState) {
				assert.Equal(t, models.SortReleaseDate, got.Sort)
			},
		},
		{
			name:   "query trimmed",
			action: SetSearchQuery("\tblade runner "),
			check: func(t *testing.T, got AppState) {
				assert.Equal(t, "blade runner", got.SearchQuery)
			},
		},
		{
			name:   "load watchlist dedupes",
			action: LoadWatchlist([]models.Movie{movie(5, "a"), movie(6, "b"), movie(5, "c")}),
			check: func(t *testing.T, got AppState) {
				require.Len(t, got.Watchlist, 2)
				assert.Equal(t, "a", got.Watchlist[0].Title)
			},
		},
		{
			name:   "load nil watchlist",
			action: LoadWatchlist(nil),
			check: func(t *testing.T, got AppState) {
				assert.NotNil(t, got.Watchlist)
				assert.Empty(t, got.Watchlist)
			},
		},
		{
			name:   "load preferences falls back per field",
			action: LoadPreferences("", models.SortRating),
			check: func(t *testing.T, got AppState) {
				assert.Equal(t, DefaultCategory, got.Category)
				assert.Equal(t, models.SortRating, got.Sort)
			},
		},
		{
			name:   "unknown action",
			action: Action{Kind: 99},
			check: func(t *testing.T, got AppState) {
				assert.Equal(t, base, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Reduce(base, tt.action))
		})
	}
}

func TestActionKindString(t *testing.T) {
	assert.Equal(t, "AddToWatchlist", ActionAddToWatchlist.String())
	assert.Equal(t, "Unknown", ActionKind(0).String())
}
