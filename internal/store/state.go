// Package store owns the client's application state: the selected
// category, sort and search text, and the watchlist. State changes only
// through Dispatch, which applies the pure Reduce function and then
// persists the changed keys in the background.
package store

import (
	"slices"

	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

const (
	DefaultCategory = models.CategoryNowPlaying
	DefaultSort     = models.SortAlphabetical
)

// AppState is the state owned by a Store.
type AppState struct {
	Category    models.Category
	Sort        models.SortKey
	SearchQuery string
	Watchlist   []models.Movie // unique by ID, insertion order
}

// DefaultState returns the compiled-in startup state.
func DefaultState() AppState {
	return AppState{
		Category:  DefaultCategory,
		Sort:      DefaultSort,
		Watchlist: []models.Movie{},
	}
}

// InWatchlist reports whether a movie with id is in the watchlist.
func (s AppState) InWatchlist(id int) bool {
	return slices.ContainsFunc(s.Watchlist, func(m models.Movie) bool { return m.ID == id })
}

func (s AppState) clone() AppState {
	s.Watchlist = slices.Clone(s.Watchlist)
	if s.Watchlist == nil {
		s.Watchlist = []models.Movie{}
	}
	return s
}
