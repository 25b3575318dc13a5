package store

import (
	"strings"

	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

// ActionKind is the closed set of state transitions.
type ActionKind int

const (
	ActionSetCategory ActionKind = iota + 1
	ActionSetSort
	ActionSetSearchQuery
	ActionAddToWatchlist
	ActionRemoveFromWatchlist
	ActionLoadWatchlist
	ActionLoadPreferences
)

func (k ActionKind) String() string {
	switch k {
	case ActionSetCategory:
		return "SetCategory"
	case ActionSetSort:
		return "SetSort"
	case ActionSetSearchQuery:
		return "SetSearchQuery"
	case ActionAddToWatchlist:
		return "AddToWatchlist"
	case ActionRemoveFromWatchlist:
		return "RemoveFromWatchlist"
	case ActionLoadWatchlist:
		return "LoadWatchlist"
	case ActionLoadPreferences:
		return "LoadPreferences"
	}
	return "Unknown"
}

// Action is a state transition request. Only the fields of its Kind are set;
// use the constructors below.
type Action struct {
	Kind      ActionKind
	Category  models.Category
	Sort      models.SortKey
	Query     string
	Movie     models.Movie
	MovieID   int
	Watchlist []models.Movie
}

func SetCategory(c models.Category) Action {
	return Action{Kind: ActionSetCategory, Category: c}
}

func SetSort(k models.SortKey) Action {
	return Action{Kind: ActionSetSort, Sort: k}
}

func SetSearchQuery(q string) Action {
	return Action{Kind: ActionSetSearchQuery, Query: q}
}

func AddToWatchlist(m models.Movie) Action {
	return Action{Kind: ActionAddToWatchlist, Movie: m}
}

func RemoveFromWatchlist(id int) Action {
	return Action{Kind: ActionRemoveFromWatchlist, MovieID: id}
}

// LoadWatchlist replaces the watchlist. Used at startup.
func LoadWatchlist(list []models.Movie) Action {
	return Action{Kind: ActionLoadWatchlist, Watchlist: list}
}

// LoadPreferences replaces category and sort. Used at startup.
func LoadPreferences(c models.Category, k models.SortKey) Action {
	return Action{Kind: ActionLoadPreferences, Category: c, Sort: k}
}

// persists reports whether the action's result is written back to storage.
// Load actions only mirror what storage already holds.
func (a Action) persists() bool {
	return a.Kind != ActionLoadWatchlist && a.Kind != ActionLoadPreferences
}

// Reduce applies a to s. It never modifies s or the slices it references,
// and returns s unchanged for no-op and unknown actions.
func Reduce(s AppState, a Action) AppState {
	switch a.Kind {
	case ActionSetCategory:
		if a.Category.Valid() {
			s.Category = a.Category
		}
	case ActionSetSort:
		if a.Sort.Valid() {
			s.Sort = a.Sort
		}
	case ActionSetSearchQuery:
		s.SearchQuery = strings.TrimSpace(a.Query)
	case ActionAddToWatchlist:
		if s.InWatchlist(a.Movie.ID) {
			return s
		}
		next := make([]models.Movie, 0, len(s.Watchlist)+1)
		next = append(next, s.Watchlist...)
		s.Watchlist = append(next, a.Movie)
	case ActionRemoveFromWatchlist:
		if !s.InWatchlist(a.MovieID) {
			return s
		}
		next := make([]models.Movie, 0, len(s.Watchlist)-1)
		for _, m := range s.Watchlist {
			if m.ID != a.MovieID {
				next = append(next, m)
			}
		}
		s.Watchlist = next
	case ActionLoadWatchlist:
		s.Watchlist = dedupe(a.Watchlist)
	case ActionLoadPreferences:
		s.Category = a.Category
		if !s.Category.Valid() {
			s.Category = DefaultCategory
		}
		s.Sort = a.Sort
		if !s.Sort.Valid() {
			s.Sort = DefaultSort
		}
	}
	return s
}

// dedupe copies list keeping the first movie of each id.
func dedupe(list []models.Movie) []models.Movie {
	seen := make(map[int]struct{}, len(list))
	out := make([]models.Movie, 0, len(list))
	for _, m := range list {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
