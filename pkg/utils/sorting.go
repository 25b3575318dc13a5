package utils

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

const releaseDateLayout = "2006-01-02"

// SortMovies returns a sorted copy of movies. The sort is stable, the input
// slice is never modified and an empty order means ascending. An unknown key
// returns the copy in input order.
func SortMovies(movies []models.Movie, sortBy models.SortKey, order models.SortOrder) []models.Movie {
	sorted := slices.Clone(movies)
	if sorted == nil {
		sorted = []models.Movie{}
	}

	var compare func(a, b models.Movie) int
	switch sortBy {
	case models.SortAlphabetical:
		// Collators keep internal buffers and are not safe for concurrent use.
		c := collate.New(language.English)
		compare = func(a, b models.Movie) int {
			return c.CompareString(a.Title, b.Title)
		}
	case models.SortRating:
		compare = func(a, b models.Movie) int {
			return cmp.Compare(a.VoteAverage, b.VoteAverage)
		}
	case models.SortReleaseDate:
		compare = func(a, b models.Movie) int {
			return ParseReleaseDate(a.ReleaseDate).Compare(ParseReleaseDate(b.ReleaseDate))
		}
	default:
		return sorted
	}

	if order == models.SortDesc {
		asc := compare
		compare = func(a, b models.Movie) int { return -asc(a, b) }
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}

// ParseReleaseDate parses a YYYY-MM-DD release date. Empty or malformed
// dates map to the zero time, which sorts below every real date.
func ParseReleaseDate(s string) time.Time {
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
