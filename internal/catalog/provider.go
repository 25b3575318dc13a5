// Package catalog defines the capability surface shared by every movie data
// provider. Implementations live under internal/infrastructure/adapters/external.
package catalog

import (
	"context"

	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

const (
	// ImageBaseURL is the TMDB image CDN prefix.
	ImageBaseURL = "https://image.tmdb.org/t/p/"
	// PlaceholderImageURL is returned for movies and people without an image.
	PlaceholderImageURL = "https://via.placeholder.com/500x750?text=No+Image"
)

// Provider fetches catalog data and returns it in the canonical model.
// Every adapter behaves identically: page values below 1 mean page 1, an
// empty or whitespace-only search query fails with an invalid argument
// error before any network call, and a details lookup with no record fails
// with a not found error. Adapters never retry.
type Provider interface {
	// Name identifies the provider in logs and metrics
	Name() string

	FetchByCategory(ctx context.Context, category models.Category, page int) (*models.PagedResult[models.Movie], error)
	Search(ctx context.Context, query string, page int) (*models.PagedResult[models.Movie], error)
	GetDetails(ctx context.Context, movieID int) (*models.MovieDetails, error)
	GetCredits(ctx context.Context, movieID int) (*models.Credits, error)

	// GetRecommendations reports failures like any other call. Callers
	// that display recommendations treat a failure as an empty page.
	GetRecommendations(ctx context.Context, movieID int, page int) (*models.PagedResult[models.Movie], error)

	GetGenres(ctx context.Context) ([]models.Genre, error)

	ImageURL(path *string, size models.ImageSize) string
}

// Extended is implemented by providers offering the extra listings.
type Extended interface {
	Provider

	TopRated(ctx context.Context, page int) (*models.PagedResult[models.Movie], error)
	MoviesByGenre(ctx context.Context, genreID int, page int) (*models.PagedResult[models.Movie], error)
}

// AccountProvider is implemented by providers that know the account behind
// their credentials.
type AccountProvider interface {
	Account(ctx context.Context) (*models.Account, error)
}

// ImageURL builds the CDN URL of an image path. A nil or empty path yields
// PlaceholderImageURL.
func ImageURL(path *string, size models.ImageSize) string {
	if path == nil || *path == "" {
		return PlaceholderImageURL
	}
	return ImageBaseURL + string(size) + *path
}

// Page normalizes a requested page number.
func Page(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
