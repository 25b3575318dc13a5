package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/narwhalmedia/moviebrowser/internal/catalog"
	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/adapters/external/transport"
	"github.com/narwhalmedia/moviebrowser/internal/normalize"
	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

// DefaultBaseURL is the TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// ProviderName identifies this adapter in logs and metrics.
const ProviderName = "rest"

// Client represents a TMDB REST API client
type Client struct {
	baseURL   string
	transport *transport.Client
	logger    interfaces.Logger
}

var (
	_ catalog.Extended        = (*Client)(nil)
	_ catalog.AccountProvider = (*Client)(nil)
)

// NewClient creates a new TMDB client authenticating with a v4 read access token.
func NewClient(baseURL, accessToken string, cfg transport.Config, log interfaces.Logger, opts ...transport.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.NewNoop()
	}
	cfg.Name = ProviderName
	opts = append([]transport.Option{
		transport.WithHeader("Authorization", "Bearer "+accessToken),
		transport.WithHeader("Content-Type", "application/json;charset=utf-8"),
		transport.WithHeader("Accept", "application/json"),
	}, opts...)

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport.New(cfg, log, opts...),
		logger:    log.WithFields(interfaces.String("provider", ProviderName)),
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// FetchByCategory retrieves one page of a category listing.
func (c *Client) FetchByCategory(ctx context.Context, category models.Category, page int) (*models.PagedResult[models.Movie], error) {
	if !category.Valid() {
		return nil, errors.InvalidArgument(fmt.Sprintf("unknown category: %q", category))
	}
	return c.listing(ctx, "fetchByCategory", "/movie/"+string(category), url.Values{}, page)
}

// TopRated retrieves one page of the top rated listing.
func (c *Client) TopRated(ctx context.Context, page int) (*models.PagedResult[models.Movie], error) {
	return c.listing(ctx, "topRated", "/movie/top_rated", url.Values{}, page)
}

// MoviesByGenre retrieves one page of movies tagged with a genre.
func (c *Client) MoviesByGenre(ctx context.Context, genreID int, page int) (*models.PagedResult[models.Movie], error) {
	q := url.Values{}
	q.Set("with_genres", strconv.Itoa(genreID))
	return c.listing(ctx, "moviesByGenre", "/discover/movie", q, page)
}

// Search retrieves one page of title search results.
func (c *Client) Search(ctx context.Context, query string, page int) (*models.PagedResult[models.Movie], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.InvalidArgument("search query cannot be empty")
	}
	q := url.Values{}
	q.Set("query", query)
	return c.listing(ctx, "search", "/search/movie", q, page)
}

// GetRecommendations retrieves one page of recommendations for a movie.
func (c *Client) GetRecommendations(ctx context.Context, movieID int, page int) (*models.PagedResult[models.Movie], error) {
	return c.listing(ctx, "getRecommendations", fmt.Sprintf("/movie/%d/recommendations", movieID), url.Values{}, page)
}

// GetDetails retrieves movie details from TMDB
func (c *Client) GetDetails(ctx context.Context, movieID int) (*models.MovieDetails, error) {
	const op = "getDetails"
	var raw normalize.RESTMovieDetails
	if err := c.get(ctx, op, fmt.Sprintf("/movie/%d", movieID), nil, &raw); err != nil {
		if transport.StatusCode(err) == http.StatusNotFound {
			return nil, errors.NotFound(fmt.Sprintf("movie %d not found", movieID))
		}
		return nil, err
	}
	if raw.ID == nil {
		return nil, errors.NotFound(fmt.Sprintf("movie %d not found", movieID))
	}

	var report normalize.Report
	details := normalize.DetailsFromREST(&raw, &report)
	catalog.ReportIssues(ctx, c.logger, op, &report)
	return &details, nil
}

// GetCredits retrieves the cast and crew of a movie.
func (c *Client) GetCredits(ctx context.Context, movieID int) (*models.Credits, error) {
	var raw normalize.RESTCredits
	if err := c.get(ctx, "getCredits", fmt.Sprintf("/movie/%d/credits", movieID), nil, &raw); err != nil {
		if transport.StatusCode(err) == http.StatusNotFound {
			return nil, errors.NotFound(fmt.Sprintf("movie %d not found", movieID))
		}
		return nil, err
	}
	credits := normalize.CreditsFromREST(&raw)
	return &credits, nil
}

// GetGenres retrieves the movie genre list.
func (c *Client) GetGenres(ctx context.Context) ([]models.Genre, error) {
	var raw normalize.RESTGenreList
	if err := c.get(ctx, "getGenres", "/genre/movie/list", nil, &raw); err != nil {
		return nil, err
	}
	return normalize.GenresFromREST(raw.Genres), nil
}

// Account retrieves the account the access token belongs to.
func (c *Client) Account(ctx context.Context) (*models.Account, error) {
	var raw normalize.RESTAccount
	if err := c.get(ctx, "account", "/account", nil, &raw); err != nil {
		return nil, err
	}
	acct := normalize.AccountFromREST(&raw)
	return &acct, nil
}

// ImageURL builds a TMDB image URL.
func (c *Client) ImageURL(path *string, size models.ImageSize) string {
	return catalog.ImageURL(path, size)
}

func (c *Client) listing(ctx context.Context, op, path string, q url.Values, page int) (*models.PagedResult[models.Movie], error) {
	q.Set("page", strconv.Itoa(catalog.Page(page)))
	var raw normalize.RESTPage
	if err := c.get(ctx, op, path, q, &raw); err != nil {
		return nil, err
	}

	var report normalize.Report
	result := normalize.PageFromREST(&raw, &report)
	catalog.ReportIssues(ctx, c.logger, op, &report)
	return result, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, v any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	resp, err := c.transport.Do(ctx, transport.Request{Op: op, Method: http.MethodGet, URL: u})
	if err != nil {
		return err
	}
	return transport.DecodeJSON(op, resp.Body, v)
}
