// Package graphql implements catalog.Provider against a GraphQL movie API.
package graphql

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/narwhalmedia/moviebrowser/internal/catalog"
	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/adapters/external/transport"
	"github.com/narwhalmedia/moviebrowser/internal/normalize"
	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

// DefaultEndpoint is the local GraphQL gateway.
const DefaultEndpoint = "http://localhost:4000/graphql"

// ProviderName identifies this adapter in logs and metrics.
const ProviderName = "graphql"

// Client is a GraphQL movie API client.
type Client struct {
	endpoint  string
	transport *transport.Client
	logger    interfaces.Logger
}

var _ catalog.Extended = (*Client)(nil)

// NewClient creates a GraphQL client for endpoint.
func NewClient(endpoint string, cfg transport.Config, log interfaces.Logger, opts ...transport.Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logger.NewNoop()
	}
	cfg.Name = ProviderName
	opts = append([]transport.Option{
		transport.WithHeader("Content-Type", "application/json"),
		transport.WithHeader("Accept", "application/json"),
	}, opts...)

	return &Client{
		endpoint:  endpoint,
		transport: transport.New(cfg, log, opts...),
		logger:    log.WithFields(interfaces.String("provider", ProviderName)),
	}
}

type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName"`
}

type response struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []responseError            `json:"errors"`
}

type responseError struct {
	Message string `json:"message"`
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// FetchByCategory retrieves one page of a category listing.
func (c *Client) FetchByCategory(ctx context.Context, category models.Category, page int) (*models.PagedResult[models.Movie], error) {
	var o operation
	switch category {
	case models.CategoryNowPlaying:
		o = opNowPlaying
	case models.CategoryUpcoming:
		o = opUpcoming
	case models.CategoryPopular:
		o = opPopular
	default:
		return nil, errors.InvalidArgument(fmt.Sprintf("unknown category: %q", category))
	}
	return c.listing(ctx, "fetchByCategory", o, map[string]any{"page": catalog.Page(page)})
}

// TopRated retrieves one page of the top rated listing.
func (c *Client) TopRated(ctx context.Context, page int) (*models.PagedResult[models.Movie], error) {
	return c.listing(ctx, "topRated", opTopRated, map[string]any{"page": catalog.Page(page)})
}

// MoviesByGenre retrieves one page of movies tagged with a genre.
func (c *Client) MoviesByGenre(ctx context.Context, genreID int, page int) (*models.PagedResult[models.Movie], error) {
	return c.listing(ctx, "moviesByGenre", opMoviesByGenre, map[string]any{
		"genreId": strconv.Itoa(genreID),
		"page":    catalog.Page(page),
	})
}

// Search retrieves one page of title search results.
func (c *Client) Search(ctx context.Context, query string, page int) (*models.PagedResult[models.Movie], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.InvalidArgument("search query cannot be empty")
	}
	return c.listing(ctx, "search", opSearchMovies, map[string]any{"query": query, "page": catalog.Page(page)})
}

// GetRecommendations retrieves one page of recommendations for a movie.
func (c *Client) GetRecommendations(ctx context.Context, movieID int, page int) (*models.PagedResult[models.Movie], error) {
	return c.listing(ctx, "getRecommendations", opRecommendations, map[string]any{
		"id":   strconv.Itoa(movieID),
		"page": catalog.Page(page),
	})
}

// GetDetails retrieves a movie with the details fragment.
func (c *Client) GetDetails(ctx context.Context, movieID int) (*models.MovieDetails, error) {
	const op = "getDetails"
	var raw normalize.GraphQLMovie
	found, err := c.query(ctx, op, opGetMovie, map[string]any{"id": strconv.Itoa(movieID)}, &raw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NotFound(fmt.Sprintf("movie %d not found", movieID))
	}

	var report normalize.Report
	details := normalize.DetailsFromGraphQL(&raw, &report)
	catalog.ReportIssues(ctx, c.logger, op, &report)
	return &details, nil
}

// GetCredits retrieves the cast and crew of a movie. A null credits object
// yields empty credits.
func (c *Client) GetCredits(ctx context.Context, movieID int) (*models.Credits, error) {
	const op = "getCredits"
	var raw normalize.GraphQLCredits
	found, err := c.query(ctx, op, opMovieCredits, map[string]any{"id": strconv.Itoa(movieID)}, &raw)
	if err != nil {
		return nil, err
	}

	var report normalize.Report
	var credits models.Credits
	if found {
		credits = normalize.CreditsFromGraphQL(&raw, &report)
	} else {
		credits = normalize.CreditsFromGraphQL(nil, &report)
	}
	catalog.ReportIssues(ctx, c.logger, op, &report)
	return &credits, nil
}

// GetGenres retrieves the movie genre list.
func (c *Client) GetGenres(ctx context.Context) ([]models.Genre, error) {
	const op = "getGenres"
	var raw []normalize.GraphQLGenre
	if _, err := c.query(ctx, op, opGenres, nil, &raw); err != nil {
		return nil, err
	}

	var report normalize.Report
	genres := normalize.GenresFromGraphQL(raw, &report)
	catalog.ReportIssues(ctx, c.logger, op, &report)
	return genres, nil
}

// ImageURL builds a TMDB image URL.
func (c *Client) ImageURL(path *string, size models.ImageSize) string {
	return catalog.ImageURL(path, size)
}

func (c *Client) listing(ctx context.Context, op string, o operation, vars map[string]any) (*models.PagedResult[models.Movie], error) {
	var raw normalize.GraphQLPage
	found, err := c.query(ctx, op, o, vars, &raw)
	if err != nil {
		return nil, err
	}

	var report normalize.Report
	var result *models.PagedResult[models.Movie]
	if found {
		result = normalize.PageFromGraphQL(&raw, &report)
	} else {
		result = normalize.PageFromGraphQL(nil, &report)
	}
	catalog.ReportIssues(ctx, c.logger, op, &report)
	return result, nil
}

// query posts a document and decodes the data field of o into v. found is
// false when the field is absent or null. An errors array fails the call
// only when the field itself is missing from data; otherwise the errors are
// logged and the partial data is used.
func (c *Client) query(ctx context.Context, op string, o operation, vars map[string]any, v any) (bool, error) {
	body, err := json.Marshal(request{Query: o.doc, Variables: vars, OperationName: o.name})
	if err != nil {
		return false, errors.Provider(op, fmt.Errorf("encoding request: %w", err))
	}

	resp, err := c.transport.Do(ctx, transport.Request{
		Op:     op,
		Method: http.MethodPost,
		URL:    c.endpoint,
		Body:   body,
	})
	if err != nil {
		return false, err
	}

	var envelope response
	if err := transport.DecodeJSON(op, resp.Body, &envelope); err != nil {
		return false, err
	}

	raw, ok := envelope.Data[o.field]
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		msg := strings.Join(msgs, "; ")
		if !ok {
			return false, errors.Provider(op, stderrors.New("graphql: "+msg))
		}
		c.logger.Warn("GraphQL response carried errors",
			interfaces.String("operation", op),
			interfaces.String("errors", msg))
	}

	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false, nil
	}
	if err := transport.DecodeJSON(op, raw, v); err != nil {
		return false, err
	}
	return true, nil
}
