package graphql

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/adapters/external/tmdb"
	"github.com/narwhalmedia/moviebrowser/internal/infrastructure/adapters/external/transport"
	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

// fakeServer answers GraphQL operations by name with canned response bodies.
type fakeServer struct {
	*httptest.Server
	responses map[string]string
	lastVars  map[string]any
	hits      atomic.Int32
}

func newFakeServer(t *testing.T) *fakeServer {
	f := &fakeServer{responses: map[string]string{}}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req request
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.lastVars = req.Variables
		resp, ok := f.responses[req.OperationName]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(f.Close)
	return f
}

type ClientTestSuite struct {
	suite.Suite
	server *fakeServer
	client *Client
}

func (s *ClientTestSuite) SetupTest() {
	s.server = newFakeServer(s.T())
	s.client = NewClient(s.server.URL, transport.Config{}, nil)
}

func (s *ClientTestSuite) TestFetchByCategorySelectsOperation() {
	s.server.responses["GetNowPlayingMovies"] = `{"data": {"nowPlayingMovies": {
		"page": 1, "totalResults": 1, "totalPages": 1,
		"results": [{"id": "10", "title": "Now", "genres": [{"id": "35", "name": "Comedy"}]}]
	}}}`

	page, err := s.client.FetchByCategory(context.Background(), models.CategoryNowPlaying, -1)
	s.Require().NoError(err)
	s.Equal(float64(1), s.server.lastVars["page"])
	s.Require().Len(page.Results, 1)
	s.Equal(10, page.Results[0].ID)
	s.Equal([]int{35}, page.Results[0].GenreIDs)
}

func (s *ClientTestSuite) TestNullListingIsEmptyPage() {
	s.server.responses["GetPopularMovies"] = `{"data": {"popularMovies": null}}`

	page, err := s.client.FetchByCategory(context.Background(), models.CategoryPopular, 1)
	s.Require().NoError(err)
	s.Equal(&models.PagedResult[models.Movie]{Page: 1, Results: []models.Movie{}}, page)
}

func (s *ClientTestSuite) TestSearchRejectsBlankQueryWithoutNetwork() {
	_, err := s.client.Search(context.Background(), "  ", 1)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(int32(0), s.server.hits.Load())
}

func (s *ClientTestSuite) TestSearchSendsVariables() {
	s.server.responses["SearchMovies"] = `{"data": {"searchMovies": {"page": 1, "totalResults": 0, "totalPages": 0, "results": []}}}`

	_, err := s.client.Search(context.Background(), " matrix ", 1)
	s.Require().NoError(err)
	s.Equal("matrix", s.server.lastVars["query"])
}

func (s *ClientTestSuite) TestGetDetailsNullMovieIsNotFound() {
	s.server.responses["GetMovie"] = `{"data": {"movie": null}}`

	_, err := s.client.GetDetails(context.Background(), 999999999)
	s.True(errors.IsNotFound(err))
	s.Equal("999999999", s.server.lastVars["id"])
}

func (s *ClientTestSuite) TestErrorsArrayIsProviderError() {
	s.server.responses["GetMovie"] = `{"data": null, "errors": [{"message": "upstream unavailable"}]}`

	_, err := s.client.GetDetails(context.Background(), 1)
	s.True(errors.IsProvider(err))
	s.Contains(err.Error(), "upstream unavailable")
}

func (s *ClientTestSuite) TestNullMovieWithErrorsIsNotFound() {
	s.server.responses["GetMovie"] = `{"data": {"movie": null},
		"errors": [{"message": "Movie not found", "path": ["movie"]}]}`

	_, err := s.client.GetDetails(context.Background(), 999999999)
	s.True(errors.IsNotFound(err))
	s.False(errors.IsProvider(err))
}

func (s *ClientTestSuite) TestPartialDataWithErrorsIsUsed() {
	s.server.responses["GetMovie"] = `{"data": {"movie": {"id": "7", "title": "Partial"}},
		"errors": [{"message": "tagline resolver failed", "path": ["movie", "tagline"]}]}`

	details, err := s.client.GetDetails(context.Background(), 7)
	s.Require().NoError(err)
	s.Equal(7, details.ID)
	s.Equal("Partial", details.Title)
}

func (s *ClientTestSuite) TestNullCreditsAreEmpty() {
	s.server.responses["GetMovieCredits"] = `{"data": {"movieCredits": null}}`

	credits, err := s.client.GetCredits(context.Background(), 5)
	s.Require().NoError(err)
	s.Equal(0, credits.ID)
	s.Empty(credits.Cast)
	s.NotNil(credits.Crew)
}

func (s *ClientTestSuite) TestGenresAndExtendedListings() {
	s.server.responses["GetGenres"] = `{"data": {"genres": [{"id": "28", "name": "Action"}]}}`
	s.server.responses["GetMoviesByGenre"] = `{"data": {"moviesByGenre": {"page": 1, "results": [{"id": "1"}]}}}`
	s.server.responses["GetTopRatedMovies"] = `{"data": {"topRatedMovies": null}}`

	genres, err := s.client.GetGenres(context.Background())
	s.Require().NoError(err)
	s.Equal([]models.Genre{{ID: 28, Name: "Action"}}, genres)

	byGenre, err := s.client.MoviesByGenre(context.Background(), 28, 1)
	s.Require().NoError(err)
	s.Equal("28", s.server.lastVars["genreId"])
	s.Equal(1, byGenre.TotalResults)

	top, err := s.client.TopRated(context.Background(), 1)
	s.Require().NoError(err)
	s.Empty(top.Results)
}

func (s *ClientTestSuite) TestHTTPFailureIsProviderError() {
	_, err := s.client.GetRecommendations(context.Background(), 1, 1)
	s.True(errors.IsProvider(err))
	s.Equal(http.StatusBadRequest, transport.StatusCode(err))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

// Both adapters must return identical canonical values for the same movie.
func TestAdaptersProduceIdenticalEntities(t *testing.T) {
	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/603":
			_, _ = w.Write([]byte(`{
				"id": 603, "title": "The Matrix", "overview": "Neo...", "release_date": "1999-03-30",
				"poster_path": "/p.jpg", "backdrop_path": null, "adult": false,
				"original_language": "en", "original_title": "The Matrix",
				"popularity": 80.5, "vote_count": 25000, "video": false, "vote_average": 8.2,
				"runtime": 136, "budget": 63000000, "revenue": 463517383, "status": "Released",
				"tagline": "Welcome to the Real World.", "homepage": "", "imdb_id": "tt0133093",
				"genres": [{"id": 28, "name": "Action"}],
				"production_companies": [{"id": 79, "name": "Village Roadshow", "logo_path": "/l.png", "origin_country": "US"}],
				"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
				"spoken_languages": [{"english_name": "English", "iso_639_1": "en", "name": "English"}]
			}`))
		case "/movie/popular":
			_, _ = w.Write([]byte(`{"page": 1, "total_pages": 1, "total_results": 1, "results": [
				{"id": 603, "title": "The Matrix", "overview": "Neo...", "release_date": "1999-03-30",
				 "poster_path": "/p.jpg", "genre_ids": [28], "adult": false, "original_language": "en",
				 "original_title": "The Matrix", "popularity": 80.5, "vote_count": 25000, "video": false,
				 "vote_average": 8.2}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer rest.Close()

	gql := newFakeServer(t)
	gqlMovie := `{"id": "603", "title": "The Matrix", "overview": "Neo...", "releaseDate": "1999-03-30",
		"posterPath": "/p.jpg", "backdropPath": "", "adult": false, "originalLanguage": "en",
		"originalTitle": "The Matrix", "popularity": 80.5, "voteCount": 25000, "video": false,
		"voteAverage": 8.2, "genres": [{"id": "28", "name": "Action"}]`
	gql.responses["GetMovie"] = `{"data": {"movie": ` + gqlMovie + `,
		"runtime": 136, "budget": 63000000, "revenue": 463517383, "status": "Released",
		"tagline": "Welcome to the Real World.", "homepage": null, "imdbId": "tt0133093",
		"productionCompanies": [{"id": "79", "name": "Village Roadshow", "logoPath": "/l.png", "originCountry": "US"}],
		"productionCountries": [{"iso31661": "US", "name": "United States of America"}],
		"spokenLanguages": [{"iso6391": "en", "name": "English"}]}}}`
	gql.responses["GetPopularMovies"] = `{"data": {"popularMovies": {"page": 1, "totalPages": 1, "totalResults": 1,
		"results": [` + gqlMovie + `}]}}}`

	restClient := tmdb.NewClient(rest.URL, "token", transport.Config{}, nil)
	gqlClient := NewClient(gql.URL, transport.Config{}, nil)
	ctx := context.Background()

	restDetails, err := restClient.GetDetails(ctx, 603)
	require.NoError(t, err)
	gqlDetails, err := gqlClient.GetDetails(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, restDetails, gqlDetails)

	restJSON, err := json.Marshal(restDetails)
	require.NoError(t, err)
	gqlJSON, err := json.Marshal(gqlDetails)
	require.NoError(t, err)
	assert.Equal(t, string(restJSON), string(gqlJSON))

	restPage, err := restClient.FetchByCategory(ctx, models.CategoryPopular, 1)
	require.NoError(t, err)
	gqlPage, err := gqlClient.FetchByCategory(ctx, models.CategoryPopular, 1)
	require.NoError(t, err)
	assert.Equal(t, restPage, gqlPage)
}
