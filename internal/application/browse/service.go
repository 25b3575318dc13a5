// Package browse implements the screen level data flows of the client: the
// home list, the movie detail view and the watchlist view.
package browse

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/narwhalmedia/moviebrowser/internal/catalog"
	"github.com/narwhalmedia/moviebrowser/internal/metrics"
	"github.com/narwhalmedia/moviebrowser/internal/store"
	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
	"github.com/narwhalmedia/moviebrowser/pkg/models"
	"github.com/narwhalmedia/moviebrowser/pkg/utils"
)

// HomeView is the content of the home screen.
type HomeView struct {
	Category models.Category
	Sort     models.SortKey
	Query    string // empty unless searching
	Movies   []models.Movie
	Empty    bool
}

// DetailView is the content of the movie detail screen.
type DetailView struct {
	Movie           *models.MovieDetails
	Cast            []models.Cast
	KeyCrew         []models.Crew
	Recommendations []models.Movie
	InWatchlist     bool
	Certification   string
	Runtime         string
}

// Service combines a data provider with the application store.
type Service struct {
	provider catalog.Provider
	store    *store.Store
	gens     *Generations
	logger   interfaces.Logger
}

// NewService creates a browse service.
func NewService(provider catalog.Provider, st *store.Store, log interfaces.Logger) *Service {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Service{
		provider: provider,
		store:    st,
		gens:     NewGenerations(),
		logger:   log.WithFields(interfaces.String("component", "browse")),
	}
}

// Provider returns the data provider behind the service.
func (s *Service) Provider() catalog.Provider {
	return s.provider
}

// Home loads the first page of the selected category, or of the search
// results when a search query is set, sorted ascending by the selected key.
func (s *Service) Home(ctx context.Context) (*HomeView, error) {
	ticket := s.gens.Next("home")
	state := s.store.Snapshot()

	var (
		page *models.PagedResult[models.Movie]
		err  error
	)
	if state.SearchQuery != "" {
		page, err = s.provider.Search(ctx, state.SearchQuery, 1)
	} else {
		page, err = s.provider.FetchByCategory(ctx, state.Category, 1)
	}

	if !s.gens.Current(ticket) {
		metrics.StaleResponses.WithLabelValues("home").Inc()
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}

	movies := utils.SortMovies(page.Results, state.Sort, models.SortAsc)
	return &HomeView{
		Category: state.Category,
		Sort:     state.Sort,
		Query:    state.SearchQuery,
		Movies:   movies,
		Empty:    len(movies) == 0,
	}, nil
}

// Detail loads details, credits and recommendations of a movie concurrently.
// A failed recommendations request yields an empty list. A details error
// takes precedence over a credits error.
func (s *Service) Detail(ctx context.Context, movieID int) (*DetailView, error) {
	ticket := s.gens.Next("detail:" + strconv.Itoa(movieID))

	var (
		details    *models.MovieDetails
		detailsErr error
		credits    *models.Credits
		recs       *models.PagedResult[models.Movie]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		details, detailsErr = s.provider.GetDetails(gctx, movieID)
		return detailsErr
	})
	g.Go(func() error {
		var err error
		credits, err = s.provider.GetCredits(gctx, movieID)
		return err
	})
	g.Go(func() error {
		var err error
		recs, err = s.provider.GetRecommendations(gctx, movieID, 1)
		if err != nil {
			s.logger.WithContext(ctx).Warn("loading recommendations failed",
				interfaces.Int("movie_id", movieID),
				interfaces.Error(err))
			recs = models.EmptyPage[models.Movie]()
		}
		return nil
	})
	err := g.Wait()

	if !s.gens.Current(ticket) {
		metrics.StaleResponses.WithLabelValues("detail").Inc()
		return nil, ErrStale
	}
	if errors.IsNotFound(detailsErr) {
		return nil, detailsErr
	}
	if err != nil {
		return nil, err
	}

	return &DetailView{
		Movie:           details,
		Cast:            utils.Limit(credits.Cast, utils.DisplayLimit),
		KeyCrew:         utils.KeyCrew(credits.Crew),
		Recommendations: utils.Limit(recs.Results, utils.DisplayLimit),
		InWatchlist:     s.store.IsInWatchlist(movieID),
		Certification:   utils.Certification(details.Adult),
		Runtime:         utils.FormatRuntime(details.Runtime),
	}, nil
}

// Watchlist returns the watchlist sorted by sortBy in the given order.
func (s *Service) Watchlist(sortBy models.SortKey, order models.SortOrder) []models.Movie {
	return utils.SortMovies(s.store.Snapshot().Watchlist, sortBy, order)
}

// AddToWatchlist looks the movie up and adds it to the watchlist.
func (s *Service) AddToWatchlist(ctx context.Context, movieID int) (*models.Movie, error) {
	details, err := s.provider.GetDetails(ctx, movieID)
	if err != nil {
		return nil, err
	}
	movie := details.Movie
	s.store.AddToWatchlist(movie)
	return &movie, nil
}

// Genres returns the genre list of the provider.
func (s *Service) Genres(ctx context.Context) ([]models.Genre, error) {
	return s.provider.GetGenres(ctx)
}

// ByGenre returns the first page of movies in a genre, sorted ascending by
// the selected sort key.
func (s *Service) ByGenre(ctx context.Context, genreID int) ([]models.Movie, error) {
	ext, ok := s.provider.(catalog.Extended)
	if !ok {
		return nil, errors.Unsupported("movies by genre", s.provider.Name()+" provider cannot list by genre")
	}
	page, err := ext.MoviesByGenre(ctx, genreID, 1)
	if err != nil {
		return nil, err
	}
	return utils.SortMovies(page.Results, s.store.Snapshot().Sort, models.SortAsc), nil
}

// TopRated returns the first page of the top rated listing in provider order.
func (s *Service) TopRated(ctx context.Context) ([]models.Movie, error) {
	ext, ok := s.provider.(catalog.Extended)
	if !ok {
		return nil, errors.Unsupported("top rated", s.provider.Name()+" provider has no top rated listing")
	}
	page, err := ext.TopRated(ctx, 1)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Account returns the account behind the provider credentials.
func (s *Service) Account(ctx context.Context) (*models.Account, error) {
	ap, ok := s.provider.(catalog.AccountProvider)
	if !ok {
		return nil, errors.Unsupported("account", s.provider.Name()+" provider has no account endpoint")
	}
	return ap.Account(ctx)
}
