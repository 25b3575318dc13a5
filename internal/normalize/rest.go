package normalize

import (
	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

// RESTMovie is a movie list entry as returned by the TMDB REST API.
type RESTMovie struct {
	ID               *int     `json:"id"`
	Title            *string  `json:"title"`
	Overview         *string  `json:"overview"`
	PosterPath       *string  `json:"poster_path"`
	BackdropPath     *string  `json:"backdrop_path"`
	ReleaseDate      *string  `json:"release_date"`
	GenreIDs         []int    `json:"genre_ids"`
	Adult            *bool    `json:"adult"`
	OriginalLanguage *string  `json:"original_language"`
	OriginalTitle    *string  `json:"original_title"`
	Popularity       *float64 `json:"popularity"`
	VoteCount        *int     `json:"vote_count"`
	Video            *bool    `json:"video"`
	VoteAverage      *float64 `json:"vote_average"`
}

// RESTGenre is a TMDB genre.
type RESTGenre struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
}

// RESTGenreList is the body of GET /genre/movie/list.
type RESTGenreList struct {
	Genres []RESTGenre `json:"genres"`
}

// RESTProductionCompany is a TMDB production company.
type RESTProductionCompany struct {
	ID            *int    `json:"id"`
	Name          *string `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry *string `json:"origin_country"`
}

// RESTProductionCountry is a TMDB production country.
type RESTProductionCountry struct {
	ISO3166_1 *string `json:"iso_3166_1"`
	Name      *string `json:"name"`
}

// RESTSpokenLanguage is a TMDB spoken language.
type RESTSpokenLanguage struct {
	EnglishName *string `json:"english_name"`
	ISO639_1    *string `json:"iso_639_1"`
	Name        *string `json:"name"`
}

// RESTMovieDetails is the body of GET /movie/{id}.
type RESTMovieDetails struct {
	RESTMovie

	Budget              *int64                  `json:"budget"`
	Revenue             *int64                  `json:"revenue"`
	Runtime             *int                    `json:"runtime"`
	Status              *string                 `json:"status"`
	Tagline             *string                 `json:"tagline"`
	Homepage            *string                 `json:"homepage"`
	IMDbID              *string                 `json:"imdb_id"`
	Genres              []RESTGenre             `json:"genres"`
	ProductionCompanies []RESTProductionCompany `json:"production_companies"`
	ProductionCountries []RESTProductionCountry `json:"production_countries"`
	SpokenLanguages     []RESTSpokenLanguage    `json:"spoken_languages"`
}

// RESTCast is a cast entry of GET /movie/{id}/credits.
type RESTCast struct {
	ID                 *int     `json:"id"`
	Name               *string  `json:"name"`
	OriginalName       *string  `json:"original_name"`
	Character          *string  `json:"character"`
	KnownForDepartment *string  `json:"known_for_department"`
	Gender             *int     `json:"gender"`
	Popularity         *float64 `json:"popularity"`
	Adult              *bool    `json:"adult"`
	ProfilePath        *string  `json:"profile_path"`
	CastID             *int     `json:"cast_id"`
	CreditID           *string  `json:"credit_id"`
	Order              *int     `json:"order"`
}

// RESTCrew is a crew entry of GET /movie/{id}/credits.
type RESTCrew struct {
	ID                 *int     `json:"id"`
	Name               *string  `json:"name"`
	OriginalName       *string  `json:"original_name"`
	Job                *string  `json:"job"`
	Department         *string  `json:"department"`
	KnownForDepartment *string  `json:"known_for_department"`
	Gender             *int     `json:"gender"`
	Popularity         *float64 `json:"popularity"`
	Adult              *bool    `json:"adult"`
	ProfilePath        *string  `json:"profile_path"`
	CreditID           *string  `json:"credit_id"`
}

// RESTCredits is the body of GET /movie/{id}/credits.
type RESTCredits struct {
	ID   *int       `json:"id"`
	Cast []RESTCast `json:"cast"`
	Crew []RESTCrew `json:"crew"`
}

// RESTPage is a paged listing body.
type RESTPage struct {
	Page         *int        `json:"page"`
	TotalPages   *int        `json:"total_pages"`
	TotalResults *int        `json:"total_results"`
	Results      []RESTMovie `json:"results"`
}

// RESTAccount is the body of GET /account.
type RESTAccount struct {
	ID           *int    `json:"id"`
	Name         *string `json:"name"`
	Username     *string `json:"username"`
	IncludeAdult *bool   `json:"include_adult"`
	ISO639_1     *string `json:"iso_639_1"`
	ISO3166_1    *string `json:"iso_3166_1"`
	Avatar       *struct {
		Gravatar *struct {
			Hash *string `json:"hash"`
		} `json:"gravatar"`
		TMDB *struct {
			AvatarPath *string `json:"avatar_path"`
		} `json:"tmdb"`
	} `json:"avatar"`
}

// MovieFromREST normalizes a REST movie record.
func MovieFromREST(raw *RESTMovie, r *Report) models.Movie {
	if raw == nil {
		r.add(SourceREST, "movie", "", "missing record")
		return models.Movie{GenreIDs: []int{}}
	}
	ids := make([]int, len(raw.GenreIDs))
	copy(ids, raw.GenreIDs)
	return models.Movie{
		ID:               deref(raw.ID),
		Title:            deref(raw.Title),
		Overview:         deref(raw.Overview),
		PosterPath:       imagePath(raw.PosterPath),
		BackdropPath:     imagePath(raw.BackdropPath),
		ReleaseDate:      deref(raw.ReleaseDate),
		GenreIDs:         ids,
		Adult:            deref(raw.Adult),
		OriginalLanguage: deref(raw.OriginalLanguage),
		OriginalTitle:    deref(raw.OriginalTitle),
		Popularity:       deref(raw.Popularity),
		VoteCount:        deref(raw.VoteCount),
		Video:            deref(raw.Video),
		VoteAverage:      deref(raw.VoteAverage),
	}
}

// GenresFromREST normalizes a list of REST genres.
func GenresFromREST(raw []RESTGenre) []models.Genre {
	out := make([]models.Genre, 0, len(raw))
	for _, g := range raw {
		out = append(out, models.Genre{ID: deref(g.ID), Name: deref(g.Name)})
	}
	return out
}

// DetailsFromREST normalizes a REST movie details record. The details
// endpoint carries full genres instead of genre_ids; ids are derived from them.
func DetailsFromREST(raw *RESTMovieDetails, r *Report) models.MovieDetails {
	if raw == nil {
		r.add(SourceREST, "movie", "", "missing record")
		return emptyDetails()
	}

	genres := GenresFromREST(raw.Genres)
	movie := MovieFromREST(&raw.RESTMovie, r)
	if len(raw.GenreIDs) == 0 {
		movie.GenreIDs = genreIDs(genres)
	}

	companies := make([]models.ProductionCompany, 0, len(raw.ProductionCompanies))
	for _, c := range raw.ProductionCompanies {
		companies = append(companies, models.ProductionCompany{
			ID:            deref(c.ID),
			Name:          deref(c.Name),
			LogoPath:      imagePath(c.LogoPath),
			OriginCountry: deref(c.OriginCountry),
		})
	}
	countries := make([]models.ProductionCountry, 0, len(raw.ProductionCountries))
	for _, c := range raw.ProductionCountries {
		countries = append(countries, models.ProductionCountry{
			ISO3166_1: deref(c.ISO3166_1),
			Name:      deref(c.Name),
		})
	}
	languages := make([]models.SpokenLanguage, 0, len(raw.SpokenLanguages))
	for _, l := range raw.SpokenLanguages {
		languages = append(languages, models.SpokenLanguage{
			EnglishName: deref(l.EnglishName),
			ISO639_1:    deref(l.ISO639_1),
			Name:        deref(l.Name),
		})
	}

	runtime := deref(raw.Runtime)
	if runtime < 0 {
		r.add(SourceREST, "runtime", "", "negative runtime, using 0")
		runtime = 0
	}

	return models.MovieDetails{
		Movie:               movie,
		Budget:              deref(raw.Budget),
		Revenue:             deref(raw.Revenue),
		Runtime:             runtime,
		Status:              deref(raw.Status),
		Tagline:             deref(raw.Tagline),
		Homepage:            deref(raw.Homepage),
		IMDbID:              deref(raw.IMDbID),
		Genres:              genres,
		ProductionCompanies: companies,
		ProductionCountries: countries,
		SpokenLanguages:     languages,
	}
}

// CreditsFromREST normalizes a REST credits body, preserving provider order.
func CreditsFromREST(raw *RESTCredits) models.Credits {
	if raw == nil {
		return models.Credits{Cast: []models.Cast{}, Crew: []models.Crew{}}
	}
	cast := make([]models.Cast, 0, len(raw.Cast))
	for _, c := range raw.Cast {
		cast = append(cast, models.Cast{
			ID:                 deref(c.ID),
			Name:               deref(c.Name),
			OriginalName:       deref(c.OriginalName),
			Character:          deref(c.Character),
			KnownForDepartment: deref(c.KnownForDepartment),
			Gender:             deref(c.Gender),
			Popularity:         deref(c.Popularity),
			Adult:              deref(c.Adult),
			ProfilePath:        imagePath(c.ProfilePath),
			CastID:             deref(c.CastID),
			CreditID:           deref(c.CreditID),
			Order:              deref(c.Order),
		})
	}
	crew := make([]models.Crew, 0, len(raw.Crew))
	for _, c := range raw.Crew {
		crew = append(crew, models.Crew{
			ID:                 deref(c.ID),
			Name:               deref(c.Name),
			OriginalName:       deref(c.OriginalName),
			Job:                deref(c.Job),
			Department:         deref(c.Department),
			KnownForDepartment: deref(c.KnownForDepartment),
			Gender:             deref(c.Gender),
			Popularity:         deref(c.Popularity),
			Adult:              deref(c.Adult),
			ProfilePath:        imagePath(c.ProfilePath),
			CreditID:           deref(c.CreditID),
		})
	}
	return models.Credits{ID: deref(raw.ID), Cast: cast, Crew: crew}
}

// PageFromREST normalizes a REST paged listing.
func PageFromREST(raw *RESTPage, r *Report) *models.PagedResult[models.Movie] {
	if raw == nil {
		return models.EmptyPage[models.Movie]()
	}
	results := make([]models.Movie, 0, len(raw.Results))
	for i := range raw.Results {
		results = append(results, MovieFromREST(&raw.Results[i], r))
	}
	return finishPage(SourceREST, &models.PagedResult[models.Movie]{
		Page:         pageNumber(SourceREST, raw.Page, r),
		TotalPages:   deref(raw.TotalPages),
		TotalResults: deref(raw.TotalResults),
		Results:      results,
	}, r)
}

// AccountFromREST normalizes a REST account body.
func AccountFromREST(raw *RESTAccount) models.Account {
	if raw == nil {
		return models.Account{}
	}
	acct := models.Account{
		ID:           deref(raw.ID),
		Name:         deref(raw.Name),
		Username:     deref(raw.Username),
		IncludeAdult: deref(raw.IncludeAdult),
		ISO639_1:     deref(raw.ISO639_1),
		ISO3166_1:    deref(raw.ISO3166_1),
	}
	if raw.Avatar != nil {
		if raw.Avatar.Gravatar != nil {
			acct.GravatarHash = deref(raw.Avatar.Gravatar.Hash)
		}
		if raw.Avatar.TMDB != nil {
			acct.AvatarPath = imagePath(raw.Avatar.TMDB.AvatarPath)
		}
	}
	return acct
}

func emptyDetails() models.MovieDetails {
	return models.MovieDetails{
		Movie:               models.Movie{GenreIDs: []int{}},
		Genres:              []models.Genre{},
		ProductionCompanies: []models.ProductionCompany{},
		ProductionCountries: []models.ProductionCountry{},
		SpokenLanguages:     []models.SpokenLanguage{},
	}
}
