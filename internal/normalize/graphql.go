package normalize

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

// GraphQLID is a GraphQL ID scalar. The schema serializes ids as strings,
// but numeric literals are accepted as well.
type GraphQLID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *GraphQLID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = GraphQLID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = GraphQLID(n.String())
	return nil
}

// GraphQLGenre is a genre in the GraphQL schema.
type GraphQLGenre struct {
	ID   GraphQLID `json:"id"`
	Name *string   `json:"name"`
}

// GraphQLProductionCompany is a production company in the GraphQL schema.
type GraphQLProductionCompany struct {
	ID            GraphQLID `json:"id"`
	Name          *string   `json:"name"`
	LogoPath      *string   `json:"logoPath"`
	OriginCountry *string   `json:"originCountry"`
}

// GraphQLProductionCountry is a production country in the GraphQL schema.
type GraphQLProductionCountry struct {
	ISO31661 *string `json:"iso31661"`
	Name     *string `json:"name"`
}

// GraphQLSpokenLanguage is a spoken language in the GraphQL schema.
type GraphQLSpokenLanguage struct {
	ISO6391 *string `json:"iso6391"`
	Name    *string `json:"name"`
}

// GraphQLMovie is a Movie object. List queries select only the movie
// fragment; the movie(id) query selects the details fragment as well.
type GraphQLMovie struct {
	ID               GraphQLID                  `json:"id"`
	Title            *string                    `json:"title"`
	Overview         *string                    `json:"overview"`
	ReleaseDate      *string                    `json:"releaseDate"`
	PosterPath       *string                    `json:"posterPath"`
	BackdropPath     *string                    `json:"backdropPath"`
	VoteAverage      *float64                   `json:"voteAverage"`
	VoteCount        *int                       `json:"voteCount"`
	Popularity       *float64                   `json:"popularity"`
	Adult            *bool                      `json:"adult"`
	OriginalLanguage *string                    `json:"originalLanguage"`
	OriginalTitle    *string                    `json:"originalTitle"`
	Video            *bool                      `json:"video"`
	Genres           []GraphQLGenre             `json:"genres"`
	Runtime          *int                       `json:"runtime"`
	Budget           *int64                     `json:"budget"`
	Revenue          *int64                     `json:"revenue"`
	Status           *string                    `json:"status"`
	Tagline          *string                    `json:"tagline"`
	Homepage         *string                    `json:"homepage"`
	IMDbID           *string                    `json:"imdbId"`
	Companies        []GraphQLProductionCompany `json:"productionCompanies"`
	Countries        []GraphQLProductionCountry `json:"productionCountries"`
	SpokenLanguages  []GraphQLSpokenLanguage    `json:"spokenLanguages"`
}

// GraphQLCast is a cast member in the GraphQL schema.
type GraphQLCast struct {
	ID                 GraphQLID `json:"id"`
	Name               *string   `json:"name"`
	Character          *string   `json:"character"`
	ProfilePath        *string   `json:"profilePath"`
	Order              *int      `json:"order"`
	Gender             *int      `json:"gender"`
	KnownForDepartment *string   `json:"knownForDepartment"`
}

// GraphQLCrew is a crew member in the GraphQL schema.
type GraphQLCrew struct {
	ID                 GraphQLID `json:"id"`
	Name               *string   `json:"name"`
	Job                *string   `json:"job"`
	Department         *string   `json:"department"`
	ProfilePath        *string   `json:"profilePath"`
	Gender             *int      `json:"gender"`
	KnownForDepartment *string   `json:"knownForDepartment"`
}

// GraphQLCredits is the movieCredits object.
type GraphQLCredits struct {
	ID   GraphQLID     `json:"id"`
	Cast []GraphQLCast `json:"cast"`
	Crew []GraphQLCrew `json:"crew"`
}

// GraphQLPage is the search result object shared by every listing query.
type GraphQLPage struct {
	Page         *int           `json:"page"`
	TotalResults *int           `json:"totalResults"`
	TotalPages   *int           `json:"totalPages"`
	Results      []GraphQLMovie `json:"results"`
}

// MovieFromGraphQL normalizes a GraphQL movie record.
func MovieFromGraphQL(raw *GraphQLMovie, r *Report) models.Movie {
	if raw == nil {
		r.add(SourceGraphQL, "movie", "", "missing record")
		return models.Movie{GenreIDs: []int{}}
	}
	ids := make([]int, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		ids = append(ids, parseID(SourceGraphQL, "genres.id", string(g.ID), r))
	}
	return models.Movie{
		ID:               parseID(SourceGraphQL, "id", string(raw.ID), r),
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

// GenresFromGraphQL normalizes GraphQL genres.
func GenresFromGraphQL(raw []GraphQLGenre, r *Report) []models.Genre {
	out := make([]models.Genre, 0, len(raw))
	for _, g := range raw {
		out = append(out, models.Genre{
			ID:   parseID(SourceGraphQL, "genres.id", string(g.ID), r),
			Name: deref(g.Name),
		})
	}
	return out
}

// DetailsFromGraphQL normalizes a GraphQL movie selected with the details
// fragment. The schema has no english language name, so Name is used for both.
func DetailsFromGraphQL(raw *GraphQLMovie, r *Report) models.MovieDetails {
	if raw == nil {
		r.add(SourceGraphQL, "movie", "", "missing record")
		return emptyDetails()
	}

	companies := make([]models.ProductionCompany, 0, len(raw.Companies))
	for _, c := range raw.Companies {
		companies = append(companies, models.ProductionCompany{
			ID:            parseID(SourceGraphQL, "productionCompanies.id", string(c.ID), r),
			Name:          deref(c.Name),
			LogoPath:      imagePath(c.LogoPath),
			OriginCountry: deref(c.OriginCountry),
		})
	}
	countries := make([]models.ProductionCountry, 0, len(raw.Countries))
	for _, c := range raw.Countries {
		countries = append(countries, models.ProductionCountry{
			ISO3166_1: deref(c.ISO31661),
			Name:      deref(c.Name),
		})
	}
	languages := make([]models.SpokenLanguage, 0, len(raw.SpokenLanguages))
	for _, l := range raw.SpokenLanguages {
		languages = append(languages, models.SpokenLanguage{
			EnglishName: deref(l.Name),
			ISO639_1:    deref(l.ISO6391),
			Name:        deref(l.Name),
		})
	}

	runtime := deref(raw.Runtime)
	if runtime < 0 {
		r.add(SourceGraphQL, "runtime", strconv.Itoa(runtime), "negative runtime, using 0")
		runtime = 0
	}

	return models.MovieDetails{
		Movie:               MovieFromGraphQL(raw, r),
		Budget:              deref(raw.Budget),
		Revenue:             deref(raw.Revenue),
		Runtime:             runtime,
		Status:              deref(raw.Status),
		Tagline:             deref(raw.Tagline),
		Homepage:            deref(raw.Homepage),
		IMDbID:              deref(raw.IMDbID),
		Genres:              GenresFromGraphQL(raw.Genres, nil),
		ProductionCompanies: companies,
		ProductionCountries: countries,
		SpokenLanguages:     languages,
	}
}

// CreditsFromGraphQL normalizes a GraphQL credits object. GraphQL has no
// separate cast or credit ids; the person id stands in for both.
func CreditsFromGraphQL(raw *GraphQLCredits, r *Report) models.Credits {
	if raw == nil {
		return models.Credits{Cast: []models.Cast{}, Crew: []models.Crew{}}
	}
	cast := make([]models.Cast, 0, len(raw.Cast))
	for _, c := range raw.Cast {
		id := parseID(SourceGraphQL, "cast.id", string(c.ID), r)
		name := deref(c.Name)
		cast = append(cast, models.Cast{
			ID:                 id,
			Name:               name,
			OriginalName:       name,
			Character:          deref(c.Character),
			KnownForDepartment: deref(c.KnownForDepartment),
			Gender:             deref(c.Gender),
			ProfilePath:        imagePath(c.ProfilePath),
			CastID:             id,
			CreditID:           string(c.ID),
			Order:              deref(c.Order),
		})
	}
	crew := make([]models.Crew, 0, len(raw.Crew))
	for _, c := range raw.Crew {
		name := deref(c.Name)
		department := deref(c.Department)
		known := deref(c.KnownForDepartment)
		if known == "" {
			known = department
		}
		crew = append(crew, models.Crew{
			ID:                 parseID(SourceGraphQL, "crew.id", string(c.ID), r),
			Name:               name,
			OriginalName:       name,
			Job:                deref(c.Job),
			Department:         department,
			KnownForDepartment: known,
			Gender:             deref(c.Gender),
			ProfilePath:        imagePath(c.ProfilePath),
			CreditID:           string(c.ID),
		})
	}
	return models.Credits{
		ID:   parseID(SourceGraphQL, "movieCredits.id", string(raw.ID), r),
		Cast: cast,
		Crew: crew,
	}
}

// PageFromGraphQL normalizes a GraphQL listing. A null listing is the
// empty first page.
func PageFromGraphQL(raw *GraphQLPage, r *Report) *models.PagedResult[models.Movie] {
	if raw == nil {
		return models.EmptyPage[models.Movie]()
	}
	results := make([]models.Movie, 0, len(raw.Results))
	for i := range raw.Results {
		results = append(results, MovieFromGraphQL(&raw.Results[i], r))
	}
	return finishPage(SourceGraphQL, &models.PagedResult[models.Movie]{
		Page:         pageNumber(SourceGraphQL, raw.Page, r),
		TotalPages:   deref(raw.TotalPages),
		TotalResults: deref(raw.TotalResults),
		Results:      results,
	}, r)
}
