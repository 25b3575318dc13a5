package models

// Category identifies one of the browsable movie lists.
type Category string

const (
	CategoryNowPlaying Category = "now_playing"
	CategoryUpcoming   Category = "upcoming"
	CategoryPopular    Category = "popular"
)

// Categories lists the categories offered by the home screen, in display order.
var Categories = []Category{CategoryNowPlaying, CategoryUpcoming, CategoryPopular}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNowPlaying, CategoryUpcoming, CategoryPopular:
		return true
	}
	return false
}

// Label returns the human readable name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryNowPlaying:
		return "Now Playing"
	case CategoryUpcoming:
		return "Upcoming"
	case CategoryPopular:
		return "Popular"
	}
	return string(c)
}

// SortKey identifies the field a movie list is ordered by.
type SortKey string

const (
	SortAlphabetical SortKey = "alphabetical"
	SortRating       SortKey = "rating"
	SortReleaseDate  SortKey = "release_date"
)

// Valid reports whether k is one of the known sort keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortAlphabetical, SortRating, SortReleaseDate:
		return true
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ImageSize is a TMDB image size class.
type ImageSize string

const (
	ImageSizePoster   ImageSize = "w500"
	ImageSizeBackdrop ImageSize = "w1280"
	ImageSizeProfile  ImageSize = "w185"
)

// Movie is the provider independent representation of a movie list entry.
// It is also the element type of the persisted watchlist.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Popularity       float64 `json:"popularity"`
	VoteCount        int     `json:"vote_count"`
	Video            bool    `json:"video"`
	VoteAverage      float64 `json:"vote_average"`
}

// MovieDetails extends Movie with the fields of a single movie lookup.
type MovieDetails struct {
	Movie

	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Runtime             int                 `json:"runtime"` // minutes, 0 when unknown
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Homepage            string              `json:"homepage"`
	IMDbID              string              `json:"imdb_id"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
}

// Genre is a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany is a studio credited on a movie.
type ProductionCompany struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// ProductionCountry is a country a movie was produced in.
type ProductionCountry struct {
	ISO3166_1 string `json:"iso_3166_1"`
	Name      string `json:"name"`
}

// SpokenLanguage is a language spoken in a movie.
type SpokenLanguage struct {
	EnglishName string `json:"english_name"`
	ISO639_1    string `json:"iso_639_1"`
	Name        string `json:"name"`
}

// Cast is an acting credit.
type Cast struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Character          string  `json:"character"`
	KnownForDepartment string  `json:"known_for_department"`
	Gender             int     `json:"gender"`
	Popularity         float64 `json:"popularity"`
	Adult              bool    `json:"adult"`
	ProfilePath        *string `json:"profile_path"`
	CastID             int     `json:"cast_id"`
	CreditID           string  `json:"credit_id"`
	Order              int     `json:"order"`
}

// Crew is a non-acting credit.
type Crew struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
	KnownForDepartment string  `json:"known_for_department"`
	Gender             int     `json:"gender"`
	Popularity         float64 `json:"popularity"`
	Adult              bool    `json:"adult"`
	ProfilePath        *string `json:"profile_path"`
	CreditID           string  `json:"credit_id"`
}

// Credits holds the cast and crew of a movie in provider order.
type Credits struct {
	ID   int    `json:"id"`
	Cast []Cast `json:"cast"`
	Crew []Crew `json:"crew"`
}

// PagedResult is one page of a provider listing.
type PagedResult[T any] struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
	Results      []T `json:"results"`
}

// EmptyPage returns the first page of an empty listing.
func EmptyPage[T any]() *PagedResult[T] {
	return &PagedResult[T]{Page: 1, Results: []T{}}
}

// Account is the TMDB account the access token belongs to.
type Account struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	IncludeAdult bool    `json:"include_adult"`
	ISO639_1     string  `json:"iso_639_1"`
	ISO3166_1    string  `json:"iso_3166_1"`
	GravatarHash string  `json:"gravatar_hash"`
	AvatarPath   *string `json:"avatar_path"`
}
