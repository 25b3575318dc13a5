package graphql

// movieFragment selects the list fields of a movie. Genres are selected so
// list entries carry genre ids like the REST listings do.
const movieFragment = `
fragment MovieFragment on Movie {
  id
  title
  overview
  releaseDate
  posterPath
  backdropPath
  voteAverage
  voteCount
  popularity
  adult
  originalLanguage
  originalTitle
  video
  genres {
    id
    name
  }
}
`

const movieDetailsFragment = `
fragment MovieDetailsFragment on Movie {
  ...MovieFragment
  runtime
  budget
  revenue
  status
  tagline
  homepage
  imdbId
  productionCompanies {
    id
    name
    logoPath
    originCountry
  }
  productionCountries {
    iso31661
    name
  }
  spokenLanguages {
    iso6391
    name
  }
}
` + movieFragment

const pageSelection = `{
    page
    totalResults
    totalPages
    results {
      ...MovieFragment
    }
  }`

const getMovieQuery = `
query GetMovie($id: ID!) {
  movie(id: $id) {
    ...MovieDetailsFragment
  }
}
` + movieDetailsFragment

const searchMoviesQuery = `
query SearchMovies($query: String!, $page: Int = 1) {
  searchMovies(query: $query, page: $page) ` + pageSelection + `
}
` + movieFragment

const popularMoviesQuery = `
query GetPopularMovies($page: Int = 1) {
  popularMovies(page: $page) ` + pageSelection + `
}
` + movieFragment

const topRatedMoviesQuery = `
query GetTopRatedMovies($page: Int = 1) {
  topRatedMovies(page: $page) ` + pageSelection + `
}
` + movieFragment

const upcomingMoviesQuery = `
query GetUpcomingMovies($page: Int = 1) {
  upcomingMovies(page: $page) ` + pageSelection + `
}
` + movieFragment

const nowPlayingMoviesQuery = `
query GetNowPlayingMovies($page: Int = 1) {
  nowPlayingMovies(page: $page) ` + pageSelection + `
}
` + movieFragment

const moviesByGenreQuery = `
query GetMoviesByGenre($genreId: ID!, $page: Int = 1) {
  moviesByGenre(genreId: $genreId, page: $page) ` + pageSelection + `
}
` + movieFragment

const movieRecommendationsQuery = `
query GetMovieRecommendations($id: ID!, $page: Int = 1) {
  movieRecommendations(id: $id, page: $page) ` + pageSelection + `
}
` + movieFragment

const genresQuery = `
query GetGenres {
  genres {
    id
    name
  }
}
`

const movieCreditsQuery = `
query GetMovieCredits($id: ID!) {
  movieCredits(id: $id) {
    id
    cast {
      id
      name
      character
      profilePath
      order
      gender
      knownForDepartment
    }
    crew {
      id
      name
      job
      department
      profilePath
      gender
      knownForDepartment
    }
  }
}
`

// operation is a named GraphQL document and the data field it returns.
type operation struct {
	name  string
	field string
	doc   string
}

var (
	opGetMovie        = operation{name: "GetMovie", field: "movie", doc: getMovieQuery}
	opSearchMovies    = operation{name: "SearchMovies", field: "searchMovies", doc: searchMoviesQuery}
	opPopular         = operation{name: "GetPopularMovies", field: "popularMovies", doc: popularMoviesQuery}
	opTopRated        = operation{name: "GetTopRatedMovies", field: "topRatedMovies", doc: topRatedMoviesQuery}
	opUpcoming        = operation{name: "GetUpcomingMovies", field: "upcomingMovies", doc: upcomingMoviesQuery}
	opNowPlaying      = operation{name: "GetNowPlayingMovies", field: "nowPlayingMovies", doc: nowPlayingMoviesQuery}
	opMoviesByGenre   = operation{name: "GetMoviesByGenre", field: "moviesByGenre", doc: moviesByGenreQuery}
	opRecommendations = operation{name: "GetMovieRecommendations", field: "movieRecommendations", doc: movieRecommendationsQuery}
	opGenres          = operation{name: "GetGenres", field: "genres", doc: genresQuery}
	opMovieCredits    = operation{name: "GetMovieCredits", field: "movieCredits", doc: movieCreditsQuery}
)
