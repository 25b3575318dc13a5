package main

import (
	stderrors "errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/narwhalmedia/moviebrowser/internal/application/browse"
	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/models"
	"github.com/narwhalmedia/moviebrowser/pkg/utils"
)

const overviewWidth = 60

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *app) renderHome(v *browse.HomeView) {
	if v.Query != "" {
		fmt.Fprintf(a.out, "Search results for %q (sorted by %s)\n\n", v.Query, v.Sort)
	} else {
		fmt.Fprintf(a.out, "%s (sorted by %s)\n\n", v.Category.Label(), v.Sort)
	}
	a.renderMovies(v.Movies, "No movies found.")
}

func (a *app) renderMovies(movies []models.Movie, empty string) {
	if len(movies) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tTITLE\tRELEASED\tRATING\tOVERVIEW")
	for _, m := range movies {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.Title,
			utils.FormatDate(m.ReleaseDate),
			utils.FormatRating(m.VoteAverage),
			utils.TruncateText(m.Overview, overviewWidth))
	}
	tw.Flush()
}

func (a *app) renderDetail(v *browse.DetailView) {
	m := v.Movie
	fmt.Fprintln(a.out, m.Title)
	if m.Tagline != "" {
		fmt.Fprintf(a.out, "%q\n", m.Tagline)
	}
	fmt.Fprintln(a.out)

	tw := a.table()
	fmt.Fprintf(tw, "Released\t%s\n", utils.FormatDate(m.ReleaseDate))
	fmt.Fprintf(tw, "Runtime\t%s\n", v.Runtime)
	fmt.Fprintf(tw, "Rating\t%s/10 (%d votes)\n", utils.FormatRating(m.VoteAverage), m.VoteCount)
	fmt.Fprintf(tw, "Certification\t%s\n", v.Certification)
	if len(m.Genres) > 0 {
		names := make([]string, len(m.Genres))
		for i, g := range m.Genres {
			names[i] = g.Name
		}
		fmt.Fprintf(tw, "Genres\t%s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(tw, "Poster\t%s\n", a.browse.Provider().ImageURL(m.PosterPath, models.ImageSizePoster))
	if v.InWatchlist {
		fmt.Fprintf(tw, "Watchlist\tyes\n")
	} else {
		fmt.Fprintf(tw, "Watchlist\tno\n")
	}
	tw.Flush()

	if m.Overview != "" {
		fmt.Fprintf(a.out, "\n%s\n", m.Overview)
	}

	if len(v.Cast) > 0 {
		fmt.Fprintln(a.out, "\nCast")
		tw = a.table()
		for _, c := range v.Cast {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Character)
		}
		tw.Flush()
	}

	if len(v.KeyCrew) > 0 {
		fmt.Fprintln(a.out, "\nCrew")
		tw = a.table()
		for _, c := range v.KeyCrew {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Job)
		}
		tw.Flush()
	}

	if len(v.Recommendations) > 0 {
		fmt.Fprintln(a.out, "\nRecommendations")
		tw = a.table()
		for _, r := range v.Recommendations {
			fmt.Fprintf(tw, "  %d\t%s\t%s\n", r.ID, r.Title, utils.FormatRating(r.VoteAverage))
		}
		tw.Flush()
	}
}

func (a *app) renderWatchlist(movies []models.Movie) {
	a.renderMovies(movies, "Your watchlist is empty. Add movies with: moviebrowser watchlist add <id>")
}

func (a *app) renderGenres(genres []models.Genre) {
	if len(genres) == 0 {
		fmt.Fprintln(a.out, "No genres found.")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME")
	for _, g := range genres {
		fmt.Fprintf(tw, "%d\t%s\n", g.ID, g.Name)
	}
	tw.Flush()
}

func (a *app) renderAccount(acct *models.Account) {
	tw := a.table()
	fmt.Fprintf(tw, "ID\t%d\n", acct.ID)
	fmt.Fprintf(tw, "Username\t%s\n", acct.Username)
	if acct.Name != "" {
		fmt.Fprintf(tw, "Name\t%s\n", acct.Name)
	}
	fmt.Fprintf(tw, "Region\t%s\n", acct.ISO3166_1)
	fmt.Fprintf(tw, "Language\t%s\n", acct.ISO639_1)
	tw.Flush()
}

// renderError prints err with a retry hint matching its type.
func (a *app) renderError(err error) {
	switch {
	case stderrors.Is(err, browse.ErrStale):
		return
	case errors.IsInvalidArgument(err):
		fmt.Fprintf(a.errOut, "Error: %v\nRun 'moviebrowser -h' for usage.\n", err)
	case errors.IsNotFound(err):
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	case errors.IsUnsupported(err):
		fmt.Fprintf(a.errOut, "Error: %v\nTry another provider with -provider.\n", err)
	case errors.IsTimeout(err):
		fmt.Fprintf(a.errOut, "Error: the request timed out.\nCheck your connection and retry.\n")
	default:
		fmt.Fprintf(a.errOut, "Error: %v\nRetry the command.\n", err)
	}
}
