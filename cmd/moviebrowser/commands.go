package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/narwhalmedia/moviebrowser/internal/application/browse"
	"github.com/narwhalmedia/moviebrowser/internal/store"
	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

type app struct {
	browse *browse.Service
	store  *store.Store
	out    io.Writer
	errOut io.Writer
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "home":
		return a.home(ctx, args)
	case "search":
		return a.search(ctx, args)
	case "details":
		return a.details(ctx, args)
	case "watchlist":
		return a.watchlist(ctx, args)
	case "genres":
		return a.genres(ctx, args)
	case "top-rated":
		return a.topRated(ctx)
	case "account":
		return a.account(ctx)
	}
	return errors.InvalidArgument(fmt.Sprintf("unknown command %q", cmd))
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) home(ctx context.Context, args []string) error {
	fs := a.flags("home")
	var (
		category = fs.String("category", "", "now_playing, upcoming or popular")
		sortKey  = fs.String("sort", "", "alphabetical, rating or release_date")
		query    = fs.String("query", "", "search text, empty to browse the category")
	)
	if err := fs.Parse(args); err != nil {
		return errors.InvalidArgument(err.Error())
	}

	if *category != "" {
		c := models.Category(*category)
		if !c.Valid() {
			return errors.InvalidArgument(fmt.Sprintf("unknown category %q", *category))
		}
		a.store.SetCategory(c)
	}
	if *sortKey != "" {
		k := models.SortKey(*sortKey)
		if !k.Valid() {
			return errors.InvalidArgument(fmt.Sprintf("unknown sort %q", *sortKey))
		}
		a.store.SetSort(k)
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "query" {
			a.store.SetSearchQuery(*query)
		}
	})
	return a.showHome(ctx)
}

func (a *app) search(ctx context.Context, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.InvalidArgument("search needs a query")
	}
	a.store.SetSearchQuery(query)
	return a.showHome(ctx)
}

func (a *app) showHome(ctx context.Context) error {
	state := a.store.Snapshot()
	if state.SearchQuery != "" {
		a.loading(fmt.Sprintf("Searching for %q...", state.SearchQuery))
	} else {
		a.loading(fmt.Sprintf("Loading %s movies...", state.Category.Label()))
	}

	view, err := a.browse.Home(ctx)
	if err != nil {
		return err
	}
	a.renderHome(view)
	return nil
}

func (a *app) details(ctx context.Context, args []string) error {
	id, err := movieID(args)
	if err != nil {
		return err
	}
	a.loading("Loading movie details...")
	view, err := a.browse.Detail(ctx, id)
	if err != nil {
		return err
	}
	a.renderDetail(view)
	return nil
}

func (a *app) watchlist(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		fs := a.flags("watchlist list")
		var (
			sortKey = fs.String("sort", string(models.SortAlphabetical), "alphabetical, rating or release_date")
			order   = fs.String("order", string(models.SortAsc), "asc or desc")
		)
		if err := fs.Parse(args); err != nil {
			return errors.InvalidArgument(err.Error())
		}
		k := models.SortKey(*sortKey)
		if !k.Valid() {
			return errors.InvalidArgument(fmt.Sprintf("unknown sort %q", *sortKey))
		}
		o := models.SortOrder(*order)
		if o != models.SortAsc && o != models.SortDesc {
			return errors.InvalidArgument(fmt.Sprintf("unknown order %q", *order))
		}
		a.renderWatchlist(a.browse.Watchlist(k, o))
		return nil

	case "add":
		id, err := movieID(args)
		if err != nil {
			return err
		}
		if a.store.IsInWatchlist(id) {
			fmt.Fprintf(a.out, "Movie %d is already in your watchlist.\n", id)
			return nil
		}
		a.loading("Looking up movie...")
		movie, err := a.browse.AddToWatchlist(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added %q to your watchlist.\n", movie.Title)
		return nil

	case "remove":
		id, err := movieID(args)
		if err != nil {
			return err
		}
		if !a.store.IsInWatchlist(id) {
			fmt.Fprintf(a.out, "Movie %d is not in your watchlist.\n", id)
			return nil
		}
		a.store.RemoveFromWatchlist(id)
		fmt.Fprintf(a.out, "Removed movie %d from your watchlist.\n", id)
		return nil
	}
	return errors.InvalidArgument(fmt.Sprintf("unknown watchlist command %q", sub))
}

func (a *app) genres(ctx context.Context, args []string) error {
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.InvalidArgument(fmt.Sprintf("invalid genre id %q", args[0]))
		}
		a.loading("Loading movies...")
		movies, err := a.browse.ByGenre(ctx, id)
		if err != nil {
			return err
		}
		a.renderMovies(movies, "No movies found in this genre.")
		return nil
	}

	a.loading("Loading genres...")
	genres, err := a.browse.Genres(ctx)
	if err != nil {
		return err
	}
	a.renderGenres(genres)
	return nil
}

func (a *app) topRated(ctx context.Context) error {
	a.loading("Loading top rated movies...")
	movies, err := a.browse.TopRated(ctx)
	if err != nil {
		return err
	}
	a.renderMovies(movies, "No movies found.")
	return nil
}

func (a *app) account(ctx context.Context) error {
	a.loading("Loading account...")
	acct, err := a.browse.Account(ctx)
	if err != nil {
		return err
	}
	a.renderAccount(acct)
	return nil
}

func (a *app) loading(msg string) {
	fmt.Fprintln(a.errOut, msg)
}

func movieID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.InvalidArgument("a movie id is required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, errors.InvalidArgument(fmt.Sprintf("invalid movie id %q", args[0]))
	}
	return id, nil
}
