package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/narwhalmedia/moviebrowser/internal/container"
	"github.com/narwhalmedia/moviebrowser/internal/metrics"
	"github.com/narwhalmedia/moviebrowser/pkg/config"
	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
)

const usage = `Usage: moviebrowser [flags] <command> [args]

Commands:
  home [-category c] [-sort s] [-query q]   show the home list
  search <query>                            search movies
  details <id>                              show a movie
  watchlist [list [-sort s] [-order o]]     show the watchlist
  watchlist add <id>                        add a movie to the watchlist
  watchlist remove <id>                     remove a movie from the watchlist
  genres [id]                               list genres, or movies in a genre
  top-rated                                 show the top rated movies
  account                                   show the account of the access token

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("moviebrowser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "Path to a YAML or JSON config file")
		provider   = fs.String("provider", "", "Data provider to use (rest or graphql)")
		verbose    = fs.Bool("v", false, "Enable debug logging")
	)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *provider != "" {
		cfg.Provider.Kind = *provider
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if *verbose {
		cfg.Logger.Level = "debug"
	}

	log, err := cfg.Logger.ToLoggerConfig().Build()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to build logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	ctx = logger.WithContext(ctx, log)
	ctx, _ = logger.WithInvocationID(ctx)

	c, cleanup, err := container.New(ctx, cfg, container.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		cleanup()
		if cfg.Metrics.Enabled {
			if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
				log.Warn("Failed to write metrics", interfaces.Error(err))
			}
		}
	}()

	a := &app{browse: c.Browse, store: c.Store, out: stdout, errOut: stderr}
	if err := a.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		a.renderError(err)
		return 1
	}
	return 0
}
