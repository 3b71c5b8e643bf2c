// Command lookup searches the catalog and lists where titles can be watched
// from the terminal. It answers with the immediate country guess and, unless
// -no-refine is set, re-queries once if geolocation disagrees.
//
// Usage:
//
//	lookup [flags] search <query>
//	lookup [flags] title <movie|series> <id>
//	lookup [flags] sources <movie|series> <id>
//	lookup [flags] popular <movie|series>
//	lookup [flags] country
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/wherewatch/wherewatch/internal/catalog"
	"github.com/wherewatch/wherewatch/internal/catalog/types"
	"github.com/wherewatch/wherewatch/internal/config"
	"github.com/wherewatch/wherewatch/internal/geo"
	"github.com/wherewatch/wherewatch/internal/geo/ipapi"
	"github.com/wherewatch/wherewatch/internal/locale"
	"github.com/wherewatch/wherewatch/internal/logger"
)

var errUsage = errors.New("usage: lookup [flags] search <query> | title <kind> <id> | sources <kind> <id> | popular <kind> | country")

type options struct {
	country  string
	language string
	format   string
	refine   bool
}

type app struct {
	catalog  *catalog.Service
	resolver *geo.Resolver
	out      io.Writer
	opts     options
}

func main() {
	configPath := flag.String("config", "", "Path to config file")
	country := flag.String("country", "", "Country code (default: detected)")
	language := flag.String("language", "", "Request language (default: derived from country)")
	output := flag.String("output", "text", "Output format: text, json or yaml")
	noRefine := flag.Bool("no-refine", false, "Skip the geolocation lookup")
	verbose := flag.Bool("v", false, "Log debug output to stderr")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "console", Output: os.Stderr})
	defer log.Close()

	opts := options{
		country:  *country,
		language: *language,
		format:   *output,
		refine:   !*noRefine && cfg.Geo.Enabled,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, log.Logger, os.Stdout, opts)
	if err := a.run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, log zerolog.Logger, out io.Writer, opts options) *app {
	var locator geo.Locator
	if opts.refine {
		locator = ipapi.NewClient(cfg.Geo, log)
	}
	return &app{
		catalog:  catalog.NewService(cfg.Catalog, log),
		resolver: geo.NewResolver(geo.NewSystemSignals(nil, nil), locator, log),
		out:      out,
		opts:     opts,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if _, ok := renderers[a.opts.format]; !ok {
		return fmt.Errorf("unknown output format %q", a.opts.format)
	}

	switch args[0] {
	case "search":
		if len(args) < 2 {
			return errUsage
		}
		query := strings.Join(args[1:], " ")
		return a.withCountry(ctx, func(country locale.Country) error {
			result, err := a.catalog.Search(ctx, query, country.String(), a.opts.language)
			if err != nil {
				return err
			}
			return a.render(result)
		})

	case "title", "sources":
		if len(args) != 3 {
			return errUsage
		}
		kind, err := types.ParseKind(args[1])
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[2])
		}
		if args[0] == "title" {
			return a.withCountry(ctx, func(country locale.Country) error {
				return a.showTitle(ctx, id, kind, country)
			})
		}
		return a.withCountry(ctx, func(country locale.Country) error {
			sources, err := a.catalog.GetSources(ctx, id, kind, country.String())
			if err != nil {
				return err
			}
			return a.render(sourceList{Country: country, Sources: sources})
		})

	case "popular":
		if len(args) != 2 {
			return errUsage
		}
		kind, err := types.ParseKind(args[1])
		if err != nil {
			return err
		}
		return a.withCountry(ctx, func(country locale.Country) error {
			result, err := a.catalog.GetPopular(ctx, kind, country.String(), a.opts.language)
			if err != nil {
				return err
			}
			return a.render(result)
		})

	case "country":
		detection := a.resolver.DetectSync()
		if a.opts.refine {
			detection = a.resolver.DetectAsync(ctx)
		}
		return a.render(detection)

	default:
		return errUsage
	}
}

// showTitle prints details followed by the sources in country.
func (a *app) showTitle(ctx context.Context, id int, kind types.MediaKind, country locale.Country) error {
	title, err := a.catalog.GetDetails(ctx, id, kind, country.String(), a.opts.language)
	if err != nil {
		return err
	}
	sources, err := a.catalog.GetSources(ctx, id, kind, country.String())
	if err != nil {
		return err
	}
	return a.render(titlePage{Title: title, Country: country, Sources: sources})
}

// withCountry runs fetch with the explicit or immediate country, then once
// more if the refined guess differs.
func (a *app) withCountry(ctx context.Context, fetch func(locale.Country) error) error {
	if a.opts.country != "" {
		return fetch(locale.Normalize(a.opts.country))
	}

	tracker := geo.NewTracker(a.resolver)
	if err := fetch(tracker.Current()); err != nil {
		return err
	}
	if !a.opts.refine {
		return nil
	}

	refined, changed := tracker.Refresh(ctx)
	if !changed {
		return nil
	}
	if a.opts.format == "text" {
		fmt.Fprintf(a.out, "\nCountry refined to %s\n\n", refined)
	}
	return fetch(refined)
}
