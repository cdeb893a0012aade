// Command geotable prints the French administrative geography as tables in the
// terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/urfave/cli/v3"

	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/env"
	"github.com/manzanit0/geoapp/pkg/geo"
	"github.com/manzanit0/geoapp/pkg/geocode"
	"github.com/manzanit0/geoapp/pkg/logger"
	"github.com/manzanit0/geoapp/pkg/whttp"
)

type flags struct {
	GeoURL      string
	AdresseURL  string
	Timeout     time.Duration
	LogLevel    string
	Concurrency int64
	Limit       int64
}

func main() {
	if err := env.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	f := &flags{}

	return &cli.Command{
		Name:      "geotable",
		Usage:     "Browse French regions, departements and communes",
		UsageText: "geotable [global options] command [command options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "geo-url",
				Usage:       "base URL of the Geo API",
				Sources:     cli.EnvVars("GEO_API_URL"),
				Value:       geo.DefaultBaseURL,
				Destination: &f.GeoURL,
			},
			&cli.StringFlag{
				Name:        "adresse-url",
				Usage:       "base URL of the Base Adresse Nationale",
				Sources:     cli.EnvVars("ADRESSE_API_URL"),
				Value:       adresse.DefaultBaseURL,
				Destination: &f.AdresseURL,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "timeout of every outbound request",
				Sources:     cli.EnvVars("HTTP_TIMEOUT"),
				Value:       whttp.DefaultTimeout,
				Destination: &f.Timeout,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Value:       "warn",
				Destination: &f.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Tables go to stdout, logs to stderr.
			handler := logger.NewContextJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logger.ParseLevel(f.LogLevel)})
			slog.SetDefault(slog.New(handler).With("service", "geotable"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			regionsCmd(f),
			communesCmd(f),
			searchCmd(f),
			locateCmd(f),
		},
	}
}

func regionsCmd(f *flags) *cli.Command {
	return &cli.Command{
		Name:  "regions",
		Usage: "List every region with its departements",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "concurrency",
				Usage:       "departement lookups running at once",
				Sources:     cli.EnvVars("LOADER_CONCURRENCY"),
				Value:       geo.DefaultLoaderConcurrency,
				Destination: &f.Concurrency,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			regions, err := geo.LoadRegions(ctx, f.geoClient(), int(f.Concurrency))
			if err != nil {
				return fmt.Errorf("load regions: %w", err)
			}

			RenderRegions(c.Root().Writer, regions)
			return nil
		},
	}
}

func communesCmd(f *flags) *cli.Command {
	return &cli.Command{
		Name:      "communes",
		Usage:     "List the communes of a departement",
		ArgsUsage: "<departement code>",
		Action: func(ctx context.Context, c *cli.Command) error {
			code := c.Args().First()
			if code == "" {
				return fmt.Errorf("missing departement code, e.g. geotable communes 75")
			}

			communes, err := f.geoClient().ListCommunes(ctx, code)
			if err != nil {
				return err
			}

			RenderCommunes(c.Root().Writer, communes)
			return nil
		},
	}
}

func searchCmd(f *flags) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search an address or a city",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "maximum number of results",
				Value:       5,
				Destination: &f.Limit,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if !adresse.ShouldSearch(query) {
				return fmt.Errorf("query must be at least %d characters long", adresse.MinQueryLength)
			}

			candidates, err := f.adresseClient().Search(ctx, query, adresse.WithLimit(int(f.Limit)))
			if err != nil {
				return err
			}

			RenderCandidates(c.Root().Writer, candidates)
			return nil
		},
	}
}

func locateCmd(f *flags) *cli.Command {
	return &cli.Command{
		Name:      "locate",
		Usage:     "Find the commune at the given coordinates",
		ArgsUsage: "<latitude> <longitude>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("expected a latitude and a longitude")
			}

			lat, err := strconv.ParseFloat(c.Args().Get(0), 64)
			if err != nil {
				return fmt.Errorf("parse latitude: %w", err)
			}

			lon, err := strconv.ParseFloat(c.Args().Get(1), 64)
			if err != nil {
				return fmt.Errorf("parse longitude: %w", err)
			}

			locator := geocode.NewLocator(f.adresseClient(), openstreetmap.Geocoder())

			candidate, err := locator.Locate(ctx, lat, lon)
			if err != nil {
				return err
			}

			RenderCandidates(c.Root().Writer, []adresse.Candidate{*candidate})
			return nil
		},
	}
}

func (f *flags) geoClient() geo.Client {
	return geo.NewGouvClient(whttp.NewLoggingClient(whttp.WithTimeout(f.Timeout)), f.GeoURL)
}

func (f *flags) adresseClient() adresse.Client {
	return adresse.NewBANClient(whttp.NewLoggingClient(whttp.WithTimeout(f.Timeout)), f.AdresseURL)
}
