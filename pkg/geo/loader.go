package geo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const DefaultLoaderConcurrency = 4

// LoadRegions fetches every region and attaches its departements. Departement
// lookups run concurrently, at most concurrency at a time. The result keeps the
// order of /regions and the whole load fails as soon as one lookup fails.
func LoadRegions(ctx context.Context, c Client, concurrency int) ([]Region, error) {
	regions, err := c.ListRegions(ctx)
	if err != nil {
		return nil, err
	}

	if concurrency <= 0 {
		concurrency = DefaultLoaderConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	out := make([]Region, len(regions))
	for i, r := range regions {
		i, r := i, r
		g.Go(func() error {
			deps, err := c.ListDepartements(gctx, r.Code)
			if err != nil {
				return fmt.Errorf("load departements of region %s: %w", r.Code, err)
			}

			if deps == nil {
				deps = []Departement{}
			}

			r.Departements = deps
			out[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
