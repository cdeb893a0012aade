package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/manzanit0/geoapp/cmd/geoapp/state"
	"github.com/manzanit0/geoapp/pkg/geo"
)

// LoadCatalog fetches every region with its departements and publishes the
// result to the store. On failure every session shows the error next to the
// region table.
func LoadCatalog(ctx context.Context, c geo.Client, store *state.Store, concurrency int) error {
	start := time.Now()

	regions, err := geo.LoadRegions(ctx, c, concurrency)
	if err != nil {
		slog.ErrorContext(ctx, "unable to load region catalog", "error", err.Error())
		store.FailRegions(MsgCatalogError)
		return err
	}

	var departements int
	for _, r := range regions {
		departements += len(r.Departements)
	}

	slog.InfoContext(ctx, "region catalog loaded",
		"regions", len(regions),
		"departements", departements,
		"elapsed", time.Since(start).String())

	store.SetRegions(regions)
	return nil
}
