package geocode

import (
	"context"
	"strings"

	"github.com/codingsince1985/geo-golang"

	"github.com/manzanit0/geoapp/pkg/adresse"
)

// NewBANGeocoder exposes the Base Adresse Nationale as a geo.Geocoder so it
// can be chained with the other geo-golang providers. geo.Geocoder methods take
// no context, so every call made by the geocoder runs under ctx.
func NewBANGeocoder(ctx context.Context, c adresse.Client) geo.Geocoder {
	return &banGeocoder{ctx: ctx, c: c}
}

type banGeocoder struct {
	ctx context.Context
	c   adresse.Client
}

func (g *banGeocoder) Geocode(address string) (*geo.Location, error) {
	candidates, err := g.c.Search(g.ctx, address, adresse.WithLimit(1))
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	return &geo.Location{Lat: candidates[0].Latitude, Lng: candidates[0].Longitude}, nil
}

func (g *banGeocoder) ReverseGeocode(lat, lng float64) (*geo.Address, error) {
	candidates, err := g.c.Reverse(g.ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	c := candidates[0]
	return &geo.Address{
		FormattedAddress: c.Label,
		City:             c.City,
		Postcode:         c.Postcode,
		State:            stateFromContext(c.Context),
		Country:          "France",
		CountryCode:      "FR",
	}, nil
}

// BAN contexts look like "75, Paris, Île-de-France": the region comes last.
func stateFromContext(context string) string {
	parts := strings.Split(context, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
