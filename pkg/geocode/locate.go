package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/codingsince1985/geo-golang"

	"github.com/manzanit0/geoapp/pkg/adresse"
)

var ErrNoCommune = errors.New("no commune found at these coordinates")

// Locator turns coordinates into the commune candidate that contains them.
// BAN is asked first, then the fallbacks in order.
type Locator struct {
	search    adresse.Client
	fallbacks []geo.Geocoder
}

func NewLocator(search adresse.Client, fallbacks ...geo.Geocoder) *Locator {
	return &Locator{search: search, fallbacks: fallbacks}
}

func (l *Locator) Locate(ctx context.Context, lat, lon float64) (*adresse.Candidate, error) {
	// The chain is built per call so the BAN lookup runs under ctx.
	geocoders := append([]geo.Geocoder{NewBANGeocoder(ctx, l.search)}, l.fallbacks...)

	location, err := NewChainedClient(geocoders...).ReverseGeocode(lat, lon)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}

	if location.City == "" {
		return nil, ErrNoCommune
	}

	opts := []adresse.SearchOption{adresse.WithType(adresse.TypeMunicipality), adresse.WithLimit(1)}
	if location.Postcode != "" {
		opts = append(opts, adresse.WithPostcode(location.Postcode))
	}

	candidates, err := l.search.Search(ctx, location.City, opts...)
	if err != nil {
		return nil, fmt.Errorf("find commune: %w", err)
	}

	if len(candidates) == 0 {
		return nil, ErrNoCommune
	}

	return &candidates[0], nil
}
