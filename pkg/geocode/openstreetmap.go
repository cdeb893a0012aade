package geocode

import (
	"fmt"

	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/chained"
)

// NewChainedClient asks each geocoder in turn and keeps the first answer.
func NewChainedClient(geocoders ...geo.Geocoder) *oc {
	if len(geocoders) == 1 {
		return &oc{geocoder: geocoders[0]}
	}

	return &oc{geocoder: chained.Geocoder(geocoders...)}
}

type oc struct {
	geocoder geo.Geocoder
}

var _ Client = (*oc)(nil)

func (c *oc) Geocode(query string) (*Location, error) {
	location, err := c.geocoder.Geocode(query)
	if err != nil {
		return nil, err
	}

	if location == nil {
		return nil, fmt.Errorf("unable to geocode address")
	}

	address, err := c.geocoder.ReverseGeocode(location.Lat, location.Lng)
	if err != nil {
		return nil, err
	}

	if address == nil {
		return &Location{Latitude: location.Lat, Longitude: location.Lng, Name: query}, nil
	}

	return &Location{
		Latitude:    location.Lat,
		Longitude:   location.Lng,
		Name:        query,
		City:        address.City,
		Postcode:    address.Postcode,
		Country:     address.Country,
		CountryCode: address.CountryCode,
	}, nil
}

func (c *oc) ReverseGeocode(lat, lon float64) (*Location, error) {
	address, err := c.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		return nil, err
	}

	if address == nil {
		return nil, fmt.Errorf("unable to reverse geocode location")
	}

	return &Location{
		Latitude:    lat,
		Longitude:   lon,
		Name:        fmt.Sprintf("%s, %s", address.City, address.Country),
		City:        address.City,
		Postcode:    address.Postcode,
		Country:     address.Country,
		CountryCode: address.CountryCode,
	}, nil
}
