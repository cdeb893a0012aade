// Package adresse is a client for the Base Adresse Nationale geocoder
// (api-adresse.data.gouv.fr).
package adresse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const DefaultBaseURL = "https://api-adresse.data.gouv.fr"

// MinQueryLength is the shortest query worth sending to the geocoder.
const MinQueryLength = 3

const (
	TypeHousenumber  = "housenumber"
	TypeStreet       = "street"
	TypeLocality     = "locality"
	TypeMunicipality = "municipality"
)

// ShouldSearch reports whether the query is long enough to search.
func ShouldSearch(query string) bool {
	return utf8.RuneCountInString(query) >= MinQueryLength
}

type Client interface {
	Search(ctx context.Context, query string, opts ...SearchOption) ([]Candidate, error)
	Reverse(ctx context.Context, lat, lon float64) ([]Candidate, error)
}

// Candidate is a single geocoded result.
type Candidate struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	City       string  `json:"city"`
	Population int     `json:"population,omitempty"`
	Type       string  `json:"type"`
	CityCode   string  `json:"citycode"`
	Context    string  `json:"context"`
	Postcode   string  `json:"postcode,omitempty"`
	Score      float64 `json:"score,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// DepartementCode is the two first characters of the city code, or an empty
// string when there is no usable city code.
func (c Candidate) DepartementCode() string {
	if len(c.CityCode) < 2 {
		return ""
	}

	return c.CityCode[:2]
}

type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response from %s: (%d) %s", e.Path, e.StatusCode, e.Body)
}

type searchOptions struct {
	limit    int
	typ      string
	postcode string
}

type SearchOption func(*searchOptions)

func WithLimit(n int) SearchOption {
	return func(o *searchOptions) {
		o.limit = n
	}
}

// WithType restricts results to one of the Type* constants.
func WithType(t string) SearchOption {
	return func(o *searchOptions) {
		o.typ = t
	}
}

func WithPostcode(p string) SearchOption {
	return func(o *searchOptions) {
		o.postcode = p
	}
}

func NewBANClient(h *http.Client, baseURL string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &ban{h: h, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type ban struct {
	h       *http.Client
	baseURL string
}

func (c *ban) Search(ctx context.Context, query string, opts ...SearchOption) ([]Candidate, error) {
	options := searchOptions{}
	for _, f := range opts {
		f(&options)
	}

	q := url.Values{}
	q.Set("q", query)
	if options.limit > 0 {
		q.Set("limit", strconv.Itoa(options.limit))
	}

	if options.typ != "" {
		q.Set("type", options.typ)
	}

	if options.postcode != "" {
		q.Set("postcode", options.postcode)
	}

	candidates, err := c.get(ctx, "/search/", q)
	if err != nil {
		return nil, fmt.Errorf("search address %q: %w", query, err)
	}

	return candidates, nil
}

func (c *ban) Reverse(ctx context.Context, lat, lon float64) ([]Candidate, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	candidates, err := c.get(ctx, "/reverse/", q)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode %f,%f: %w", lat, lon, err)
	}

	return candidates, nil
}

func (c *ban) get(ctx context.Context, path string, q url.Values) ([]Candidate, error) {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	res, err := c.h.Do(req)
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Path: path, StatusCode: res.StatusCode, Body: string(data)}
	}

	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return fc.Candidates(), nil
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		ID         string  `json:"id"`
		Label      string  `json:"label"`
		Score      float64 `json:"score"`
		Type       string  `json:"type"`
		Name       string  `json:"name"`
		Postcode   string  `json:"postcode"`
		CityCode   string  `json:"citycode"`
		City       string  `json:"city"`
		Population int     `json:"population"`
		Context    string  `json:"context"`
	} `json:"properties"`
}

func (fc FeatureCollection) Candidates() []Candidate {
	candidates := make([]Candidate, 0, len(fc.Features))
	for _, f := range fc.Features {
		c := Candidate{
			ID:         f.ID,
			Label:      f.Properties.Label,
			City:       f.Properties.City,
			Population: f.Properties.Population,
			Type:       f.Properties.Type,
			CityCode:   f.Properties.CityCode,
			Context:    f.Properties.Context,
			Postcode:   f.Properties.Postcode,
			Score:      f.Properties.Score,
		}

		// BAN puts the identifier in the properties, not on the feature.
		if c.ID == "" {
			c.ID = f.Properties.ID
		}

		// GeoJSON coordinates are [longitude, latitude].
		if len(f.Geometry.Coordinates) == 2 {
			c.Longitude = f.Geometry.Coordinates[0]
			c.Latitude = f.Geometry.Coordinates[1]
		}

		candidates = append(candidates, c)
	}

	return candidates
}
