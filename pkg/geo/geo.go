package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultBaseURL = "https://geo.api.gouv.fr"

type Client interface {
	ListRegions(ctx context.Context) ([]Region, error)
	ListDepartements(ctx context.Context, regionCode string) ([]Departement, error)
	ListCommunes(ctx context.Context, departementCode string) ([]Commune, error)
}

type Region struct {
	Code         string        `json:"code"`
	Nom          string        `json:"nom"`
	Departements []Departement `json:"departements,omitempty"`
}

type Departement struct {
	Code       string `json:"code"`
	Nom        string `json:"nom"`
	CodeRegion string `json:"codeRegion,omitempty"`
}

type Commune struct {
	Nom             string   `json:"nom"`
	Code            string   `json:"code"`
	CodeEpci        string   `json:"codeEpci"`
	CodesPostaux    []string `json:"codesPostaux"`
	Population      int      `json:"population"`
	Siren           string   `json:"siren"`
	CodeDepartement string   `json:"codeDepartement,omitempty"`
	CodeRegion      string   `json:"codeRegion,omitempty"`
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response from %s: (%d) %s", e.Path, e.StatusCode, e.Body)
}

func NewGouvClient(h *http.Client, baseURL string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &gouv{h: h, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type gouv struct {
	h       *http.Client
	baseURL string
}

func (c *gouv) ListRegions(ctx context.Context) ([]Region, error) {
	var regions []Region
	if err := c.get(ctx, "/regions", &regions); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}

	return regions, nil
}

func (c *gouv) ListDepartements(ctx context.Context, regionCode string) ([]Departement, error) {
	var deps []Departement
	path := fmt.Sprintf("/regions/%s/departements", url.PathEscape(regionCode))
	if err := c.get(ctx, path, &deps); err != nil {
		return nil, fmt.Errorf("list departements of region %s: %w", regionCode, err)
	}

	return deps, nil
}

func (c *gouv) ListCommunes(ctx context.Context, departementCode string) ([]Commune, error) {
	var communes []Commune
	path := fmt.Sprintf("/departements/%s/communes", url.PathEscape(departementCode))
	if err := c.get(ctx, path, &communes); err != nil {
		return nil, fmt.Errorf("list communes of departement %s: %w", departementCode, err)
	}

	// The API omits codesPostaux for some communes; the views join it, so
	// keep it non-nil.
	for i := range communes {
		if communes[i].CodesPostaux == nil {
			communes[i].CodesPostaux = []string{}
		}
	}

	return communes, nil
}

func (c *gouv) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	res, err := c.h.Do(req)
	if err != nil {
		return err
	}

	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{Path: path, StatusCode: res.StatusCode, Body: string(data)}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
