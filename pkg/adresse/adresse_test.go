package adresse_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/geoapp/pkg/adresse"
)

const parisFeatures = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [2.347, 48.859]},
      "properties": {
        "label": "Paris", "score": 0.97, "id": "75056", "type": "municipality",
        "name": "Paris", "postcode": "75001", "citycode": "75056", "city": "Paris",
        "population": 2133111, "context": "75, Paris, Île-de-France"
      }
    },
    {
      "type": "Feature",
      "id": "feature-id",
      "geometry": {"type": "Point", "coordinates": [2.29, 48.85]},
      "properties": {
        "label": "Rue de Paris 91120 Palaiseau", "id": "91477_1234", "type": "street",
        "citycode": "91477", "city": "Palaiseau", "context": "91, Essonne, Île-de-France"
      }
    }
  ]
}`

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/" {
			http.NotFound(w, r)
			return
		}

		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, parisFeatures)
	}))
	defer srv.Close()

	c := adresse.NewBANClient(srv.Client(), srv.URL)

	got, err := c.Search(context.Background(), "paris")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "q=paris", gotQuery)
	assert.Equal(t, adresse.Candidate{
		ID:         "75056",
		Label:      "Paris",
		City:       "Paris",
		Population: 2133111,
		Type:       adresse.TypeMunicipality,
		CityCode:   "75056",
		Context:    "75, Paris, Île-de-France",
		Postcode:   "75001",
		Score:      0.97,
		Latitude:   48.859,
		Longitude:  2.347,
	}, got[0])
	assert.Equal(t, "feature-id", got[1].ID, "feature level id wins over the property")
}

func TestSearchOptions(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Encode()
		fmt.Fprint(w, `{"type":"FeatureCollection","features":[]}`)
	}))
	defer srv.Close()

	c := adresse.NewBANClient(srv.Client(), srv.URL)
	candidates, err := c.Search(context.Background(), "Lyon",
		adresse.WithLimit(3),
		adresse.WithType(adresse.TypeMunicipality),
		adresse.WithPostcode("69001"))

	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Equal(t, "limit=3&postcode=69001&q=Lyon&type=municipality", got)
}

func TestReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse/", r.URL.Path)
		assert.Equal(t, "48.859", r.URL.Query().Get("lat"))
		assert.Equal(t, "2.347", r.URL.Query().Get("lon"))
		fmt.Fprint(w, parisFeatures)
	}))
	defer srv.Close()

	got, err := adresse.NewBANClient(srv.Client(), srv.URL).Reverse(context.Background(), 48.859, 2.347)
	require.NoError(t, err)
	assert.Equal(t, "Paris", got[0].City)
}

func TestSearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":400,"message":"q must contain between 3 and 200 chars"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := adresse.NewBANClient(srv.Client(), srv.URL).Search(context.Background(), "pa")

	var statusErr *adresse.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, err.Error(), `search address "pa"`)
}

func TestDepartementCode(t *testing.T) {
	testCases := []struct {
		desc     string
		cityCode string
		want     string
	}{
		{desc: "metropolitan city code", cityCode: "75056", want: "75"},
		{desc: "corsican city code", cityCode: "2A004", want: "2A"},
		{desc: "overseas city code keeps the first two characters", cityCode: "97411", want: "97"},
		{desc: "missing city code", cityCode: "", want: ""},
		{desc: "truncated city code", cityCode: "7", want: ""},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got := adresse.Candidate{CityCode: tC.cityCode}.DepartementCode()
			assert.Equal(t, tC.want, got)
		})
	}
}

func TestShouldSearch(t *testing.T) {
	testCases := []struct {
		desc  string
		query string
		want  bool
	}{
		{desc: "empty query", query: "", want: false},
		{desc: "two characters", query: "pa", want: false},
		{desc: "two multi-byte characters", query: "Îl", want: false},
		{desc: "three characters", query: "par", want: true},
		{desc: "three multi-byte characters", query: "Île", want: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, adresse.ShouldSearch(tC.query))
		})
	}
}
