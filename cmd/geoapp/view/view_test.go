package view_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/geoapp/cmd/geoapp/state"
	"github.com/manzanit0/geoapp/cmd/geoapp/view"
	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
)

func TestRegionRows(t *testing.T) {
	testCases := []struct {
		desc    string
		regions []geo.Region
		want    []view.RegionRow
	}{
		{
			desc:    "no regions, no rows",
			regions: nil,
			want:    nil,
		},
		{
			desc: "a single departement spans one row",
			regions: []geo.Region{
				{Code: "11", Nom: "Île-de-France", Departements: []geo.Departement{{Code: "75", Nom: "Paris"}}},
			},
			want: []view.RegionRow{
				{RegionCode: "11", RegionNom: "Île-de-France", ShowRegion: true, RowSpan: 1, Departement: geo.Departement{Code: "75", Nom: "Paris"}},
			},
		},
		{
			desc: "the region cell only shows on the first row and regions without departements are skipped",
			regions: []geo.Region{
				{Code: "94", Nom: "Corse", Departements: []geo.Departement{{Code: "2A", Nom: "Corse-du-Sud"}, {Code: "2B", Nom: "Haute-Corse"}}},
				{Code: "00", Nom: "Empty"},
			},
			want: []view.RegionRow{
				{RegionCode: "94", RegionNom: "Corse", ShowRegion: true, RowSpan: 2, Departement: geo.Departement{Code: "2A", Nom: "Corse-du-Sud"}},
				{RegionCode: "94", RegionNom: "Corse", ShowRegion: false, RowSpan: 2, Departement: geo.Departement{Code: "2B", Nom: "Haute-Corse"}},
			},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, view.RegionRows(tC.regions))
		})
	}
}

func TestBuildDetailPanel(t *testing.T) {
	paris := adresse.Candidate{ID: "75056", Label: "Paris", City: "Paris", Population: 2133111, Type: "municipality", CityCode: "75056", Context: "75, Paris, Île-de-France"}

	t.Run("hidden without a selection", func(t *testing.T) {
		p := view.Build(state.State{Candidates: []adresse.Candidate{paris}})
		assert.Nil(t, p.Detail)
		assert.False(t, p.Candidates[0].Selected)
	})

	t.Run("shows the selected address", func(t *testing.T) {
		p := view.Build(state.State{Candidates: []adresse.Candidate{paris}, Selected: &paris})
		require.NotNil(t, p.Detail)
		assert.Equal(t, view.Detail{
			City:        "Paris",
			Population:  2133111,
			Type:        "municipality",
			CityCode:    "75056",
			Context:     "75, Paris, Île-de-France",
			Departement: "75",
		}, *p.Detail)
		assert.True(t, p.Candidates[0].Selected)
	})
}

func TestBuildModal(t *testing.T) {
	s := state.State{
		Communes:            []geo.Commune{{Nom: "Paris", Code: "75056", CodeEpci: "X", CodesPostaux: []string{"75001", "75002"}, Population: 2000000, Siren: "123"}},
		CommunesDepartement: "75",
	}

	closed := view.Build(s)
	assert.False(t, closed.Modal.Open)
	assert.True(t, closed.Modal.CanReopen)

	s.Modal = state.ModalOpen
	open := view.Build(s)
	assert.True(t, open.Modal.Open)
	assert.False(t, open.Modal.CanReopen)
	assert.Equal(t, []view.CommuneRow{{Nom: "Paris", Code: "75056", CodeEpci: "X", CodesPostaux: "75001, 75002", Population: 2000000, Siren: "123"}}, open.Modal.Communes)
}

func TestRender(t *testing.T) {
	s := state.State{
		Regions: []geo.Region{{Code: "11", Nom: "Île-de-France", Departements: []geo.Departement{{Code: "75", Nom: "Paris"}}}},
		Communes: []geo.Commune{
			{Nom: "Paris", Code: "75056", CodeEpci: "X", CodesPostaux: []string{"75001", "75002"}, Population: 2000000, Siren: "123"},
		},
		CommunesDepartement: "75",
		Modal:               state.ModalOpen,
		Errors:              map[state.Widget]string{state.WidgetSearch: "Le service d'adresses ne répond pas"},
	}

	var buf bytes.Buffer
	require.NoError(t, view.Render(&buf, view.Build(s)))
	html := buf.String()

	assert.Contains(t, html, `<td rowspan="1">Île-de-France</td>`)
	assert.Contains(t, html, `<a href="/departements/75/communes">Paris</a>`)
	assert.Contains(t, html, `<td>75001, 75002</td>`)
	assert.Contains(t, html, `id="communes-modal"`)
	assert.Contains(t, html, `name="widget" value="search"`)
	assert.NotContains(t, html, `id="detail"`)
}
