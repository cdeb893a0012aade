package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
)

// RenderRegions prints one row per departement. Consecutive rows of the same
// region are merged so each region name shows once.
func RenderRegions(w io.Writer, regions []geo.Region) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Région", "Département", "Code"})

	for _, r := range regions {
		for _, d := range r.Departements {
			table.Append([]string{r.Nom, d.Nom, d.Code})
		}
	}

	table.SetAutoMergeCellsByColumnIndex([]int{0})
	table.SetRowLine(true)
	table.SetAutoFormatHeaders(false)

	table.Render()
}

func RenderCommunes(w io.Writer, communes []geo.Commune) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Commune", "Code", "Code EPCI", "Code Postal", "Population", "Siren"})

	for _, c := range communes {
		table.Append([]string{
			c.Nom,
			c.Code,
			c.CodeEpci,
			strings.Join(c.CodesPostaux, ", "),
			fmt.Sprint(c.Population),
			c.Siren,
		})
	}

	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	table.Render()
}

func RenderCandidates(w io.Writer, candidates []adresse.Candidate) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Adresse", "Type", "Code ville", "Population", "Département & Région"})

	for _, c := range candidates {
		table.Append([]string{c.Label, c.Type, c.CityCode, fmt.Sprint(c.Population), c.Context})
	}

	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	table.Render()
}
