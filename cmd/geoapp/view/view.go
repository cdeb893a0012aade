// Package view turns a session state into what the page shows. Build is a pure
// function; the HTML itself lives in templates/.
package view

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/manzanit0/geoapp/cmd/geoapp/state"
	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
)

const PageTemplate = "page.html"

//go:embed templates/*.html
var templatesFS embed.FS

type Page struct {
	Query          string
	MinQueryLength int
	Candidates     []CandidateOption
	Detail         *Detail
	Rows           []RegionRow
	Modal          Modal
	Errors         map[state.Widget]string
}

type CandidateOption struct {
	ID       string
	Label    string
	Selected bool
}

// Detail is the panel shown for the selected address.
type Detail struct {
	City        string
	Population  int
	Type        string
	CityCode    string
	Context     string
	Departement string
}

// RegionRow is one departement line of the region table. The region cell is
// only printed on the first line of its region and spans all of them.
type RegionRow struct {
	RegionCode  string
	RegionNom   string
	ShowRegion  bool
	RowSpan     int
	Departement geo.Departement
}

type Modal struct {
	Open        bool
	CanReopen   bool
	Departement string
	Communes    []CommuneRow
}

type CommuneRow struct {
	Nom          string
	Code         string
	CodeEpci     string
	CodesPostaux string
	Population   int
	Siren        string
}

func Build(s state.State) Page {
	p := Page{
		Query:          s.Query,
		MinQueryLength: adresse.MinQueryLength,
		Candidates:     make([]CandidateOption, 0, len(s.Candidates)),
		Rows:           RegionRows(s.Regions),
		Modal: Modal{
			Open:        s.Modal == state.ModalOpen,
			CanReopen:   s.Modal == state.ModalClosed && s.CommunesDepartement != "",
			Departement: s.CommunesDepartement,
			Communes:    CommuneRows(s.Communes),
		},
		Errors: s.Errors,
	}

	for _, c := range s.Candidates {
		p.Candidates = append(p.Candidates, CandidateOption{
			ID:       c.ID,
			Label:    c.Label,
			Selected: s.Selected != nil && s.Selected.ID == c.ID,
		})
	}

	if s.Selected != nil {
		p.Detail = &Detail{
			City:        s.Selected.City,
			Population:  s.Selected.Population,
			Type:        s.Selected.Type,
			CityCode:    s.Selected.CityCode,
			Context:     s.Selected.Context,
			Departement: s.Selected.DepartementCode(),
		}
	}

	return p
}

func RegionRows(regions []geo.Region) []RegionRow {
	var rows []RegionRow
	for _, r := range regions {
		for i, d := range r.Departements {
			rows = append(rows, RegionRow{
				RegionCode:  r.Code,
				RegionNom:   r.Nom,
				ShowRegion:  i == 0,
				RowSpan:     len(r.Departements),
				Departement: d,
			})
		}
	}

	return rows
}

func CommuneRows(communes []geo.Commune) []CommuneRow {
	rows := make([]CommuneRow, 0, len(communes))
	for _, c := range communes {
		rows = append(rows, CommuneRow{
			Nom:          c.Nom,
			Code:         c.Code,
			CodeEpci:     c.CodeEpci,
			CodesPostaux: strings.Join(c.CodesPostaux, ", "),
			Population:   c.Population,
			Siren:        c.Siren,
		})
	}

	return rows
}

// ErrorBox is what the "error" template needs to print a dismissible
// message.
type ErrorBox struct {
	Widget  state.Widget
	Message string
}

func errorOf(errs map[state.Widget]string, widget string) ErrorBox {
	w := state.Widget(widget)
	return ErrorBox{Widget: w, Message: errs[w]}
}

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{"errorOf": errorOf}).
	ParseFS(templatesFS, "templates/*.html"))

func Templates() *template.Template {
	return templates
}

func Render(w io.Writer, p Page) error {
	return templates.ExecuteTemplate(w, PageTemplate, p)
}
