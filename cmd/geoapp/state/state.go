// Package state holds what a browser session is looking at and the pure
// transitions that change it. Handlers fetch data, then dispatch actions; the
// reducer never performs I/O.
package state

import (
	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
)

type Modal int

const (
	ModalClosed Modal = iota
	ModalOpen
)

func (m Modal) String() string {
	if m == ModalOpen {
		return "open"
	}

	return "closed"
}

// Widget names the part of the page an error message is attached to.
type Widget string

const (
	WidgetRegions  Widget = "regions"
	WidgetSearch   Widget = "search"
	WidgetCommunes Widget = "communes"
	WidgetLocate   Widget = "locate"
)

func ParseWidget(s string) (Widget, bool) {
	switch w := Widget(s); w {
	case WidgetRegions, WidgetSearch, WidgetCommunes, WidgetLocate:
		return w, true
	default:
		return "", false
	}
}

type State struct {
	Regions []geo.Region

	Query      string
	Candidates []adresse.Candidate
	Selected   *adresse.Candidate

	Communes            []geo.Commune
	CommunesDepartement string
	Modal               Modal

	// Generations identify the latest request issued for each async
	// widget. Responses carrying an older generation are dropped.
	SearchGeneration   uint64
	CommunesGeneration uint64

	Errors map[Widget]string
}

type Action interface {
	isAction()
}

type RegionsLoaded struct {
	Regions []geo.Region
}

// SearchIssued is dispatched for every search input. Queries shorter than
// adresse.MinQueryLength do not start a request.
type SearchIssued struct {
	Query string
}

type SearchResolved struct {
	Generation uint64
	Candidates []adresse.Candidate
}

type SearchFailed struct {
	Generation uint64
	Message    string
}

// AddressSelected records a selection. A nil Candidate clears it.
type AddressSelected struct {
	Candidate *adresse.Candidate
}

type CommunesRequested struct {
	Departement string
}

type CommunesResolved struct {
	Generation  uint64
	Departement string
	Communes    []geo.Commune
	// OpenModal is set when the request came from a departement link rather
	// than from an address selection.
	OpenModal bool
}

type CommunesFailed struct {
	Generation uint64
	Message    string
}

type ModalDismissed struct{}

// ModalReopened shows the communes kept from the last fetch.
type ModalReopened struct{}

type Failed struct {
	Widget  Widget
	Message string
}

type ErrorDismissed struct {
	Widget Widget
}

func (RegionsLoaded) isAction()     {}
func (SearchIssued) isAction()      {}
func (SearchResolved) isAction()    {}
func (SearchFailed) isAction()      {}
func (AddressSelected) isAction()   {}
func (CommunesRequested) isAction() {}
func (CommunesResolved) isAction()  {}
func (CommunesFailed) isAction()    {}
func (ModalDismissed) isAction()    {}
func (ModalReopened) isAction()     {}
func (Failed) isAction()            {}
func (ErrorDismissed) isAction()    {}

// DepartementToFetch returns the departement whose communes must be fetched
// after a selection, or false when there is nothing to fetch.
func (a AddressSelected) DepartementToFetch() (string, bool) {
	if a.Candidate == nil {
		return "", false
	}

	code := a.Candidate.DepartementCode()
	return code, code != ""
}

// Reduce returns the state that follows s once a is applied. s is not
// modified.
func Reduce(s State, a Action) State {
	s.Errors = copyErrors(s.Errors)

	switch a := a.(type) {
	case RegionsLoaded:
		s.Regions = a.Regions
		delete(s.Errors, WidgetRegions)

	case SearchIssued:
		s.Query = a.Query
		if adresse.ShouldSearch(a.Query) {
			s.SearchGeneration++
			delete(s.Errors, WidgetSearch)
		}

	case SearchResolved:
		if a.Generation == s.SearchGeneration {
			s.Candidates = a.Candidates
		}

	case SearchFailed:
		if a.Generation == s.SearchGeneration {
			s.Errors[WidgetSearch] = a.Message
		}

	case AddressSelected:
		if a.Candidate == nil {
			s.Selected = nil
			break
		}

		selected := *a.Candidate
		s.Selected = &selected
		delete(s.Errors, WidgetLocate)

	case CommunesRequested:
		s.CommunesGeneration++
		delete(s.Errors, WidgetCommunes)

	case CommunesResolved:
		if a.Generation != s.CommunesGeneration {
			break
		}

		s.Communes = a.Communes
		s.CommunesDepartement = a.Departement
		if a.OpenModal {
			s.Modal = ModalOpen
		}

	case CommunesFailed:
		if a.Generation == s.CommunesGeneration {
			s.Errors[WidgetCommunes] = a.Message
		}

	case ModalDismissed:
		s.Modal = ModalClosed

	case ModalReopened:
		if s.CommunesDepartement != "" {
			s.Modal = ModalOpen
		}

	case Failed:
		s.Errors[a.Widget] = a.Message

	case ErrorDismissed:
		delete(s.Errors, a.Widget)
	}

	return s
}

func copyErrors(in map[Widget]string) map[Widget]string {
	out := make(map[Widget]string, len(in))
	for k, v := range in {
		out[k] = v
	}

	return out
}
