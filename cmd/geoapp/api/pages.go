package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manzanit0/geoapp/cmd/geoapp/state"
	"github.com/manzanit0/geoapp/cmd/geoapp/view"
	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
	"github.com/manzanit0/geoapp/pkg/middleware"
)

const (
	MsgUnknownAddress     = "Cette adresse ne fait plus partie des résultats, relancez la recherche."
	MsgInvalidCoordinates = "Les coordonnées saisies ne sont pas valides."
)

// Locator resolves coordinates into a commune candidate.
type Locator interface {
	Locate(ctx context.Context, lat, lon float64) (*adresse.Candidate, error)
}

// PageController serves the HTML page. Every handler dispatches actions to the
// session's state and then renders it or redirects to it.
type PageController struct {
	store   *state.Store
	geo     geo.Client
	adresse adresse.Client
	locator Locator
}

func NewPageController(store *state.Store, g geo.Client, a adresse.Client, l Locator) *PageController {
	return &PageController{store: store, geo: g, adresse: a, locator: l}
}

func (ctl *PageController) Register(r gin.IRouter) {
	r.GET("/", ctl.Index)
	r.GET("/search", ctl.Search)
	r.POST("/select", ctl.Select)
	r.GET("/departements/:code/communes", ctl.DepartementCommunes)
	r.POST("/modal/close", ctl.CloseModal)
	r.POST("/modal/open", ctl.ReopenModal)
	r.POST("/errors/dismiss", ctl.DismissError)
	r.GET("/locate", ctl.Locate)
}

func (ctl *PageController) Index(c *gin.Context) {
	ctl.render(c, ctl.store.Get(sessionID(c)))
}

func (ctl *PageController) Search(c *gin.Context) {
	sid := sessionID(c)
	query := c.Query("q")

	ctx, cancel, gen, ok := ctl.store.BeginSearch(c.Request.Context(), sid, query)
	defer cancel()

	if ok {
		candidates, err := ctl.adresse.Search(ctx, query)
		if err != nil {
			slog.ErrorContext(ctx, "search address", "error", err.Error(), "query", query)
			ctl.store.Dispatch(sid, state.SearchFailed{Generation: gen, Message: Describe(err)})
		} else {
			ctl.store.Dispatch(sid, state.SearchResolved{Generation: gen, Candidates: candidates})
		}
	}

	ctl.render(c, ctl.store.Get(sid))
}

func (ctl *PageController) Select(c *gin.Context) {
	sid := sessionID(c)
	id := c.PostForm("id")

	var candidate *adresse.Candidate
	if id != "" {
		candidate = findCandidate(ctl.store.Get(sid), id)
		if candidate == nil {
			ctl.store.Dispatch(sid, state.Failed{Widget: state.WidgetSearch, Message: MsgUnknownAddress})
			redirectHome(c)
			return
		}
	}

	ctl.selectAddress(c.Request.Context(), sid, candidate)
	redirectHome(c)
}

func (ctl *PageController) DepartementCommunes(c *gin.Context) {
	sid := sessionID(c)
	ctl.fetchCommunes(c.Request.Context(), sid, c.Param("code"), true)
	ctl.render(c, ctl.store.Get(sid))
}

func (ctl *PageController) CloseModal(c *gin.Context) {
	ctl.store.Dispatch(sessionID(c), state.ModalDismissed{})
	redirectHome(c)
}

func (ctl *PageController) ReopenModal(c *gin.Context) {
	ctl.store.Dispatch(sessionID(c), state.ModalReopened{})
	redirectHome(c)
}

func (ctl *PageController) DismissError(c *gin.Context) {
	w, ok := state.ParseWidget(c.PostForm("widget"))
	if !ok {
		c.String(http.StatusBadRequest, "unknown widget")
		return
	}

	ctl.store.Dispatch(sessionID(c), state.ErrorDismissed{Widget: w})
	redirectHome(c)
}

func (ctl *PageController) Locate(c *gin.Context) {
	sid := sessionID(c)
	ctx := c.Request.Context()

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		ctl.store.Dispatch(sid, state.Failed{Widget: state.WidgetLocate, Message: MsgInvalidCoordinates})
		redirectHome(c)
		return
	}

	candidate, err := ctl.locator.Locate(ctx, lat, lon)
	if err != nil {
		slog.ErrorContext(ctx, "locate coordinates", "error", err.Error(), "lat", lat, "lon", lon)
		ctl.store.Dispatch(sid, state.Failed{Widget: state.WidgetLocate, Message: Describe(err)})
		redirectHome(c)
		return
	}

	ctl.selectAddress(ctx, sid, candidate)
	redirectHome(c)
}

func (ctl *PageController) selectAddress(ctx context.Context, sid string, candidate *adresse.Candidate) {
	a := state.AddressSelected{Candidate: candidate}
	ctl.store.Dispatch(sid, a)

	if dep, ok := a.DepartementToFetch(); ok {
		ctl.fetchCommunes(ctx, sid, dep, false)
	}
}

func (ctl *PageController) fetchCommunes(ctx context.Context, sid, dep string, openModal bool) {
	gen := ctl.store.BeginCommunes(sid, dep)

	communes, err := ctl.geo.ListCommunes(ctx, dep)
	if err != nil {
		slog.ErrorContext(ctx, "list communes", "error", err.Error(), "departement", dep)
		ctl.store.Dispatch(sid, state.CommunesFailed{Generation: gen, Message: Describe(err)})
		return
	}

	ctl.store.Dispatch(sid, state.CommunesResolved{
		Generation:  gen,
		Departement: dep,
		Communes:    communes,
		OpenModal:   openModal,
	})
}

func (ctl *PageController) render(c *gin.Context, s state.State) {
	c.HTML(http.StatusOK, view.PageTemplate, view.Build(s))
}

func findCandidate(s state.State, id string) *adresse.Candidate {
	for i := range s.Candidates {
		if s.Candidates[i].ID == id {
			return &s.Candidates[i]
		}
	}

	// Located addresses are not in the candidate list.
	if s.Selected != nil && s.Selected.ID == id {
		return s.Selected
	}

	return nil
}

func sessionID(c *gin.Context) string {
	return middleware.SessionID(c.Request.Context())
}

// Post/Redirect/Get so that reloading the page does not resubmit forms.
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
