package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manzanit0/geoapp/cmd/geoapp/state"
	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
)

// JSONController exposes the same data as the page for scripts. It reads the
// shared region catalog but never touches session state.
type JSONController struct {
	store   *state.Store
	geo     geo.Client
	adresse adresse.Client
}

func NewJSONController(store *state.Store, g geo.Client, a adresse.Client) *JSONController {
	return &JSONController{store: store, geo: g, adresse: a}
}

func (ctl *JSONController) Register(r gin.IRouter) {
	r.GET("/regions", ctl.Regions)
	r.GET("/search", ctl.Search)
	r.GET("/departements/:code/communes", ctl.Communes)
}

func (ctl *JSONController) Regions(c *gin.Context) {
	regions := ctl.store.Regions()
	if regions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": MsgCatalogError})
		return
	}

	c.JSON(http.StatusOK, regions)
}

func (ctl *JSONController) Search(c *gin.Context) {
	query := c.Query("q")
	if !adresse.ShouldSearch(query) {
		c.JSON(http.StatusOK, []adresse.Candidate{})
		return
	}

	candidates, err := ctl.adresse.Search(c.Request.Context(), query)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "search address", "error", err.Error(), "query", query)
		c.JSON(http.StatusBadGateway, gin.H{"error": Describe(err)})
		return
	}

	c.JSON(http.StatusOK, candidates)
}

func (ctl *JSONController) Communes(c *gin.Context) {
	dep := c.Param("code")

	communes, err := ctl.geo.ListCommunes(c.Request.Context(), dep)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "list communes", "error", err.Error(), "departement", dep)
		c.JSON(http.StatusBadGateway, gin.H{"error": Describe(err)})
		return
	}

	c.JSON(http.StatusOK, communes)
}
