package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
	"github.com/manzanit0/geoapp/pkg/geocode"
)

const (
	MsgTimeout      = "Le service n'a pas répondu à temps, réessayez dans un instant."
	MsgUnreachable  = "Impossible de contacter le service, réessayez dans un instant."
	MsgUpstreamFmt  = "Le service a répondu avec une erreur (%d)."
	MsgNoCommune    = "Aucune commune trouvée à ces coordonnées."
	MsgCatalogError = "La liste des régions n'a pas pu être chargée."
)

// Describe turns a fetch error into the message shown next to the widget.
func Describe(err error) string {
	var geoErr *geo.StatusError
	var banErr *adresse.StatusError

	switch {
	case errors.Is(err, geocode.ErrNoCommune):
		return MsgNoCommune
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	case errors.As(err, &geoErr):
		return fmt.Sprintf(MsgUpstreamFmt, geoErr.StatusCode)
	case errors.As(err, &banErr):
		return fmt.Sprintf(MsgUpstreamFmt, banErr.StatusCode)
	default:
		return MsgUnreachable
	}
}
