// internal/app/features/disputes/routes.go
package disputes

import (
	"github.com/dalemusser/disputehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /disputes behind the credential check.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(authz.Require(authz.DisputeCreate)).Post("/", h.HandleCreate)
	r.With(authz.Require(authz.DisputeList)).Get("/", h.HandleList)
	r.With(authz.Require(authz.DisputeMediatorCreate)).Post("/mediator-create", h.HandleMediatorCreate)
	r.With(authz.Require(authz.DisputeUpdate)).Patch("/{id}", h.HandleUpdate)
	r.With(authz.Require(authz.DisputeUpdateDetails)).Patch("/{id}/details", h.HandleUpdateDetails)
	r.With(authz.Require(authz.DisputeElevate)).Patch("/{id}/elevate", h.HandleElevate)
	r.With(authz.Require(authz.DisputeHistory)).Get("/{id}/history", h.HandleHistory)
	return r
}
