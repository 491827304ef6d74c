// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/disputehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /users behind the credential check.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(authz.Require(authz.ProfileRead)).Get("/profile", h.ServeProfile)
	r.With(authz.Require(authz.ProfileUpdate)).Patch("/profile", h.HandleUpdateProfile)
	r.With(authz.Require(authz.ProfileUpdate)).Post("/profile/password", h.HandleChangePassword)
	r.With(authz.Require(authz.MediatorsList)).Get("/mediators", h.ServeMediators)
	return r
}
