// internal/app/features/meetings/routes.go
package meetings

import (
	"github.com/dalemusser/disputehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /meetings behind the credential check.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(authz.Require(authz.MeetingRequest)).Post("/", h.HandleRequest)
	r.With(authz.Require(authz.MeetingList)).Get("/", h.HandleList)
	r.With(authz.Require(authz.MeetingUpdate)).Patch("/{id}", h.HandleUpdate)
	return r
}
