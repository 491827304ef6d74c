// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/disputehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin routes. Every route is admin-only.
//
//	r.Mount("/admin", admin.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(authz.Require(authz.AdminUsers))
		pr.Get("/users", h.ServeUsers)
		pr.Patch("/users/{id}", h.HandleUpdateUser)
		pr.Delete("/users/{id}", h.HandleDeleteUser)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(authz.Require(authz.AdminDisputes))
		pr.Get("/disputes", h.ServeDisputes)
		pr.Delete("/disputes/{id}", h.HandleDeleteDispute)
	})

	return r
}
