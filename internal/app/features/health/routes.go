// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Routes is mounted at /health. It sits outside the bearer check so load
// balancers can probe it.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Head("/", h.Serve)
	return r
}
