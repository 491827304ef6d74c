// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/disputehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under the path where this router is mounted
// (typically "/audit" from bootstrap). Admins only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(authz.Require(authz.AdminAudit)).Get("/", h.ServeList)
	return r
}
