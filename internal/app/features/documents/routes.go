// internal/app/features/documents/routes.go
package documents

import (
	"github.com/dalemusser/disputehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /documents behind the credential check.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(authz.Require(authz.DocumentUpload)).Post("/", h.HandleUpload)
	r.With(authz.Require(authz.DocumentList)).Get("/complaint/{complaintId}", h.HandleListByComplaint)
	r.With(authz.Require(authz.DocumentMediatorAll)).Get("/mediator/all", h.HandleMediatorAll)
	r.With(authz.Require(authz.DocumentReview)).Patch("/{id}", h.HandleReview)
	r.With(authz.Require(authz.DocumentDownload)).Get("/{id}/download", h.HandleDownload)
	return r
}
