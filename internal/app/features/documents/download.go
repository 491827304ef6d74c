package documents

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	documentstore "github.com/dalemusser/disputehub/internal/app/store/documents"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// HandleDownload handles GET /documents/{id}/download. Local files are
// served directly; other stores redirect to a short-lived signed URL.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, documentstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Document not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	filename := sanitizeFilename(doc.FileName)
	disposition := "attachment; filename=\"" + filename + "\""
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if local, ok := h.Files.(localFiles); ok {
		fullPath, err := local.GetFullPath(doc.Path)
		if err != nil {
			h.Log.Error("error getting file path", zap.String("path", doc.Path), zap.Error(err))
			respond.Fail(w, h.Log, respond.NotFound("File not found"))
			return
		}
		if st, err := os.Stat(fullPath); err != nil || st.IsDir() {
			respond.Fail(w, h.Log, respond.NotFound("File not found"))
			return
		}
		w.Header().Set("Content-Type", pdfType)
		w.Header().Set("Content-Disposition", disposition)
		http.ServeFile(w, r, fullPath)
		return
	}

	signedURL, err := h.Files.PresignedURL(ctx, doc.Path, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: disposition,
	})
	if err != nil {
		h.Log.Error("error generating signed URL", zap.String("path", doc.Path), zap.Error(err))
		respond.Fail(w, h.Log, err)
		return
	}
	http.Redirect(w, r, signedURL, http.StatusSeeOther)
}
