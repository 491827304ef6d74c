package documents

import (
	"context"
	"errors"
	"net/http"

	documentstore "github.com/dalemusser/disputehub/internal/app/store/documents"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleReview handles PATCH /documents/{id}: approve or reject a document.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	f, err := patch.Decode(r.Body, "status")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	s, err := f.Required("status")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	status := models.DocumentStatus(s)
	if !status.Valid() {
		respond.Fail(w, h.Log, respond.BadRequest("Invalid status"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Documents.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, documentstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Document not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	h.Log.Info("document reviewed",
		zap.String("document_id", id.Hex()),
		zap.String("status", string(status)),
		zap.String("reviewer_id", user.ID.Hex()))
	respond.JSON(w, http.StatusOK, doc)
}
