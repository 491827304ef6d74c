package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/features/shared/views"
	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
)

// ServeDisputes handles GET /admin/disputes: every dispute, newest first,
// with parties joined.
func (h *Handler) ServeDisputes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Disputes.ListAll(ctx)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	out, err := views.Disputes(ctx, h.Users, list)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// HandleDeleteDispute handles DELETE /admin/disputes/{id}. No history row
// is written; the audit log records the delete.
func (h *Handler) HandleDeleteDispute(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)

	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Disputes.Delete(ctx, id); err != nil {
		if errors.Is(err, disputestore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Dispute not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	h.AuditLog.DisputeDeleted(ctx, r, actor.ID, id)
	respond.Message(w, http.StatusOK, "Dispute deleted")
}
