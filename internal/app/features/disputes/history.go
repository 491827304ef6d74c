package disputes

import (
	"context"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/features/shared/views"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
)

// HandleHistory handles GET /disputes/{id}/history, newest first.
// Only admins and the dispute's participants may read it.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Disputes.GetByID(ctx, id)
	if err != nil {
		h.failLookup(w, err)
		return
	}
	if user.Role != models.RoleAdmin && !d.Involves(user.ID) {
		respond.Fail(w, h.Log, respond.Forbidden("Access denied"))
		return
	}

	rows, err := h.History.ListForDispute(ctx, id)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	out, err := views.Histories(ctx, h.Users, rows)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}
