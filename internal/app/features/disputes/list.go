package disputes

import (
	"context"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/features/shared/views"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
)

// HandleList handles GET /disputes.
//
// Parties see disputes they filed or answer; mediators see the disputes
// they are responsible for. Admins and arbitrators have their own scoped
// listings and get an empty list here.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.Dispute
		err  error
	)
	switch {
	case user.Role.IsParty():
		list, err = h.Disputes.ListForParty(ctx, user.ID)
	case user.Role == models.RoleMediator:
		list, err = h.Disputes.ListByMediator(ctx, user.ID)
	default:
		list = []models.Dispute{}
	}
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
