package meetings

import (
	"context"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
)

// HandleList handles GET /meetings, earliest proposed time first. Mediators
// see the meetings addressed to them; everyone else sees the ones they attend.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.Meeting
		err  error
	)
	if user.Role == models.RoleMediator {
		list, err = h.Meetings.ListForMediator(ctx, user.ID)
	} else {
		list, err = h.Meetings.ListForAttendee(ctx, user.ID)
	}
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	out, err := h.expand(ctx, list)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}
