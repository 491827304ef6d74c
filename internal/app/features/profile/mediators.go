package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
)

type mediatorEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// ServeMediators handles GET /users/mediators: the mediator directory
// parties pick from when requesting a meeting.
func (h *Handler) ServeMediators(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Users.ListByRole(ctx, models.RoleMediator)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	out := make([]mediatorEntry, 0, len(list))
	for _, u := range list {
		out = append(out, mediatorEntry{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Phone: u.Phone})
	}
	respond.JSON(w, http.StatusOK, out)
}
