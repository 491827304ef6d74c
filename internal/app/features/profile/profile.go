package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/features/shared/userfields"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
)

// ServeProfile handles GET /users/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("User not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// HandleUpdateProfile handles PATCH /users/profile. Email and role are not
// self-editable; naming either rejects the whole request.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	f, err := patch.Decode(r.Body, userfields.Profile...)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	set, err := userfields.Set(f)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.UpdateFields(ctx, user.ID, set)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("User not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}
