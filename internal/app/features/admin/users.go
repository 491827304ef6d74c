package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/disputehub/internal/app/features/shared/userfields"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeUsers handles GET /admin/users. Password hashes are never serialised.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// HandleUpdateUser handles PATCH /admin/users/{id}.
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)

	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	f, err := patch.Decode(r.Body, userfields.Admin...)
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

	u, err := h.Users.UpdateFields(ctx, id, set)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Fail(w, h.Log, respond.NotFound("User not found"))
		return
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Fail(w, h.Log, respond.Conflict("Email already in use"))
		return
	case err != nil:
		respond.Fail(w, h.Log, err)
		return
	}

	h.AuditLog.UserUpdated(ctx, r, actor.ID, id, strings.Join(f.Keys(), ","))
	respond.JSON(w, http.StatusOK, u)
}

// HandleDeleteUser handles DELETE /admin/users/{id}. Admins cannot delete
// their own account. Outstanding invitations for the user go with it.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)

	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	if id == actor.ID {
		respond.Fail(w, h.Log, respond.BadRequest("You cannot delete your own account"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("User not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}
	if err := h.Invitations.DeleteByUser(ctx, id); err != nil {
		h.Log.Warn("failed to remove invitations of deleted user", zap.String("user_id", id.Hex()), zap.Error(err))
	}

	h.AuditLog.UserDeleted(ctx, r, actor.ID, id)
	respond.Message(w, http.StatusOK, "User deleted")
}
