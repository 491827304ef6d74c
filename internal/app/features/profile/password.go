package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/authutil"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleChangePassword handles POST /users/profile/password.
// Only accounts that sign in with a password can change it.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	f, err := patch.Decode(r.Body, "currentPassword", "newPassword")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	current, _, err := f.String("currentPassword")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	next, _, err := f.String("newPassword")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	if err := authutil.ValidatePassword(next); err != nil {
		respond.Fail(w, h.Log, respond.BadRequest(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, user.ID)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	if !u.HasPassword() {
		respond.Fail(w, h.Log, respond.BadRequest("Password change is only available for password sign-in"))
		return
	}
	if !authutil.CheckPassword(u.PasswordHash, current) {
		respond.Fail(w, h.Log, respond.BadCredentials("Current password is incorrect"))
		return
	}
	if authutil.CheckPassword(u.PasswordHash, next) {
		respond.Fail(w, h.Log, respond.BadRequest("New password must be different from the current password"))
		return
	}

	hash, err := authutil.HashPassword(next)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	if err := h.Users.SetPassword(ctx, u.ID, hash, ""); err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, u.ID)
	h.Log.Info("password changed", zap.String("user_id", u.ID.Hex()))
	respond.Message(w, http.StatusOK, "Password changed")
}
