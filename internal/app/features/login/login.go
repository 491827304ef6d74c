package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/authutil"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
)

// HandleLogin handles POST /auth/login.
//
// An unknown email is reported as 404; accounts without a password
// (Google sign-in, unclaimed invitations) fail like a wrong password.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	f, err := patch.Decode(r.Body, "email", "password")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	email, err := f.Required("email")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	password, _, err := f.String("password")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
			respond.Fail(w, h.Log, respond.NotFound("User not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	if !u.HasPassword() || !authutil.CheckPassword(u.PasswordHash, password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID)
		respond.Fail(w, h.Log, respond.BadCredentials("Invalid credentials"))
		return
	}

	token, err := h.Tokens.IssueForUser(u.ID)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, "password")
	respond.JSON(w, http.StatusOK, tokenResponse{Token: token})
}
