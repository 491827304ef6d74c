package login

import (
	"context"
	"errors"
	"net/http"

	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	"github.com/dalemusser/disputehub/internal/app/system/authutil"
	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleClaim handles POST /auth/claim: an invited user redeems the link
// from their invitation email and chooses a password.
func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	f, err := patch.Decode(r.Body, "token", "password", "name")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	claimToken, err := f.Required("token")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	password, _, err := f.String("password")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	name, _, err := f.String("name")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	// Validate before consuming so a bad password does not burn the token.
	hash, err := authutil.HashPassword(password)
	if err != nil {
		respond.Fail(w, h.Log, respond.BadRequest(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inv, err := h.Invitations.Claim(ctx, claimToken)
	if err != nil {
		if errors.Is(err, invitationstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Invitation not found or expired"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	if err := h.Users.SetPassword(ctx, inv.UserID, hash, htmlsanitize.PlainText(name)); err != nil {
		h.Log.Error("claim: set password failed", zap.String("user_id", inv.UserID.Hex()), zap.Error(err))
		respond.Fail(w, h.Log, err)
		return
	}

	token, err := h.Tokens.IssueForUser(inv.UserID)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	h.AuditLog.InvitationClaimed(ctx, r, inv.UserID)
	respond.JSON(w, http.StatusOK, tokenResponse{Token: token})
}
