package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/authutil"
	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/disputehub/internal/app/system/normalize"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleRegister handles POST /auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	f, err := patch.Decode(r.Body, "name", "email", "password", "role")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	var name, email, password, roleStr string
	for _, field := range []struct {
		key string
		dst *string
	}{{"name", &name}, {"email", &email}, {"password", &password}, {"role", &roleStr}} {
		if *field.dst, err = f.Required(field.key); err != nil {
			respond.Fail(w, h.Log, err)
			return
		}
	}
	role, ok := models.ParseRole(roleStr)
	if !ok {
		respond.Fail(w, h.Log, respond.BadRequest("Invalid role"))
		return
	}
	name = htmlsanitize.PlainText(name)
	email = normalize.Email(email)
	if name == "" || !authutil.IsValidEmail(email) {
		respond.Fail(w, h.Log, respond.BadRequest("A valid name and email are required"))
		return
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		respond.Fail(w, h.Log, respond.BadRequest(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Fail(w, h.Log, respond.Conflict("User already exists"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	token, err := h.Tokens.IssueForUser(u.ID)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	h.AuditLog.UserRegistered(ctx, r, u.ID, string(u.Role))
	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("role", string(u.Role)))
	respond.JSON(w, http.StatusCreated, tokenResponse{Token: token})
}
