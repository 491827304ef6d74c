package login

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/disputehub/internal/app/system/normalize"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GoogleUserInfoURL is Google's OAuth2 userinfo endpoint.
const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleIdentity is what Google reports for an access token.
type GoogleIdentity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleUserInfo verifies access tokens against the userinfo endpoint.
type GoogleUserInfo struct {
	Endpoint string
}

// NewGoogleUserInfo returns a verifier for Google's production endpoint.
func NewGoogleUserInfo() *GoogleUserInfo {
	return &GoogleUserInfo{Endpoint: GoogleUserInfoURL}
}

// Verify fetches the identity that owns accessToken.
func (g *GoogleUserInfo) Verify(ctx context.Context, accessToken string) (*GoogleIdentity, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	resp, err := client.Get(g.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

type googleAuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// HandleGoogleAuth handles POST /auth/google-auth.
//
// The user is found by Google id or created on first sign-in. The issued
// credential carries the Google id rather than the internal user id.
func (h *Handler) HandleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	f, err := patch.Decode(r.Body, "email", "googleId", "name", "profilePicture", "role", "accessToken")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	googleID, err := f.Required("googleId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	email, err := f.Required("email")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	name, _, err := f.String("name")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	picture, _, err := f.String("profilePicture")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	roleStr, _, err := f.String("role")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	accessToken, _, err := f.String("accessToken")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if h.Google != nil {
		if accessToken == "" {
			respond.Fail(w, h.Log, respond.Unauthorized("Google access token is required"))
			return
		}
		id, err := h.Google.Verify(ctx, accessToken)
		if err != nil {
			h.Log.Warn("google-auth: token verification failed", zap.Error(err))
			respond.Fail(w, h.Log, respond.Unauthorized("Google access token is not valid"))
			return
		}
		if id.ID != googleID || normalize.Email(id.Email) != normalize.Email(email) {
			h.Log.Warn("google-auth: identity mismatch", zap.String("google_id", googleID))
			respond.Fail(w, h.Log, respond.Unauthorized("Google access token does not match"))
			return
		}
	}

	u, err := h.Users.GetByGoogleID(ctx, googleID)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrNotFound):
		role := models.RoleIndividual
		if roleStr != "" {
			var ok bool
			if role, ok = models.ParseRole(roleStr); !ok {
				respond.Fail(w, h.Log, respond.BadRequest("Invalid role"))
				return
			}
		}
		if name = htmlsanitize.PlainText(name); name == "" {
			name = email
		}
		nu, cerr := h.Users.Create(ctx, models.User{
			Name:           name,
			Email:          email,
			GoogleID:       googleID,
			ProfilePicture: picture,
			Role:           role,
		})
		if cerr != nil {
			if errors.Is(cerr, userstore.ErrDuplicateEmail) {
				respond.Fail(w, h.Log, respond.Conflict("User already exists"))
				return
			}
			respond.Fail(w, h.Log, cerr)
			return
		}
		u, created = &nu, true
	default:
		respond.Fail(w, h.Log, err)
		return
	}

	token, err := h.Tokens.IssueForGoogleID(googleID)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	h.AuditLog.GoogleSignIn(ctx, r, u.ID, created)
	respond.JSON(w, http.StatusOK, googleAuthResponse{User: *u, Token: token})
}
