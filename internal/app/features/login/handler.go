// internal/app/features/login/handler.go
package login

import (
	"context"

	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auditlog"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IdentityVerifier confirms a federated access token and reports whose it is.
type IdentityVerifier interface {
	Verify(ctx context.Context, accessToken string) (*GoogleIdentity, error)
}

// Handler serves the unauthenticated /auth routes.
type Handler struct {
	Users       *userstore.Store
	Invitations *invitationstore.Store
	Tokens      *auth.TokenManager
	AuditLog    *auditlog.Logger
	Log         *zap.Logger

	// Google is nil when no Google client is configured; google-auth then
	// trusts the identity fields in the request body.
	Google IdentityVerifier
}

func NewHandler(
	db *mongo.Database,
	tokens *auth.TokenManager,
	invitations *invitationstore.Store,
	audit *auditlog.Logger,
	google IdentityVerifier,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		Invitations: invitations,
		Tokens:      tokens,
		AuditLog:    audit,
		Log:         logger,
		Google:      google,
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}
