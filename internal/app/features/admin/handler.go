// internal/app/features/admin/handler.go
package admin

import (
	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /admin: account and dispute maintenance.
type Handler struct {
	Users       *userstore.Store
	Disputes    *disputestore.Store
	Invitations *invitationstore.Store
	AuditLog    *auditlog.Logger
	Log         *zap.Logger
}

// NewHandler constructs the admin handler bound to the given Mongo database.
func NewHandler(db *mongo.Database, invitations *invitationstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		Disputes:    disputestore.New(db),
		Invitations: invitations,
		AuditLog:    audit,
		Log:         logger,
	}
}
