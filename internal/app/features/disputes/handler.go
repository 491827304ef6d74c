// internal/app/features/disputes/handler.go
package disputes

import (
	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	historystore "github.com/dalemusser/disputehub/internal/app/store/disputehistory"
	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auditlog"
	"github.com/dalemusser/disputehub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /disputes.
type Handler struct {
	Client      *mongo.Client
	Disputes    *disputestore.Store
	History     *historystore.Store
	Users       *userstore.Store
	Invitations *invitationstore.Store
	Notify      workers.EmailQueue
	AuditLog    *auditlog.Logger
	Log         *zap.Logger

	BaseURL  string // claim links are BaseURL + "/claim?token=..."
	SiteName string
}

func NewHandler(
	db *mongo.Database,
	invitations *invitationstore.Store,
	notify workers.EmailQueue,
	audit *auditlog.Logger,
	baseURL, siteName string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Client:      db.Client(),
		Disputes:    disputestore.New(db),
		History:     historystore.New(db),
		Users:       userstore.New(db),
		Invitations: invitations,
		Notify:      notify,
		AuditLog:    audit,
		Log:         logger,
		BaseURL:     baseURL,
		SiteName:    siteName,
	}
}
