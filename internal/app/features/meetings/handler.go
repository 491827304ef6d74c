// internal/app/features/meetings/handler.go
package meetings

import (
	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	meetingstore "github.com/dalemusser/disputehub/internal/app/store/meetings"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /meetings.
type Handler struct {
	Meetings *meetingstore.Store
	Disputes *disputestore.Store
	Users    *userstore.Store
	Notify   workers.EmailQueue
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, notify workers.EmailQueue, logger *zap.Logger) *Handler {
	return &Handler{
		Meetings: meetingstore.New(db),
		Disputes: disputestore.New(db),
		Users:    userstore.New(db),
		Notify:   notify,
		Log:      logger,
	}
}
