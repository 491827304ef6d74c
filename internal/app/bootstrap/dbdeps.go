// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	"github.com/dalemusser/disputehub/internal/app/system/auditlog"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/workers"
	"github.com/dalemusser/waffle/pantry/jobs"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the back-end dependencies built once at boot and shared by
// every handler.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Storage     storage.Store
	Notifier    *workers.Notifier
	Tasks       *jobs.Scheduler
	Tokens      *auth.TokenManager
	Invitations *invitationstore.Store
	AuditLog    *auditlog.Logger
}
