// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/disputehub/internal/app/store/audit"
	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auditlog"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/indexes"
	"github.com/dalemusser/disputehub/internal/app/system/mailer"
	"github.com/dalemusser/disputehub/internal/app/system/tasks"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/app/system/validators"
	"github.com/dalemusser/disputehub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/jobs"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the single Mongo client and builds the other shared
// back ends: document storage, the notification worker with its SMTP
// sender, the token manager, the invitation store, the maintenance
// scheduler, and the audit logger.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool", appCfg.MongoMinPoolSize))

	db := client.Database(appCfg.MongoDatabase)

	store, err := openDocumentStore(appCfg)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("local storage %q: %w", appCfg.StorageLocalPath, err)
	}

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.TokenTTL, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("token manager: %w", err)
	}
	tokens.SetUserFetcher(userstore.NewFetcher(db))

	sender := mailer.NewSender(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	})

	notifier := workers.NewNotifier(sender, logger, workers.NotifierConfig{
		QueueSize:   appCfg.NotifyQueueSize,
		MaxAttempts: appCfg.NotifyMaxAttempts,
	})

	audits := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	invitations := invitationstore.New(db, appCfg.InviteExpiry)
	scheduler := jobs.NewScheduler(logger)
	if err := tasks.Register(scheduler, invitations, notifier, logger); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("register jobs: %w", err)
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Storage:       store,
		Notifier:      notifier,
		Tasks:         scheduler,
		Tokens:        tokens,
		Invitations:   invitations,
		AuditLog:      audits,
	}, nil
}

// openDocumentStore opens the local PDF store, creating its directory.
func openDocumentStore(appCfg AppConfig) (*storage.Local, error) {
	return storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
}

// EnsureSchema creates the collections with their JSON-Schema validators,
// then the indexes every store relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return nil
}
