// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"net/url"
	"strings"

	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/mailer"
	"github.com/dalemusser/disputehub/internal/app/system/normalize"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// adminPlaceholderName is the name of an admin created at bootstrap; the
// claim replaces it.
const adminPlaceholderName = "Administrator"

// Startup runs one-time initialization after the schema is in place and
// before the handler is built: the notification worker and the maintenance
// scheduler are started and the configured admin account is ensured.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Notifier != nil {
		deps.Notifier.Start()
	}
	if deps.Tasks != nil {
		deps.Tasks.Start()
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin makes sure the user with appCfg.AdminEmail exists and has
// the admin role.
//
//   - existing user with another role: promoted to admin
//   - existing admin: left alone
//   - no user: created as an invited admin and sent a claim link
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	email := normalize.Email(appCfg.AdminEmail)
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			logger.Info("admin already present", zap.String("email", email))
			return nil
		}
		if err := users.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			logger.Error("failed to promote admin", zap.String("email", email), zap.Error(err))
			return err
		}
		logger.Info("promoted existing user to admin",
			zap.String("email", email),
			zap.String("previous_role", string(existing.Role)))
		deps.AuditLog.AdminBootstrap(ctx, existing.ID, false)
		return nil

	case !errors.Is(err, userstore.ErrNotFound):
		logger.Error("failed to look up admin", zap.String("email", email), zap.Error(err))
		return err
	}

	created, err := users.Create(ctx, models.User{
		Name:   adminPlaceholderName,
		Email:  email,
		Role:   models.RoleAdmin,
		Status: models.UserInvited,
	})
	if err != nil {
		logger.Error("failed to create admin", zap.String("email", email), zap.Error(err))
		return err
	}
	logger.Info("created admin", zap.String("email", email), zap.String("user_id", created.ID.Hex()))
	deps.AuditLog.AdminBootstrap(ctx, created.ID, true)

	if deps.Invitations == nil || deps.Notifier == nil {
		return nil
	}
	token, err := deps.Invitations.Create(ctx, created.ID, created.Email, nil)
	if err != nil {
		// The account exists; startup continues without a claim link.
		logger.Error("failed to issue admin invitation", zap.String("user_id", created.ID.Hex()), zap.Error(err))
		return nil
	}
	link := strings.TrimRight(appCfg.BaseURL, "/") + "/claim?token=" + url.QueryEscape(token)
	msg := mailer.BuildAdminInvitationEmail(created.Email, mailer.AdminInvitationEmailData{
		SiteName:  appCfg.MailFromName,
		ClaimLink: link,
		ExpiresIn: mailer.FormatExpiry(deps.Invitations.Expiry()),
	})
	if !deps.Notifier.Enqueue(msg) {
		logger.Warn("admin invitation email not queued", zap.String("user_id", created.ID.Hex()))
	}
	return nil
}
