// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// defaultJWTSecret is only acceptable outside prod.
const defaultJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// minJWTSecretLen is the shortest secret accepted without a warning.
const minJWTSecretLen = 32

// appConfigKeys defines the configuration keys for DisputeHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: DISPUTEHUB_MONGO_URI, DISPUTEHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "dispute_resolution", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer credentials
	{Name: "jwt_secret", Default: defaultJWTSecret, Desc: "HMAC secret for signing bearer tokens (must be strong in production)"},
	{Name: "token_ttl", Default: "24h", Desc: "Bearer token lifetime (e.g., 24h, 90m)"},

	// Document storage
	{Name: "storage_local_path", Default: "./uploads/documents", Desc: "Local storage path for uploaded PDFs"},
	{Name: "storage_local_url", Default: "/files/documents", Desc: "URL prefix of the local document store"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port (465 implicit TLS, otherwise STARTTLS)"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@disputehub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "DisputeHub", Desc: "From display name"},

	// Base URL for claim links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links"},

	{Name: "invite_expiry", Default: "72h", Desc: "Lifetime of respondent invitation links"},

	// Notification worker
	{Name: "notify_queue_size", Default: 256, Desc: "Undelivered notification emails before new ones are dropped"},
	{Name: "notify_max_attempts", Default: 3, Desc: "Delivery attempts per notification email"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID (enables access-token verification)"},

	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin (promotes/creates on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// DISPUTEHUB_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DISPUTEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		TokenTTL:  appValues.Duration("token_ttl", 24*time.Hour),

		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL: appValues.String("base_url"),

		InviteExpiry: appValues.Duration("invite_expiry", 72*time.Hour),

		NotifyQueueSize:   appValues.Int("notify_queue_size"),
		NotifyMaxAttempts: appValues.Int("notify_max_attempts"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		GoogleClientID: appValues.String("google_client_id"),

		AdminEmail: appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The Mongo URI is checked before any connection attempt. In prod the
// built-in development jwt_secret is refused.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret must be set")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.JWTSecret == defaultJWTSecret {
		return errors.New("jwt_secret must be changed from the development default in prod")
	}
	if len(appCfg.JWTSecret) < minJWTSecretLen {
		logger.Warn("jwt_secret is shorter than recommended",
			zap.Int("length", len(appCfg.JWTSecret)),
			zap.Int("recommended", minJWTSecretLen))
	}

	if appCfg.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	if appCfg.InviteExpiry <= 0 {
		return errors.New("invite_expiry must be positive")
	}
	if appCfg.StorageLocalPath == "" {
		return errors.New("storage_local_path must be set")
	}

	for key, v := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		switch v {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}

	return nil
}
