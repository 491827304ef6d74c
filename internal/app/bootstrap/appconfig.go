// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// listener, TLS, logging level and request body limits; everything the
// dispute service itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer credentials
	JWTSecret string        // HMAC signing secret
	TokenTTL  time.Duration // lifetime of an issued credential

	// Document storage
	StorageLocalPath string // root directory for uploaded PDFs
	StorageLocalURL  string // URL prefix of the local store

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string // also used as the site name in email copy

	// Base URL for claim links
	BaseURL string

	// Invitation tokens
	InviteExpiry time.Duration

	// Notification worker
	NotifyQueueSize   int
	NotifyMaxAttempts int

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Google sign-in. Empty means google-auth trusts the request body.
	GoogleClientID string

	// Admin bootstrap (promotes/creates this user on startup)
	AdminEmail string
}
