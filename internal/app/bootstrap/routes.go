// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/dalemusser/disputehub/internal/app/features/admin"
	auditlogfeature "github.com/dalemusser/disputehub/internal/app/features/auditlog"
	disputesfeature "github.com/dalemusser/disputehub/internal/app/features/disputes"
	documentsfeature "github.com/dalemusser/disputehub/internal/app/features/documents"
	healthfeature "github.com/dalemusser/disputehub/internal/app/features/health"
	loginfeature "github.com/dalemusser/disputehub/internal/app/features/login"
	meetingsfeature "github.com/dalemusser/disputehub/internal/app/features/meetings"
	profilefeature "github.com/dalemusser/disputehub/internal/app/features/profile"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. /health and /auth are public; every other group
// sits behind the bearer credential check, and each feature applies its
// own role policy per route.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respond.Fail(w, logger, respond.NotFound("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respond.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication. A nil verifier means google-auth trusts the body.
	var google loginfeature.IdentityVerifier
	if appCfg.GoogleClientID != "" {
		google = loginfeature.NewGoogleUserInfo()
	}
	loginHandler := loginfeature.NewHandler(db, deps.Tokens, deps.Invitations, deps.AuditLog, google, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	r.Group(func(pr chi.Router) {
		pr.Use(deps.Tokens.Authenticate)

		disputesHandler := disputesfeature.NewHandler(db, deps.Invitations, deps.Notifier, deps.AuditLog,
			appCfg.BaseURL, appCfg.MailFromName, logger)
		pr.Mount("/disputes", disputesfeature.Routes(disputesHandler))
		pr.Mount("/arbitrator", disputesfeature.ArbitratorRoutes(disputesHandler))

		documentsHandler := documentsfeature.NewHandler(db, deps.Storage, logger)
		pr.Mount("/documents", documentsfeature.Routes(documentsHandler))

		meetingsHandler := meetingsfeature.NewHandler(db, deps.Notifier, logger)
		pr.Mount("/meetings", meetingsfeature.Routes(meetingsHandler))

		profileHandler := profilefeature.NewHandler(db, deps.AuditLog, logger)
		pr.Mount("/users", profilefeature.Routes(profileHandler))

		adminHandler := adminfeature.NewHandler(db, deps.Invitations, deps.AuditLog, logger)
		pr.Mount("/admin", adminfeature.Routes(adminHandler))

		auditHandler := auditlogfeature.NewHandler(db, logger)
		pr.Mount("/audit", auditlogfeature.Routes(auditHandler))
	})

	return r, nil
}
