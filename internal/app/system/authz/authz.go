// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/domain/models"
)

// Action names a guarded operation.
type Action string

const (
	DisputeCreate         Action = "dispute.create"
	DisputeList           Action = "dispute.list"
	DisputeUpdate         Action = "dispute.update"
	DisputeMediatorCreate Action = "dispute.mediator_create"
	DisputeUpdateDetails  Action = "dispute.update_details"
	DisputeElevate        Action = "dispute.elevate"
	DisputeHistory        Action = "dispute.history"

	ProfileRead   Action = "profile.read"
	ProfileUpdate Action = "profile.update"
	MediatorsList Action = "mediators.list"

	DocumentUpload      Action = "document.upload"
	DocumentList        Action = "document.list"
	DocumentReview      Action = "document.review"
	DocumentDownload    Action = "document.download"
	DocumentMediatorAll Action = "document.mediator_all"

	ArbitrationList   Action = "arbitration.list"
	ArbitrationUpdate Action = "arbitration.update"

	AdminUsers    Action = "admin.users"
	AdminDisputes Action = "admin.disputes"
	AdminAudit    Action = "admin.audit"

	MeetingRequest Action = "meeting.request"
	MeetingList    Action = "meeting.list"
	MeetingUpdate  Action = "meeting.update"
)

var (
	everyone = models.Roles
	parties  = []models.Role{models.RoleIndividual, models.RoleOrganization}
)

// capabilities is the single source of truth for which roles may perform
// which action. Actions missing from the table are denied to everyone.
var capabilities = map[Action][]models.Role{
	DisputeCreate:         parties,
	DisputeList:           everyone,
	DisputeUpdate:         {models.RoleMediator, models.RoleAdmin},
	DisputeMediatorCreate: {models.RoleMediator},
	DisputeUpdateDetails:  {models.RoleMediator},
	DisputeElevate:        {models.RoleMediator},
	DisputeHistory:        everyone,

	ProfileRead:   everyone,
	ProfileUpdate: everyone,
	MediatorsList: everyone,

	DocumentUpload:      {models.RoleOrganization},
	DocumentList:        everyone,
	DocumentReview:      {models.RoleMediator, models.RoleAdmin},
	DocumentDownload:    {models.RoleMediator, models.RoleAdmin, models.RoleArbitrator},
	DocumentMediatorAll: {models.RoleMediator},

	ArbitrationList:   {models.RoleArbitrator},
	ArbitrationUpdate: {models.RoleArbitrator},

	AdminUsers:    {models.RoleAdmin},
	AdminDisputes: {models.RoleAdmin},
	AdminAudit:    {models.RoleAdmin},

	MeetingRequest: parties,
	MeetingList:    everyone,
	MeetingUpdate:  {models.RoleMediator},
}

// Can reports whether role may perform action.
func Can(role models.Role, action Action) bool {
	for _, r := range capabilities[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Require guards a route with action. No user in context is a 401;
// a user whose role lacks the capability is a 403.
func Require(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				respond.Fail(w, nil, respond.Unauthorized("authentication required"))
				return
			}
			if !Can(u.Role, action) {
				respond.Fail(w, nil, respond.Forbidden("Access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
