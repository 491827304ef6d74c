// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/disputehub/internal/app/store/audit"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultLimit = 100
	maxLimit     = 500
	dateLayout   = "2006-01-02"
)

// eventView is one audit event with the actor and affected user resolved.
type eventView struct {
	ID            primitive.ObjectID  `json:"id"`
	Timestamp     time.Time           `json:"timestamp"`
	Category      string              `json:"category"`
	EventType     string              `json:"eventType"`
	User          *models.Party       `json:"user,omitempty"`
	Actor         *models.Party       `json:"actor,omitempty"`
	DisputeID     *primitive.ObjectID `json:"disputeId,omitempty"`
	IP            string              `json:"ip"`
	Success       bool                `json:"success"`
	FailureReason string              `json:"failureReason,omitempty"`
	Details       map[string]string   `json:"details,omitempty"`
}

func validCategory(c string) bool {
	return c == audit.CategoryAuth || c == audit.CategoryAdmin
}

func newEventView(e audit.Event, parties map[primitive.ObjectID]models.Party) eventView {
	v := eventView{
		ID:            e.ID,
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		DisputeID:     e.DisputeID,
		IP:            e.IP,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	v.User = lookup(parties, e.UserID)
	v.Actor = lookup(parties, e.ActorID)
	return v
}

func lookup(parties map[primitive.ObjectID]models.Party, id *primitive.ObjectID) *models.Party {
	if id == nil {
		return nil
	}
	if p, ok := parties[*id]; ok {
		return &p
	}
	// Deleted users keep their id in the trail.
	return &models.Party{ID: *id}
}
