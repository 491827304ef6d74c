// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetingStatus is the state of a meeting request.
type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "pending"
	MeetingAccepted  MeetingStatus = "accepted"
	MeetingRejected  MeetingStatus = "rejected"
	MeetingCompleted MeetingStatus = "completed"
)

// Valid reports whether s is a known meeting status.
func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingPending, MeetingAccepted, MeetingRejected, MeetingCompleted:
		return true
	}
	return false
}

// Meeting is a session a party requested with the dispute's mediator.
type Meeting struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	DisputeID        primitive.ObjectID   `bson:"dispute_id" json:"disputeId"`
	RequestedBy      primitive.ObjectID   `bson:"requested_by" json:"requestedById"`
	MediatorID       primitive.ObjectID   `bson:"mediator_id" json:"mediatorId"`
	ProposedDateTime time.Time            `bson:"proposed_date_time" json:"proposedDateTime"`
	Status           MeetingStatus        `bson:"status" json:"status"`
	MeetingLink      string               `bson:"meeting_link,omitempty" json:"meetingLink,omitempty"`
	Notes            string               `bson:"notes,omitempty" json:"notes,omitempty"`
	Attendees        []primitive.ObjectID `bson:"attendees" json:"attendees"`

	SchemaVersion int       `bson:"schema_version" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}
