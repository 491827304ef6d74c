// internal/domain/models/dispute.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DisputeStatus is the lifecycle state of a dispute.
type DisputeStatus string

const (
	DisputePending    DisputeStatus = "pending"
	DisputeInProgress DisputeStatus = "in-progress"
	DisputeResolved   DisputeStatus = "resolved"
	DisputeCancelled  DisputeStatus = "cancelled"
	DisputeElevated   DisputeStatus = "elevated"
)

// Valid reports whether s is a known dispute status.
func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputePending, DisputeInProgress, DisputeResolved, DisputeCancelled, DisputeElevated:
		return true
	}
	return false
}

// Dispute is a case between a petitioner and an (optional) respondent.
//
// MediatorID is the party currently responsible for the case: the mediator
// while it is being mediated, the arbitrator once it has been elevated.
// OriginalMediatorID is stamped with the mediator on the first elevation and
// is never overwritten afterwards.
type Dispute struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title              string              `bson:"title" json:"title"`
	Description        string              `bson:"description" json:"description"`
	PetitionerID       primitive.ObjectID  `bson:"petitioner_id" json:"petitionerId"`
	RespondentID       *primitive.ObjectID `bson:"respondent_id,omitempty" json:"respondentId,omitempty"`
	MediatorID         *primitive.ObjectID `bson:"mediator_id,omitempty" json:"mediatorId,omitempty"`
	OriginalMediatorID *primitive.ObjectID `bson:"original_mediator_id,omitempty" json:"originalMediatorId,omitempty"`
	Status             DisputeStatus       `bson:"status" json:"status"`

	SchemaVersion int       `bson:"schema_version" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// Involves reports whether userID is a participant of the dispute.
func (d Dispute) Involves(userID primitive.ObjectID) bool {
	if d.PetitionerID == userID {
		return true
	}
	for _, id := range []*primitive.ObjectID{d.RespondentID, d.MediatorID, d.OriginalMediatorID} {
		if id != nil && *id == userID {
			return true
		}
	}
	return false
}

// Snapshot captures the tracked fields of d.
func (d Dispute) Snapshot() DisputeSnapshot {
	title, desc, status := d.Title, d.Description, d.Status
	return DisputeSnapshot{
		Title:       &title,
		Description: &desc,
		Status:      &status,
		MediatorID:  d.MediatorID,
	}
}
