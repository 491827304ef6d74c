// internal/domain/models/disputehistory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DisputeSnapshot holds the subset of dispute fields a history entry
// captured. Fields an action did not capture are nil and omitted.
type DisputeSnapshot struct {
	Title       *string             `bson:"title,omitempty" json:"title,omitempty"`
	Description *string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      *DisputeStatus      `bson:"status,omitempty" json:"status,omitempty"`
	MediatorID  *primitive.ObjectID `bson:"mediator_id,omitempty" json:"mediatorId,omitempty"`
}

// DisputeHistory is an append-only audit entry for a dispute change.
type DisputeHistory struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisputeID    primitive.ObjectID `bson:"dispute_id" json:"disputeId"`
	UpdatedBy    primitive.ObjectID `bson:"updated_by" json:"updatedById"`
	PreviousData DisputeSnapshot    `bson:"previous_data" json:"previousData"`
	NewData      DisputeSnapshot    `bson:"new_data" json:"newData"`

	SchemaVersion int       `bson:"schema_version" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}
