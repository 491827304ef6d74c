// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentStatus is the review state of an uploaded document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// Valid reports whether s is a known document status.
func (s DocumentStatus) Valid() bool {
	return s == DocumentPending || s == DocumentApproved || s == DocumentRejected
}

// Document is a PDF attached to a dispute ("complaint").
type Document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Path        string             `bson:"pdf" json:"pdf"` // storage path of the file
	FileName    string             `bson:"file_name" json:"fileName"`
	Size        int64              `bson:"size" json:"size"`
	ComplaintID primitive.ObjectID `bson:"complaint_id" json:"complaintId"`
	MediatorID  primitive.ObjectID `bson:"mediator_id" json:"mediatorId"`
	UploadedBy  primitive.ObjectID `bson:"uploaded_by" json:"uploadedBy"`
	Status      DocumentStatus     `bson:"status" json:"status"`

	SchemaVersion int       `bson:"schema_version" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}
