package documentstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no document record matches.
	ErrNotFound  = errors.New("document not found")
	errBadStatus = errors.New(`status must be "pending"|"approved"|"rejected"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

// Create records an uploaded file. New records are always pending.
func (s *Store) Create(ctx context.Context, d models.Document) (models.Document, error) {
	d.ID = primitive.NewObjectID()
	d.Status = models.DocumentPending
	now := time.Now().UTC()
	d.SchemaVersion = models.SchemaVersion
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Document{}, err
	}
	return d, nil
}

// GetByID loads a document record by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var d models.Document
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByComplaint returns every document attached to a dispute, oldest first.
func (s *Store) ListByComplaint(ctx context.Context, complaintID primitive.ObjectID) ([]models.Document, error) {
	return s.find(ctx, bson.M{"complaint_id": complaintID})
}

// ListByComplaints returns the documents of all the given disputes.
func (s *Store) ListByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) ([]models.Document, error) {
	if len(complaintIDs) == 0 {
		return []models.Document{}, nil
	}
	return s.find(ctx, bson.M{"complaint_id": bson.M{"$in": complaintIDs}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Document, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return out, nil
}

// SetStatus changes the review status and returns the updated record.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.DocumentStatus) (*models.Document, error) {
	if !status.Valid() {
		return nil, errBadStatus
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}

	var d models.Document
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
