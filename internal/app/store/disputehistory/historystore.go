package historystore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is append-only: it exposes no update or delete.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("dispute_history")}
}

// Append records a change made by updatedBy to a dispute.
func (s *Store) Append(ctx context.Context, disputeID, updatedBy primitive.ObjectID, prev, next models.DisputeSnapshot) (models.DisputeHistory, error) {
	h := models.DisputeHistory{
		ID:            primitive.NewObjectID(),
		DisputeID:     disputeID,
		UpdatedBy:     updatedBy,
		PreviousData:  prev,
		NewData:       next,
		SchemaVersion: models.SchemaVersion,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, h); err != nil {
		return models.DisputeHistory{}, err
	}
	return h, nil
}

// ListForDispute returns a dispute's history, newest first.
func (s *Store) ListForDispute(ctx context.Context, disputeID primitive.ObjectID) ([]models.DisputeHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"dispute_id": disputeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.DisputeHistory, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return out, nil
}
