package disputestore

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

// ErrNotFound is returned when no dispute matches.
var ErrNotFound = errors.New("dispute not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("disputes")}
}

// Create inserts d. A zero status becomes pending.
func (s *Store) Create(ctx context.Context, d models.Dispute) (models.Dispute, error) {
	d.ID = primitive.NewObjectID()
	if d.Status == "" {
		d.Status = models.DisputePending
	}
	now := time.Now().UTC()
	d.SchemaVersion = models.SchemaVersion
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Dispute{}, err
	}
	return d, nil
}

// GetByID loads a dispute by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Dispute, error) {
	var d models.Dispute
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetElevatedFor loads a dispute only if it is elevated to arbitratorID.
func (s *Store) GetElevatedFor(ctx context.Context, id, arbitratorID primitive.ObjectID) (*models.Dispute, error) {
	var d models.Dispute
	err := s.c.FindOne(ctx, bson.M{
		"_id":         id,
		"status":      models.DisputeElevated,
		"mediator_id": arbitratorID,
	}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListForParty returns disputes where userID is petitioner or respondent.
func (s *Store) ListForParty(ctx context.Context, userID primitive.ObjectID) ([]models.Dispute, error) {
	return s.find(ctx, bson.M{"$or": []bson.M{
		{"petitioner_id": userID},
		{"respondent_id": userID},
	}})
}

// ListByMediator returns disputes whose responsible party is mediatorID.
func (s *Store) ListByMediator(ctx context.Context, mediatorID primitive.ObjectID) ([]models.Dispute, error) {
	return s.find(ctx, bson.M{"mediator_id": mediatorID})
}

// ListElevatedFor returns the disputes elevated to arbitratorID.
func (s *Store) ListElevatedFor(ctx context.Context, arbitratorID primitive.ObjectID) ([]models.Dispute, error) {
	return s.find(ctx, bson.M{"status": models.DisputeElevated, "mediator_id": arbitratorID})
}

// ListAll returns every dispute.
func (s *Store) ListAll(ctx context.Context) ([]models.Dispute, error) {
	return s.find(ctx, bson.M{})
}

// ByIDs loads the disputes with the given ids, keyed by id.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Dispute, error) {
	out := make(map[primitive.ObjectID]models.Dispute, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		out[d.ID] = d
	}
	return out, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Dispute, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Dispute, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode disputes: %w", err)
	}
	return out, nil
}

// Update applies set and returns the updated dispute.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Dispute, error) {
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d models.Dispute
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Delete removes a dispute. Returns ErrNotFound when nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
