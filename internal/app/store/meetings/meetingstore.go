package meetingstore

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

// ErrNotFound is returned when no meeting matches.
var ErrNotFound = errors.New("meeting not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetings")}
}

// Create inserts a pending meeting whose attendees are the requester and
// the mediator.
func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	m.ID = primitive.NewObjectID()
	m.Status = models.MeetingPending
	m.ProposedDateTime = m.ProposedDateTime.UTC()
	m.Attendees = []primitive.ObjectID{m.RequestedBy, m.MediatorID}
	now := time.Now().UTC()
	m.SchemaVersion = models.SchemaVersion
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// GetByID loads a meeting by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Meeting, error) {
	var m models.Meeting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListForMediator returns meetings addressed to mediatorID.
func (s *Store) ListForMediator(ctx context.Context, mediatorID primitive.ObjectID) ([]models.Meeting, error) {
	return s.find(ctx, bson.M{"mediator_id": mediatorID})
}

// ListForAttendee returns meetings userID attends.
func (s *Store) ListForAttendee(ctx context.Context, userID primitive.ObjectID) ([]models.Meeting, error) {
	return s.find(ctx, bson.M{"attendees": userID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Meeting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "proposed_date_time", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Meeting, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode meetings: %w", err)
	}
	return out, nil
}

// Update applies set and returns the updated meeting.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Meeting, error) {
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Meeting
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
