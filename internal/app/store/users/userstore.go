package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/disputehub/internal/app/system/normalize"
	"github.com/dalemusser/disputehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "individual"|"organization"|"mediator"|"admin"|"arbitrator"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = models.UserActive
	}
	if !u.Role.Valid() {
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.SchemaVersion = models.SchemaVersion
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByGoogleID looks up a user by the external identity id.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	if googleID == "" {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"google_id": googleID})
}

// GetByIDAndRole loads a user only if it carries the given role.
func (s *Store) GetByIDAndRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id, "role": role})
}

// SetPassword stores a new password hash and activates the account.
// A non-empty name replaces the placeholder name.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash, name string) error {
	set := bson.M{
		"password_hash": hash,
		"status":        models.UserActive,
		"updated_at":    time.Now().UTC(),
	}
	if name = normalize.Name(name); name != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFields applies set to the user and returns the updated record.
// name_ci and email normalization follow name and email automatically.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	if v, ok := set["name"].(string); ok {
		set["name"] = normalize.Name(v)
		set["name_ci"] = text.Fold(normalize.Name(v))
	}
	if v, ok := set["email"].(string); ok {
		set["email"] = normalize.Email(v)
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

// SetRole changes a user's role. Only the startup admin bootstrap uses this;
// no HTTP route mutates a role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	if !role.Valid() {
		return errBadRole
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}})
	return err
}

// Delete removes a user. Returns ErrNotFound when nothing was deleted.
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

// List returns every user ordered by name.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{})
}

// ListByRole returns the users holding role, ordered by name.
func (s *Store) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.find(ctx, bson.M{"role": role})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.User, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

// Parties resolves ids to their public identities. Unknown ids are absent
// from the result.
func (s *Store) Parties(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Party, error) {
	out := make(map[primitive.ObjectID]models.Party, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	proj := options.Find().SetProjection(bson.M{"_id": 1, "name": 1, "email": 1, "phone": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": uniqueIDs(ids)}}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var p models.Party
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cur.Err()
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
