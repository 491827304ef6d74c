package invitationstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SecretLength is the number of random bytes in a claim secret (64 hex chars).
	SecretLength = 32
	// DefaultExpiry is how long a claim token is valid.
	DefaultExpiry = 72 * time.Hour
	// BcryptCost for hashing claim secrets.
	BcryptCost = 10
)

// ErrNotFound is returned when a claim token is malformed, unknown, expired,
// already used, or does not match.
var ErrNotFound = errors.New("invitation not found or expired")

// Invitation lets a placeholder account set its own password.
type Invitation struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	UserID     primitive.ObjectID  `bson:"user_id"`
	Email      string              `bson:"email"`
	SecretHash string              `bson:"secret_hash"`
	DisputeID  *primitive.ObjectID `bson:"dispute_id,omitempty"`
	ExpiresAt  time.Time           `bson:"expires_at"` // TTL index field
	CreatedAt  time.Time           `bson:"created_at"`
}

// Store manages invitation claim tokens.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
	now    func() time.Time
}

// New creates a Store. If expiry is 0 or negative, DefaultExpiry is used.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("invitations"),
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry returns how long new claim tokens stay valid.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Create issues a claim token for userID, replacing any earlier invitation
// for the same user. The returned token is shown once and never stored.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, email string, disputeID *primitive.ObjectID) (string, error) {
	secret, err := generateSecret()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}

	if _, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return "", fmt.Errorf("clear old invitations: %w", err)
	}

	now := s.now().UTC()
	inv := Invitation{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Email:      email,
		SecretHash: string(hash),
		DisputeID:  disputeID,
		ExpiresAt:  now.Add(s.expiry),
		CreatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return "", fmt.Errorf("insert invitation: %w", err)
	}
	return inv.ID.Hex() + "." + secret, nil
}

// Claim validates token and consumes the invitation. A token can be claimed
// at most once, even under concurrent requests.
func (s *Store) Claim(ctx context.Context, token string) (*Invitation, error) {
	idHex, secret, ok := strings.Cut(token, ".")
	if !ok || secret == "" {
		return nil, ErrNotFound
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrNotFound
	}

	var inv Invitation
	err = s.c.FindOne(ctx, bson.M{
		"_id":        id,
		"expires_at": bson.M{"$gt": s.now().UTC()},
	}).Decode(&inv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(inv.SecretHash), []byte(secret)); err != nil {
		return nil, ErrNotFound
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": inv.ID})
	if err != nil {
		return nil, err
	}
	if res.DeletedCount == 0 {
		return nil, ErrNotFound
	}
	return &inv, nil
}

// DeleteByUser removes all invitations for a user.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// CleanupExpired removes invitations past their expiry. The TTL index does
// the same, but only on the server's own schedule.
func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": s.now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func generateSecret() (string, error) {
	b := make([]byte, SecretLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
