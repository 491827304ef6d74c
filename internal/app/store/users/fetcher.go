package userstore

import (
	"context"

	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

var fetchProjection = bson.M{"_id": 1, "name": 1, "email": 1, "role": 1}

// FetchUser returns nil if the user is not found or any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, id primitive.ObjectID) *auth.User {
	return f.fetch(ctx, bson.M{"_id": id})
}

// FetchUserByGoogleID resolves credentials issued through google-auth.
func (f *Fetcher) FetchUserByGoogleID(ctx context.Context, googleID string) *auth.User {
	if googleID == "" {
		return nil
	}
	return f.fetch(ctx, bson.M{"google_id": googleID})
}

func (f *Fetcher) fetch(ctx context.Context, filter bson.M) *auth.User {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	if err := f.users.FindOne(ctx, filter, options.FindOne().SetProjection(fetchProjection)).Decode(&u); err != nil {
		return nil
	}
	return &auth.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
