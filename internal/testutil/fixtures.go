package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/disputehub/internal/app/system/authutil"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user with the given role. When password is
// non-empty it is hashed and stored.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, role models.Role, password string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		Email:         email,
		Role:          role,
		Status:        models.UserActive,
		SchemaVersion: models.SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if password != "" {
		hash, err := authutil.HashPassword(password)
		if err != nil {
			f.t.Fatalf("hash password: %v", err)
		}
		u.PasswordHash = hash
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

func (f *Fixtures) CreateIndividual(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleIndividual, "")
}

func (f *Fixtures) CreateOrganization(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleOrganization, "")
}

func (f *Fixtures) CreateMediator(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleMediator, "")
}

func (f *Fixtures) CreateArbitrator(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleArbitrator, "")
}

func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin, "")
}

// CreateDispute inserts a pending dispute. respondent and mediator may be nil.
func (f *Fixtures) CreateDispute(ctx context.Context, title string, petitioner primitive.ObjectID, respondent, mediator *primitive.ObjectID) models.Dispute {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Dispute{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Description:   title + " description",
		PetitionerID:  petitioner,
		RespondentID:  respondent,
		MediatorID:    mediator,
		Status:        models.DisputePending,
		SchemaVersion: models.SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("disputes").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test dispute: %v", err)
	}
	return d
}

// CreateDocument inserts a pending document record for a dispute.
func (f *Fixtures) CreateDocument(ctx context.Context, complaint, mediator, uploader primitive.ObjectID, path string) models.Document {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Document{
		ID:            primitive.NewObjectID(),
		Path:          path,
		FileName:      "evidence.pdf",
		Size:          42,
		ComplaintID:   complaint,
		MediatorID:    mediator,
		UploadedBy:    uploader,
		Status:        models.DocumentPending,
		SchemaVersion: models.SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("documents").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test document: %v", err)
	}
	return d
}

// CreateMeeting inserts a pending meeting between requester and mediator.
func (f *Fixtures) CreateMeeting(ctx context.Context, dispute, requester, mediator primitive.ObjectID, at time.Time) models.Meeting {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Meeting{
		ID:               primitive.NewObjectID(),
		DisputeID:        dispute,
		RequestedBy:      requester,
		MediatorID:       mediator,
		ProposedDateTime: at.UTC(),
		Status:           models.MeetingPending,
		Attendees:        []primitive.ObjectID{requester, mediator},
		SchemaVersion:    models.SchemaVersion,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("meetings").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test meeting: %v", err)
	}
	return m
}
