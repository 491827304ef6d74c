// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchemaVersion is stamped on every record this service writes.
const SchemaVersion = 1

// User account statuses.
const (
	UserActive  = "active"
	UserInvited = "invited" // placeholder respondent awaiting an invitation claim
)

// User is every account in the system: parties, mediators, arbitrators and admins.
//
// NOTE:
//   - PasswordHash is empty for accounts created through google-auth and for
//     invited placeholders that have not claimed their invitation yet.
//   - GoogleID is unique when present (sparse index).
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password_hash,omitempty" json:"-"`
	GoogleID       string             `bson:"google_id,omitempty" json:"-"`
	ProfilePicture string             `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	Role           Role               `bson:"role" json:"role"`
	Status         string             `bson:"status" json:"status"`

	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Zip     string `bson:"zip,omitempty" json:"zip,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`

	SchemaVersion int       `bson:"schema_version" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasPassword reports whether the account can sign in with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Party is the public identity of a user as joined into other records.
type Party struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Phone string             `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Party returns the public identity of u.
func (u User) Party() Party {
	return Party{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}
