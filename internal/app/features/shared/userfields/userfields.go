// Package userfields turns an allow-listed JSON patch of account fields
// into a Mongo $set.
package userfields

import (
	"github.com/dalemusser/disputehub/internal/app/system/authutil"
	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson"
)

// Profile is what a user may change on their own account.
var Profile = []string{"name", "phone", "address", "city", "state", "zip", "country", "profilePicture"}

// Admin is what an admin may change on any account. Role is never editable.
var Admin = append([]string{"email"}, Profile...)

var bsonKeys = map[string]string{
	"name":           "name",
	"email":          "email",
	"phone":          "phone",
	"address":        "address",
	"city":           "city",
	"state":          "state",
	"zip":            "zip",
	"country":        "country",
	"profilePicture": "profile_picture",
}

// Set builds the $set for the present keys. Values are stored as plain
// text; name and email cannot be cleared.
func Set(f patch.Fields) (bson.M, error) {
	set := bson.M{}
	for _, key := range f.Keys() {
		field, ok := bsonKeys[key]
		if !ok {
			return nil, respond.BadRequest("Field not allowed: " + key)
		}
		v, _, err := f.String(key)
		if err != nil {
			return nil, err
		}
		v = htmlsanitize.PlainText(v)

		switch key {
		case "name":
			if v == "" {
				return nil, respond.BadRequest("name cannot be empty")
			}
		case "email":
			if !authutil.IsValidEmail(v) {
				return nil, respond.BadRequest("email must be a valid address")
			}
		}
		set[field] = v
	}
	if len(set) == 0 {
		return nil, respond.BadRequest("No fields to update")
	}
	return set, nil
}
