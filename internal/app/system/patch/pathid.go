package patch

import (
	"net/http"
	"strings"

	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PathID parses the chi URL parameter key as an ObjectID.
func PathID(r *http.Request, key string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil {
		return primitive.NilObjectID, respond.BadRequest("Invalid " + key)
	}
	return oid, nil
}

// OptionalObjectID is ObjectID for reference fields that may be cleared:
// an empty string or null yields a nil pointer.
func (f Fields) OptionalObjectID(key string) (*primitive.ObjectID, bool, error) {
	s, ok, err := f.String(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if strings.TrimSpace(s) == "" {
		return nil, true, nil
	}
	oid, _, err := f.ObjectID(key)
	if err != nil {
		return nil, true, err
	}
	return &oid, true, nil
}
