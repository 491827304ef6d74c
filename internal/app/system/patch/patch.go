// Package patch decodes JSON object bodies against a per-action allow-list
// of mutable fields. A body naming any field outside the list is rejected
// as a whole; nothing is partially applied.
package patch

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fields is a decoded request body keyed by field name.
type Fields map[string]json.RawMessage

// Decode reads a JSON object from r and verifies every key is in allowed.
func Decode(r io.Reader, allowed ...string) (Fields, error) {
	var f Fields
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, respond.BadRequest("request body is required")
		}
		return nil, respond.BadRequest("request body must be a JSON object")
	}
	if f == nil {
		return nil, respond.BadRequest("request body must be a JSON object")
	}

	ok := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		ok[k] = struct{}{}
	}
	var unknown []string
	for k := range f {
		if _, found := ok[k]; !found {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, respond.BadRequest("Invalid updates: " + strings.Join(unknown, ", "))
	}
	return f, nil
}

// Has reports whether key was present in the body, even with an empty value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Keys returns the present keys in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the value of key. JSON null decodes as "".
func (f Fields) String(key string) (string, bool, error) {
	raw, ok := f[key]
	if !ok {
		return "", false, nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", true, respond.BadRequest(key + " must be a string")
	}
	if s == nil {
		return "", true, nil
	}
	return *s, true, nil
}

// ObjectID returns the value of key parsed as a hex ObjectID.
func (f Fields) ObjectID(key string) (primitive.ObjectID, bool, error) {
	s, ok, err := f.String(key)
	if err != nil || !ok {
		return primitive.NilObjectID, ok, err
	}
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, true, respond.BadRequest(key + " must be a valid id")
	}
	return oid, true, nil
}

// Time returns the value of key parsed as an RFC 3339 timestamp.
func (f Fields) Time(key string) (time.Time, bool, error) {
	s, ok, err := f.String(key)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, true, respond.BadRequest(key + " must be an RFC 3339 timestamp")
	}
	return t, true, nil
}

// Required returns the string value of key, failing when it is absent or blank.
func (f Fields) Required(key string) (string, error) {
	s, ok, err := f.String(key)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(s) == "" {
		return "", respond.BadRequest(key + " is required")
	}
	return s, nil
}
