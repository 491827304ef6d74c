// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/disputehub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema, logger); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("disputes", disputesSchema())
	ensure("dispute_history", disputeHistorySchema())
	ensure("documents", documentsSchema())
	ensure("meetings", meetingsSchema())
	ensure("invitations", invitationsSchema())

	// Written only through auditlog; no validator.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure name exists.
// Returns created==true only if it was actually created.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		logger.Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	logger.Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M, logger *zap.Logger) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	logger.Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

var objectID = bson.M{"bsonType": "objectId"}

func enumOf[T ~string](vals ...T) bson.M {
	a := make(bson.A, 0, len(vals))
	for _, v := range vals {
		a = append(a, string(v))
	}
	return bson.M{"enum": a}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "role", "status"},
			"properties": bson.M{
				"name":          nonBlank,
				"email":         nonBlank,
				"password_hash": bson.M{"bsonType": "string"},
				"google_id":     bson.M{"bsonType": "string"},
				"role":          enumOf(models.Roles...),
				"status":        enumOf(models.UserActive, models.UserInvited),
			},
		},
	}
}

func disputesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "petitioner_id", "status"},
			"properties": bson.M{
				"title":                bson.M{"bsonType": "string"},
				"description":          bson.M{"bsonType": "string"},
				"petitioner_id":        objectID,
				"respondent_id":        objectID,
				"mediator_id":          objectID,
				"original_mediator_id": objectID,
				"status": enumOf(models.DisputePending, models.DisputeInProgress,
					models.DisputeResolved, models.DisputeCancelled, models.DisputeElevated),
			},
		},
	}
}

func disputeHistorySchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"dispute_id", "updated_by", "previous_data", "new_data"},
			"properties": bson.M{
				"dispute_id":    objectID,
				"updated_by":    objectID,
				"previous_data": bson.M{"bsonType": "object"},
				"new_data":      bson.M{"bsonType": "object"},
			},
		},
	}
}

func documentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"pdf", "complaint_id", "mediator_id", "uploaded_by", "status"},
			"properties": bson.M{
				"pdf":          nonBlank,
				"complaint_id": objectID,
				"mediator_id":  objectID,
				"uploaded_by":  objectID,
				"status":       enumOf(models.DocumentPending, models.DocumentApproved, models.DocumentRejected),
			},
		},
	}
}

func meetingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"dispute_id", "requested_by", "mediator_id", "proposed_date_time", "status"},
			"properties": bson.M{
				"dispute_id":         objectID,
				"requested_by":       objectID,
				"mediator_id":        objectID,
				"proposed_date_time": bson.M{"bsonType": "date"},
				"status": enumOf(models.MeetingPending, models.MeetingAccepted,
					models.MeetingRejected, models.MeetingCompleted),
				"attendees": bson.M{"bsonType": "array", "items": objectID},
			},
		},
	}
}

func invitationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "secret_hash", "expires_at"},
			"properties": bson.M{
				"user_id":     objectID,
				"secret_hash": nonBlank,
				"expires_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}
