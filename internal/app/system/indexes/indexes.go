// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called from EnsureSchema at startup. Each ensure* function is
idempotent. Errors are aggregated so every problem is visible and startup can
fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		name   string
		ensure func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"disputes", ensureDisputes},
		{"dispute_history", ensureDisputeHistory},
		{"documents", ensureDocuments},
		{"meetings", ensureMeetings},
		{"invitations", ensureInvitations},
		{"audit_events", ensureAuditEvents},
	}
	for _, s := range sets {
		if err := s.ensure(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool {
	return b != nil && *b
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet makes the collection carry every model in want. An index
// with the same keys is reused when its uniqueness matches, renamed when only
// the name differs, and dropped and recreated otherwise.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range want {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == boolVal(unique) && (name == "" || ex.Name == name) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isDuplicateKeyErr(err) && boolVal(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", boolVal(unique)),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_users_email").SetUnique(true),
		},
		{
			// sparse: password accounts carry no google_id
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetName("uniq_users_google_id").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_role_nameci_id"),
		},
	})
}

func ensureDisputes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("disputes"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "petitioner_id", Value: 1}},
			Options: options.Index().SetName("idx_disputes_petitioner"),
		},
		{
			Keys:    bson.D{{Key: "respondent_id", Value: 1}},
			Options: options.Index().SetName("idx_disputes_respondent"),
		},
		{
			// arbitrator listing filters on both
			Keys:    bson.D{{Key: "mediator_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_disputes_mediator_status"),
		},
	})
}

func ensureDisputeHistory(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("dispute_history"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dispute_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_history_dispute_created"),
		},
	})
}

func ensureDocuments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("documents"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "complaint_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_documents_complaint_created"),
		},
	})
}

func ensureMeetings(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("meetings"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mediator_id", Value: 1}, {Key: "proposed_date_time", Value: 1}},
			Options: options.Index().SetName("idx_meetings_mediator_proposed"),
		},
		{
			Keys:    bson.D{{Key: "attendees", Value: 1}, {Key: "proposed_date_time", Value: 1}},
			Options: options.Index().SetName("idx_meetings_attendees_proposed"),
		},
	})
}

func ensureInvitations(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("invitations"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_invitations_expires_ttl").SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_invitations_user"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_timestamp"),
		},
	})
}
