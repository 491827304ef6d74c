package admin_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/disputehub/internal/app/features/admin"
	"github.com/dalemusser/disputehub/internal/app/store/audit"
	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	"github.com/dalemusser/disputehub/internal/app/system/auditlog"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"github.com/dalemusser/disputehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db    *mongo.Database
	h     *admin.Handler
	fx    *testutil.Fixtures
	admin models.User
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := zap.NewNop()
	audits := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Admin: "db"})
	fx := testutil.NewFixtures(t, db)
	return env{
		db:    db,
		h:     admin.NewHandler(db, invitationstore.New(db, time.Hour), audits, logger),
		fx:    fx,
		admin: fx.CreateAdmin(ctx, "Root", "root@x.com"),
	}
}

func serve(h *admin.Handler, u models.User, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	admin.Routes(h).ServeHTTP(rec, testutil.WithUser(req, u))
	return rec
}

func auditCount(t *testing.T, db *mongo.Database, eventType string) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": eventType})
	if err != nil {
		t.Fatalf("count audit: %v", err)
	}
	return n
}

func TestAdminOnly(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	med := e.fx.CreateMediator(ctx, "Med", "med@x.com")

	for _, path := range []string{"/users", "/disputes"} {
		rec := serve(e.h, med, httptest.NewRequest(http.MethodGet, path, nil))
		testutil.AssertStatus(t, rec, http.StatusForbidden)
	}
}

func TestServeUsers_HidesPasswords(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreateUser(ctx, "Pat", "pat@x.com", models.RoleIndividual, "secret")

	rec := serve(e.h, e.admin, httptest.NewRequest(http.MethodGet, "/users", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if body := rec.Body.String(); strings.Contains(body, "$2a$") || strings.Contains(strings.ToLower(body), "password") {
		t.Errorf("user listing exposes password data: %s", body)
	}

	var users []models.User
	testutil.DecodeJSON(t, rec, &users)
	if len(users) != 2 {
		t.Errorf("got %d users, want 2", len(users))
	}
}

func TestUpdateUser(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	pat := e.fx.CreateIndividual(ctx, "Pat", "pat@x.com")
	e.fx.CreateIndividual(ctx, "Taken", "taken@x.com")
	path := "/users/" + pat.ID.Hex()

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"role is immutable", map[string]string{"role": "admin"}, http.StatusBadRequest},
		{"password not editable", map[string]string{"password": "x"}, http.StatusBadRequest},
		{"duplicate email", map[string]string{"email": "taken@x.com"}, http.StatusConflict},
		{"ok", map[string]string{"email": "Pat.New@X.com", "phone": "555"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e.h, e.admin, testutil.JSONRequest(http.MethodPatch, path, tt.body))
			testutil.AssertStatus(t, rec, tt.status)
		})
	}

	var stored models.User
	if err := e.db.Collection("users").FindOne(ctx, bson.M{"_id": pat.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Email != "pat.new@x.com" || stored.Phone != "555" || stored.Role != models.RoleIndividual {
		t.Errorf("unexpected stored user: %+v", stored)
	}
	if n := auditCount(t, e.db, audit.EventUserUpdated); n != 1 {
		t.Errorf("user_updated events = %d, want 1", n)
	}

	rec := serve(e.h, e.admin, testutil.JSONRequest(http.MethodPatch, "/users/"+primitive.NewObjectID().Hex(), map[string]string{"phone": "1"}))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestDeleteUser(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	pat := e.fx.CreateIndividual(ctx, "Pat", "pat@x.com")
	if _, err := e.h.Invitations.Create(ctx, pat.ID, pat.Email, nil); err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	testutil.AssertStatus(t, serve(e.h, e.admin, httptest.NewRequest(http.MethodDelete, "/users/"+e.admin.ID.Hex(), nil)), http.StatusBadRequest)
	testutil.AssertStatus(t, serve(e.h, e.admin, httptest.NewRequest(http.MethodDelete, "/users/"+pat.ID.Hex(), nil)), http.StatusOK)
	testutil.AssertStatus(t, serve(e.h, e.admin, httptest.NewRequest(http.MethodDelete, "/users/"+pat.ID.Hex(), nil)), http.StatusNotFound)

	if n, _ := e.db.Collection("users").CountDocuments(ctx, bson.M{"_id": pat.ID}); n != 0 {
		t.Error("user still present")
	}
	if n, _ := e.db.Collection("invitations").CountDocuments(ctx, bson.M{"user_id": pat.ID}); n != 0 {
		t.Error("invitations of deleted user remain")
	}
	if n := auditCount(t, e.db, audit.EventUserDeleted); n != 1 {
		t.Errorf("user_deleted events = %d, want 1", n)
	}
}

func TestDisputes(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	pat := e.fx.CreateIndividual(ctx, "Pat", "pat@x.com")
	first := e.fx.CreateDispute(ctx, "first", pat.ID, nil, nil)
	e.fx.CreateDispute(ctx, "second", pat.ID, nil, nil)

	rec := serve(e.h, e.admin, httptest.NewRequest(http.MethodGet, "/disputes", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var list []struct {
		ID         primitive.ObjectID `json:"id"`
		Petitioner *models.Party      `json:"petitioner"`
	}
	testutil.DecodeJSON(t, rec, &list)
	if len(list) != 2 || list[0].Petitioner == nil || list[0].Petitioner.Email != "pat@x.com" {
		t.Fatalf("unexpected disputes: %+v", list)
	}

	testutil.AssertStatus(t, serve(e.h, e.admin, httptest.NewRequest(http.MethodDelete, "/disputes/"+first.ID.Hex(), nil)), http.StatusOK)
	testutil.AssertStatus(t, serve(e.h, e.admin, httptest.NewRequest(http.MethodDelete, "/disputes/"+first.ID.Hex(), nil)), http.StatusNotFound)
	testutil.AssertStatus(t, serve(e.h, e.admin, httptest.NewRequest(http.MethodDelete, "/disputes/nope", nil)), http.StatusBadRequest)

	if n, _ := e.db.Collection("dispute_history").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Error("admin delete must not write history")
	}
	if n := auditCount(t, e.db, audit.EventDisputeDeleted); n != 1 {
		t.Errorf("dispute_deleted events = %d, want 1", n)
	}
}
