package profile_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/disputehub/internal/app/features/profile"
	"github.com/dalemusser/disputehub/internal/app/system/authutil"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"github.com/dalemusser/disputehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*profile.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return profile.NewHandler(db, nil, zap.NewNop()), db
}

func serve(h *profile.Handler, u models.User, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	profile.Routes(h).ServeHTTP(rec, testutil.WithUser(req, u))
	return rec
}

func reload(t *testing.T, db *mongo.Database, u models.User) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	var out models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": u.ID}).Decode(&out); err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return out
}

func TestServeProfile(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := testutil.NewFixtures(t, db).CreateUser(ctx, "Pat", "pat@x.com", models.RoleIndividual, "secret")

	rec := serve(h, u, httptest.NewRequest(http.MethodGet, "/profile", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got map[string]any
	testutil.DecodeJSON(t, rec, &got)
	if got["email"] != "pat@x.com" || got["role"] != "individual" {
		t.Errorf("unexpected profile: %v", got)
	}
	for _, hidden := range []string{"password", "passwordHash", "password_hash", "googleId"} {
		if _, ok := got[hidden]; ok {
			t.Errorf("profile exposes %q", hidden)
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := testutil.NewFixtures(t, db).CreateIndividual(ctx, "Pat", "pat@x.com")

	rec := serve(h, u, testutil.JSONRequest(http.MethodPatch, "/profile", map[string]string{
		"name": "Patricia", "city": "Lyon", "profilePicture": "https://img/p.png",
	}))
	testutil.AssertStatus(t, rec, http.StatusOK)

	stored := reload(t, db, u)
	if stored.Name != "Patricia" || stored.City != "Lyon" || stored.ProfilePicture != "https://img/p.png" {
		t.Errorf("unexpected stored user: %+v", stored)
	}
	if stored.NameCI != "patricia" {
		t.Errorf("name_ci = %q", stored.NameCI)
	}
}

func TestUpdateProfile_RejectsWholeRequest(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := testutil.NewFixtures(t, db).CreateIndividual(ctx, "Pat", "pat@x.com")

	for _, body := range []map[string]string{
		{"name": "X", "role": "admin"},
		{"name": "X", "email": "new@x.com"},
		{"name": ""},
	} {
		rec := serve(h, u, testutil.JSONRequest(http.MethodPatch, "/profile", body))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	}

	stored := reload(t, db, u)
	if stored.Name != "Pat" || stored.Role != models.RoleIndividual || stored.Email != "pat@x.com" {
		t.Errorf("rejected update was applied: %+v", stored)
	}
}

func TestChangePassword(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	u := fx.CreateUser(ctx, "Pat", "pat@x.com", models.RoleIndividual, "old-secret")
	federated := fx.CreateIndividual(ctx, "Fed", "fed@x.com")

	tests := []struct {
		name   string
		user   models.User
		body   map[string]string
		status int
	}{
		{"no password account", federated, map[string]string{"currentPassword": "x", "newPassword": "y"}, http.StatusBadRequest},
		{"wrong current", u, map[string]string{"currentPassword": "nope", "newPassword": "new-secret"}, http.StatusUnauthorized},
		{"same password", u, map[string]string{"currentPassword": "old-secret", "newPassword": "old-secret"}, http.StatusBadRequest},
		{"empty new", u, map[string]string{"currentPassword": "old-secret", "newPassword": ""}, http.StatusBadRequest},
		{"ok", u, map[string]string{"currentPassword": "old-secret", "newPassword": "new-secret"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.user, testutil.JSONRequest(http.MethodPost, "/profile/password", tt.body))
			testutil.AssertStatus(t, rec, tt.status)
		})
	}

	stored := reload(t, db, u)
	if !authutil.CheckPassword(stored.PasswordHash, "new-secret") {
		t.Error("password was not changed")
	}
}

func TestServeMediators(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	caller := fx.CreateOrganization(ctx, "Org", "org@x.com")
	fx.CreateMediator(ctx, "Zed", "zed@x.com")
	fx.CreateMediator(ctx, "Amy", "amy@x.com")
	fx.CreateArbitrator(ctx, "Arb", "arb@x.com")

	rec := serve(h, caller, httptest.NewRequest(http.MethodGet, "/mediators", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got) != 2 || got[0].Name != "Amy" || got[1].Name != "Zed" {
		t.Errorf("unexpected mediators: %+v", got)
	}
}
