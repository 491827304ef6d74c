package disputes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/disputehub/internal/app/features/disputes"
	historystore "github.com/dalemusser/disputehub/internal/app/store/disputehistory"
	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	"github.com/dalemusser/disputehub/internal/app/system/mailer"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"github.com/dalemusser/disputehub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type captureQueue struct {
	mu     sync.Mutex
	emails []mailer.Email
}

func (q *captureQueue) Enqueue(e mailer.Email) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.emails = append(q.emails, e)
	return true
}

func newHandler(t *testing.T, db *mongo.Database) (*disputes.Handler, *captureQueue) {
	t.Helper()
	testutil.EnsureIndexes(t, db)
	q := &captureQueue{}
	h := disputes.NewHandler(db, invitationstore.New(db, 72*time.Hour), q, nil,
		"https://disputes.example", "DisputeHub", zap.NewNop())
	return h, q
}

// serve routes req through both mounts the way the app does.
func serve(h *disputes.Handler, u models.User, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Mount("/disputes", disputes.Routes(h))
	r.Mount("/arbitrator", disputes.ArbitratorRoutes(h))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(req, u))
	return rec
}

type disputeResp struct {
	ID                 primitive.ObjectID   `json:"id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Status             models.DisputeStatus `json:"status"`
	PetitionerID       primitive.ObjectID   `json:"petitionerId"`
	RespondentID       *primitive.ObjectID  `json:"respondentId"`
	MediatorID         *primitive.ObjectID  `json:"mediatorId"`
	OriginalMediatorID *primitive.ObjectID  `json:"originalMediatorId"`
	Petitioner         *models.Party        `json:"petitioner"`
	Respondent         *models.Party        `json:"respondent"`
}

func TestCreate_AlwaysPendingAndFiledByCaller(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	caller := fx.CreateIndividual(ctx, "Cal", "cal@x.com")
	other := fx.CreateIndividual(ctx, "Oth", "oth@x.com")

	rec := serve(h, caller, testutil.JSONRequest(http.MethodPost, "/disputes", map[string]string{
		"title":        "<b>Noise</b>",
		"description":  "Loud <script>alert(1)</script>music",
		"respondentId": other.ID.Hex(),
		"status":       "resolved",
		"petitionerId": other.ID.Hex(),
	}))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var d disputeResp
	testutil.DecodeJSON(t, rec, &d)
	if d.Status != models.DisputePending {
		t.Errorf("status = %q, want pending", d.Status)
	}
	if d.PetitionerID != caller.ID {
		t.Errorf("petitionerId = %s, want caller", d.PetitionerID.Hex())
	}
	if d.Title != "Noise" || strings.Contains(d.Description, "script") {
		t.Errorf("text not sanitized: %q / %q", d.Title, d.Description)
	}
	if d.Respondent == nil || d.Respondent.Email != "oth@x.com" {
		t.Errorf("respondent not joined: %+v", d.Respondent)
	}
}

func TestCreate_Rejects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	party := fx.CreateOrganization(ctx, "Org", "org@x.com")
	mediator := fx.CreateMediator(ctx, "Med", "med@x.com")

	tests := []struct {
		name   string
		user   models.User
		body   map[string]string
		status int
	}{
		{"mediator cannot file", mediator, map[string]string{"title": "t", "description": "d"}, http.StatusForbidden},
		{"unknown key", party, map[string]string{"title": "t", "description": "d", "mediatorId": mediator.ID.Hex()}, http.StatusBadRequest},
		{"missing title", party, map[string]string{"description": "d"}, http.StatusBadRequest},
		{"bad respondent id", party, map[string]string{"title": "t", "description": "d", "respondentId": "nope"}, http.StatusBadRequest},
		{"unknown respondent", party, map[string]string{"title": "t", "description": "d", "respondentId": primitive.NewObjectID().Hex()}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.user, testutil.JSONRequest(http.MethodPost, "/disputes", tt.body))
			testutil.AssertStatus(t, rec, tt.status)
		})
	}

	n, err := db.Collection("disputes").CountDocuments(ctx, bson.M{})
	if err != nil || n != 0 {
		t.Errorf("dispute count = %d (%v), want 0", n, err)
	}
}

func TestList_ScopedByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateIndividual(ctx, "Alice", "alice@x.com")
	bob := fx.CreateIndividual(ctx, "Bob", "bob@x.com")
	carol := fx.CreateOrganization(ctx, "Carol", "carol@x.com")
	med := fx.CreateMediator(ctx, "Med", "med@x.com")
	admin := fx.CreateAdmin(ctx, "Root", "root@x.com")

	d1 := fx.CreateDispute(ctx, "a v b", alice.ID, &bob.ID, &med.ID)
	fx.CreateDispute(ctx, "c only", carol.ID, nil, nil)

	// Bob only appears in the history of this one.
	d3 := fx.CreateDispute(ctx, "c v a", carol.ID, &alice.ID, nil)
	if _, err := historystore.New(db).Append(ctx, d3.ID, bob.ID, models.DisputeSnapshot{}, models.DisputeSnapshot{}); err != nil {
		t.Fatalf("append history: %v", err)
	}

	tests := []struct {
		name string
		user models.User
		want []primitive.ObjectID
	}{
		{"petitioner and respondent", alice, []primitive.ObjectID{d1.ID, d3.ID}},
		{"respondent only", bob, []primitive.ObjectID{d1.ID}},
		{"mediator", med, []primitive.ObjectID{d1.ID}},
		{"admin uses admin listing", admin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.user, httptest.NewRequest(http.MethodGet, "/disputes", nil))
			testutil.AssertStatus(t, rec, http.StatusOK)

			var got []disputeResp
			testutil.DecodeJSON(t, rec, &got)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d disputes, want %d", len(got), len(tt.want))
			}
			ids := map[primitive.ObjectID]bool{}
			for _, d := range got {
				ids[d.ID] = true
			}
			for _, id := range tt.want {
				if !ids[id] {
					t.Errorf("missing dispute %s", id.Hex())
				}
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pet := fx.CreateIndividual(ctx, "Pet", "pet@x.com")
	med := fx.CreateMediator(ctx, "Med", "med@x.com")
	d := fx.CreateDispute(ctx, "orig", pet.ID, nil, nil)
	path := "/disputes/" + d.ID.Hex()

	rec := serve(h, med, testutil.JSONRequest(http.MethodPatch, path, map[string]string{
		"status": "in-progress", "mediatorId": med.ID.Hex(),
	}))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var got disputeResp
	testutil.DecodeJSON(t, rec, &got)
	if got.Status != models.DisputeInProgress || got.MediatorID == nil || *got.MediatorID != med.ID {
		t.Errorf("unexpected dispute: %+v", got)
	}

	testutil.AssertStatus(t, serve(h, med, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"status": "closed"})), http.StatusBadRequest)
	testutil.AssertStatus(t, serve(h, med, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"petitionerId": med.ID.Hex()})), http.StatusBadRequest)
	testutil.AssertStatus(t, serve(h, pet, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"status": "resolved"})), http.StatusForbidden)
	testutil.AssertStatus(t, serve(h, med, testutil.JSONRequest(http.MethodPatch, "/disputes/"+primitive.NewObjectID().Hex(), map[string]string{"status": "resolved"})), http.StatusNotFound)

	n, err := db.Collection("dispute_history").CountDocuments(ctx, bson.M{})
	if err != nil || n != 0 {
		t.Errorf("plain update must not write history, got %d (%v)", n, err)
	}
}

func TestMediatorCreate_InvitesUnknownRespondent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, q := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateMediator(ctx, "A", "a@x.com")
	b := fx.CreateIndividual(ctx, "B", "b@x.com")

	rec := serve(h, a, testutil.JSONRequest(http.MethodPost, "/disputes/mediator-create", map[string]string{
		"title": "Lease", "description": "Deposit", "petitionerEmail": "b@x.com", "respondentEmail": "new@y.com",
	}))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var d disputeResp
	testutil.DecodeJSON(t, rec, &d)
	if d.PetitionerID != b.ID {
		t.Errorf("petitionerId = %s, want %s", d.PetitionerID.Hex(), b.ID.Hex())
	}
	if d.MediatorID == nil || *d.MediatorID != a.ID {
		t.Errorf("mediatorId = %v, want caller", d.MediatorID)
	}

	var respondent models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "new@y.com"}).Decode(&respondent); err != nil {
		t.Fatalf("respondent not created: %v", err)
	}
	if respondent.Status != models.UserInvited || respondent.HasPassword() || respondent.Name != disputes.PlaceholderName {
		t.Errorf("unexpected placeholder: %+v", respondent)
	}
	if d.RespondentID == nil || *d.RespondentID != respondent.ID {
		t.Errorf("respondentId = %v, want placeholder", d.RespondentID)
	}

	if len(q.emails) != 1 {
		t.Fatalf("queued %d emails, want 1", len(q.emails))
	}
	if q.emails[0].To != "new@y.com" || !strings.Contains(q.emails[0].TextBody, "https://disputes.example/claim?token=") {
		t.Errorf("unexpected invitation: %+v", q.emails[0])
	}

	n, err := db.Collection("invitations").CountDocuments(ctx, bson.M{"user_id": respondent.ID})
	if err != nil || n != 1 {
		t.Errorf("invitation count = %d (%v), want 1", n, err)
	}
}

func TestMediatorCreate_ExistingRespondentNotInvited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, q := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateMediator(ctx, "A", "a@x.com")
	fx.CreateIndividual(ctx, "B", "b@x.com")
	fx.CreateIndividual(ctx, "C", "c@x.com")

	rec := serve(h, a, testutil.JSONRequest(http.MethodPost, "/disputes/mediator-create", map[string]string{
		"title": "t", "description": "d", "petitionerEmail": "b@x.com", "respondentEmail": "c@x.com",
	}))
	testutil.AssertStatus(t, rec, http.StatusCreated)
	if len(q.emails) != 0 {
		t.Errorf("existing respondent should not be invited")
	}

	rec = serve(h, a, testutil.JSONRequest(http.MethodPost, "/disputes/mediator-create", map[string]string{
		"title": "t", "description": "d", "petitionerEmail": "ghost@x.com", "respondentEmail": "c@x.com",
	}))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestMediatorCreate_RejectsUnusableRespondentEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, q := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateMediator(ctx, "A", "a@x.com")
	fx.CreateIndividual(ctx, "B", "b@x.com")

	for _, email := range []string{"nobody@", "x@localhost", "Pat <pat@y.com>", "@y.com"} {
		t.Run(email, func(t *testing.T) {
			rec := serve(h, a, testutil.JSONRequest(http.MethodPost, "/disputes/mediator-create", map[string]string{
				"title": "Lease", "description": "Deposit", "petitionerEmail": "b@x.com", "respondentEmail": email,
			}))
			testutil.AssertStatus(t, rec, http.StatusBadRequest)
		})
	}

	if n, _ := db.Collection("users").CountDocuments(ctx, bson.M{"status": models.UserInvited}); n != 0 {
		t.Errorf("placeholder accounts created: %d", n)
	}
	if n, _ := db.Collection("invitations").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("invitations created: %d", n)
	}
	if n, _ := db.Collection("disputes").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("disputes created: %d", n)
	}
	if len(q.emails) != 0 {
		t.Errorf("queued %d emails, want 0", len(q.emails))
	}
}

func TestUpdateDetails_RecordsUnchangedFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	med := fx.CreateMediator(ctx, "Med", "med@x.com")
	d := fx.CreateDispute(ctx, "Same title", primitive.NewObjectID(), nil, &med.ID)

	rec := serve(h, med, testutil.JSONRequest(http.MethodPatch, "/disputes/"+d.ID.Hex()+"/details", map[string]string{
		"description": "new description",
	}))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rows, err := historystore.New(db).ListForDispute(ctx, d.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("history rows = %d (%v), want 1", len(rows), err)
	}
	row := rows[0]
	if row.UpdatedBy != med.ID {
		t.Errorf("updatedBy = %s", row.UpdatedBy.Hex())
	}
	if row.PreviousData.Title == nil || row.NewData.Title == nil || *row.PreviousData.Title != *row.NewData.Title {
		t.Errorf("unchanged title must be captured identically: %+v / %+v", row.PreviousData, row.NewData)
	}
	if *row.PreviousData.Description == *row.NewData.Description || *row.NewData.Description != "new description" {
		t.Errorf("description change not captured: %+v / %+v", row.PreviousData, row.NewData)
	}
	if *row.NewData.Status != models.DisputePending {
		t.Errorf("status should fall back to previous, got %q", *row.NewData.Status)
	}
}

func TestElevate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pet := fx.CreateIndividual(ctx, "Pet", "pet@x.com")
	med := fx.CreateMediator(ctx, "Med", "med@x.com")
	arb1 := fx.CreateArbitrator(ctx, "Arb One", "arb1@x.com")
	arb2 := fx.CreateArbitrator(ctx, "Arb Two", "arb2@x.com")
	d := fx.CreateDispute(ctx, "case", pet.ID, nil, &med.ID)
	path := "/disputes/" + d.ID.Hex() + "/elevate"

	t.Run("non-mediator forbidden", func(t *testing.T) {
		rec := serve(h, pet, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"arbitratorId": arb1.ID.Hex()}))
		testutil.AssertStatus(t, rec, http.StatusForbidden)

		var stored models.Dispute
		if err := db.Collection("disputes").FindOne(ctx, bson.M{"_id": d.ID}).Decode(&stored); err != nil {
			t.Fatalf("reload: %v", err)
		}
		if stored.Status != models.DisputePending {
			t.Errorf("status changed to %q", stored.Status)
		}
	})

	t.Run("target must be an arbitrator", func(t *testing.T) {
		rec := serve(h, med, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"arbitratorId": pet.ID.Hex()}))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		rec = serve(h, med, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"arbitratorId": primitive.NewObjectID().Hex()}))
		testutil.AssertStatus(t, rec, http.StatusNotFound)
		rec = serve(h, med, testutil.JSONRequest(http.MethodPatch, path, map[string]string{}))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("last call wins", func(t *testing.T) {
		for _, arb := range []models.User{arb1, arb2} {
			rec := serve(h, med, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"arbitratorId": arb.ID.Hex()}))
			testutil.AssertStatus(t, rec, http.StatusOK)
		}

		var stored models.Dispute
		if err := db.Collection("disputes").FindOne(ctx, bson.M{"_id": d.ID}).Decode(&stored); err != nil {
			t.Fatalf("reload: %v", err)
		}
		if stored.Status != models.DisputeElevated || stored.MediatorID == nil || *stored.MediatorID != arb2.ID {
			t.Errorf("unexpected dispute: %+v", stored)
		}
		if stored.OriginalMediatorID == nil || *stored.OriginalMediatorID != med.ID {
			t.Errorf("original mediator = %v, want %s", stored.OriginalMediatorID, med.ID.Hex())
		}

		rows, err := historystore.New(db).ListForDispute(ctx, d.ID)
		if err != nil || len(rows) != 2 {
			t.Fatalf("history rows = %d (%v), want 2", len(rows), err)
		}
		// newest first
		if *rows[0].NewData.MediatorID != arb2.ID || *rows[1].NewData.MediatorID != arb1.ID {
			t.Errorf("history not in call order")
		}
		if rows[1].PreviousData.Title != nil || rows[1].NewData.Description != nil {
			t.Errorf("elevation must capture only status and mediator: %+v", rows[1])
		}
		if *rows[1].PreviousData.MediatorID != med.ID {
			t.Errorf("first elevation previous mediator = %v", rows[1].PreviousData.MediatorID)
		}
	})
}

func TestElevate_AfterStatusSetByUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pet := fx.CreateIndividual(ctx, "Pet", "pet@x.com")
	med := fx.CreateMediator(ctx, "Med", "med@x.com")
	arb := fx.CreateArbitrator(ctx, "Arb", "arb@x.com")
	d := fx.CreateDispute(ctx, "case", pet.ID, nil, &med.ID)

	rec := serve(h, med, testutil.JSONRequest(http.MethodPatch, "/disputes/"+d.ID.Hex(), map[string]string{"status": "elevated"}))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = serve(h, med, testutil.JSONRequest(http.MethodPatch, "/disputes/"+d.ID.Hex()+"/elevate", map[string]string{"arbitratorId": arb.ID.Hex()}))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got disputeResp
	testutil.DecodeJSON(t, rec, &got)
	if got.OriginalMediatorID == nil || *got.OriginalMediatorID != med.ID {
		t.Errorf("original mediator = %v, want %s", got.OriginalMediatorID, med.ID.Hex())
	}

	rec = serve(h, med, httptest.NewRequest(http.MethodGet, "/disputes/"+d.ID.Hex()+"/history", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
}

func TestHistory_ParticipantsOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pet := fx.CreateIndividual(ctx, "Pet", "pet@x.com")
	med := fx.CreateMediator(ctx, "Med", "med@x.com")
	stranger := fx.CreateIndividual(ctx, "Str", "str@x.com")
	admin := fx.CreateAdmin(ctx, "Adm", "adm@x.com")
	d := fx.CreateDispute(ctx, "case", pet.ID, nil, &med.ID)

	hist := historystore.New(db)
	title := "case"
	if _, err := hist.Append(ctx, d.ID, med.ID, models.DisputeSnapshot{Title: &title}, models.DisputeSnapshot{Title: &title}); err != nil {
		t.Fatalf("append: %v", err)
	}
	path := "/disputes/" + d.ID.Hex() + "/history"

	testutil.AssertStatus(t, serve(h, stranger, httptest.NewRequest(http.MethodGet, path, nil)), http.StatusForbidden)
	testutil.AssertStatus(t, serve(h, admin, httptest.NewRequest(http.MethodGet, path, nil)), http.StatusOK)
	testutil.AssertStatus(t, serve(h, pet, httptest.NewRequest(http.MethodGet, "/disputes/"+primitive.NewObjectID().Hex()+"/history", nil)), http.StatusNotFound)

	rec := serve(h, pet, httptest.NewRequest(http.MethodGet, path, nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var rows []struct {
		UpdatedBy *models.Party `json:"updatedBy"`
	}
	testutil.DecodeJSON(t, rec, &rows)
	if len(rows) != 1 || rows[0].UpdatedBy == nil || rows[0].UpdatedBy.Email != "med@x.com" {
		t.Errorf("unexpected history: %+v", rows)
	}
}

func TestArbitrator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pet := fx.CreateIndividual(ctx, "Pet", "pet@x.com")
	arb := fx.CreateArbitrator(ctx, "Arb", "arb@x.com")
	otherArb := fx.CreateArbitrator(ctx, "Other", "other@x.com")
	d := fx.CreateDispute(ctx, "elevated case", pet.ID, nil, &arb.ID)
	if _, err := db.Collection("disputes").UpdateByID(ctx, d.ID, bson.M{"$set": bson.M{"status": models.DisputeElevated}}); err != nil {
		t.Fatalf("elevate fixture: %v", err)
	}
	fx.CreateDispute(ctx, "assigned but pending", pet.ID, nil, &arb.ID)

	rec := serve(h, arb, httptest.NewRequest(http.MethodGet, "/arbitrator/disputes", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var list []disputeResp
	testutil.DecodeJSON(t, rec, &list)
	if len(list) != 1 || list[0].ID != d.ID || list[0].Petitioner == nil {
		t.Fatalf("unexpected arbitrator list: %+v", list)
	}

	path := "/arbitrator/disputes/" + d.ID.Hex()
	testutil.AssertStatus(t, serve(h, otherArb, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"status": "resolved"})), http.StatusNotFound)
	testutil.AssertStatus(t, serve(h, pet, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"status": "resolved"})), http.StatusForbidden)
	testutil.AssertStatus(t, serve(h, arb, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"mediatorId": pet.ID.Hex()})), http.StatusBadRequest)

	rec = serve(h, arb, testutil.JSONRequest(http.MethodPatch, path, map[string]string{"status": "resolved"}))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rows, err := historystore.New(db).ListForDispute(ctx, d.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("history rows = %d (%v)", len(rows), err)
	}
	row := rows[0]
	if row.PreviousData.Title == nil || row.PreviousData.Description == nil || row.PreviousData.Status == nil {
		t.Errorf("arbitrator history must capture status, title, description: %+v", row.PreviousData)
	}
	if row.PreviousData.MediatorID != nil || row.NewData.MediatorID != nil {
		t.Errorf("arbitrator history must not capture mediator")
	}
	if *row.NewData.Status != models.DisputeResolved || *row.NewData.Title != *row.PreviousData.Title {
		t.Errorf("unexpected new data: %+v", row.NewData)
	}
}
