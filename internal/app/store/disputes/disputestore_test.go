package disputestore_test

import (
	"errors"
	"testing"

	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"github.com/dalemusser/disputehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := disputestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	petitioner := primitive.NewObjectID()
	d, err := store.Create(ctx, models.Dispute{Title: "Fence", Description: "Too tall", PetitionerID: petitioner})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if d.ID.IsZero() || d.Status != models.DisputePending || d.CreatedAt.IsZero() {
		t.Errorf("unexpected dispute: %+v", d)
	}

	got, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PetitionerID != petitioner || got.RespondentID != nil {
		t.Errorf("unexpected stored dispute: %+v", got)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, disputestore.ErrNotFound) {
		t.Errorf("GetByID(missing): got %v, want ErrNotFound", err)
	}
}

func TestStore_ListScopes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := disputestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	mediator := primitive.NewObjectID()
	other := primitive.NewObjectID()

	d1 := fixtures.CreateDispute(ctx, "alice v bob", alice, &bob, &mediator)
	d2 := fixtures.CreateDispute(ctx, "bob v other", bob, &other, nil)
	fixtures.CreateDispute(ctx, "other only", other, nil, nil)

	list, err := store.ListForParty(ctx, bob)
	if err != nil {
		t.Fatalf("ListForParty failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("bob sees %d disputes, want 2", len(list))
	}
	seen := map[primitive.ObjectID]bool{}
	for _, d := range list {
		seen[d.ID] = true
	}
	if !seen[d1.ID] || !seen[d2.ID] {
		t.Errorf("unexpected disputes for bob: %v", seen)
	}

	list, err = store.ListByMediator(ctx, mediator)
	if err != nil || len(list) != 1 || list[0].ID != d1.ID {
		t.Errorf("ListByMediator = %v, %v", list, err)
	}

	all, err := store.ListAll(ctx)
	if err != nil || len(all) != 3 {
		t.Errorf("ListAll = %d, %v", len(all), err)
	}

	byID, err := store.ByIDs(ctx, []primitive.ObjectID{d1.ID, d2.ID})
	if err != nil || len(byID) != 2 {
		t.Errorf("ByIDs = %d, %v", len(byID), err)
	}
}

func TestStore_ElevatedScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := disputestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	arb := primitive.NewObjectID()
	d := fixtures.CreateDispute(ctx, "assigned but not elevated", primitive.NewObjectID(), nil, &arb)

	list, err := store.ListElevatedFor(ctx, arb)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no elevated disputes, got %d (%v)", len(list), err)
	}
	if _, err := store.GetElevatedFor(ctx, d.ID, arb); !errors.Is(err, disputestore.ErrNotFound) {
		t.Errorf("GetElevatedFor before elevation: got %v", err)
	}

	if _, err := store.Update(ctx, d.ID, bson.M{"status": models.DisputeElevated}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	list, err = store.ListElevatedFor(ctx, arb)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 elevated dispute, got %d (%v)", len(list), err)
	}
	if _, err := store.GetElevatedFor(ctx, d.ID, arb); err != nil {
		t.Errorf("GetElevatedFor after elevation: %v", err)
	}
	if _, err := store.GetElevatedFor(ctx, d.ID, primitive.NewObjectID()); !errors.Is(err, disputestore.ErrNotFound) {
		t.Errorf("GetElevatedFor(other arbitrator): got %v", err)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := disputestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fixtures.CreateDispute(ctx, "old", primitive.NewObjectID(), nil, nil)

	got, err := store.Update(ctx, d.ID, bson.M{"title": "new", "status": models.DisputeInProgress})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Title != "new" || got.Status != models.DisputeInProgress {
		t.Errorf("unexpected dispute after update: %+v", got)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), bson.M{"title": "x"}); !errors.Is(err, disputestore.ErrNotFound) {
		t.Errorf("Update(missing): got %v", err)
	}

	if err := store.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, d.ID); !errors.Is(err, disputestore.ErrNotFound) {
		t.Errorf("second Delete: got %v", err)
	}
}
