package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"individual", RoleIndividual, true},
		{"  Mediator ", RoleMediator, true},
		{"ARBITRATOR", RoleArbitrator, true},
		{"superadmin", Role("superadmin"), false},
		{"", Role(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseRole(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDisputeInvolves(t *testing.T) {
	pet := primitive.NewObjectID()
	resp := primitive.NewObjectID()
	med := primitive.NewObjectID()
	orig := primitive.NewObjectID()
	d := Dispute{PetitionerID: pet, RespondentID: &resp, MediatorID: &med, OriginalMediatorID: &orig}

	for _, id := range []primitive.ObjectID{pet, resp, med, orig} {
		if !d.Involves(id) {
			t.Errorf("expected %s to be a participant", id.Hex())
		}
	}
	if d.Involves(primitive.NewObjectID()) {
		t.Error("stranger should not be a participant")
	}
}

func TestStatusValid(t *testing.T) {
	if !DisputeElevated.Valid() || DisputeStatus("closed").Valid() {
		t.Error("dispute status validation wrong")
	}
	if !DocumentApproved.Valid() || DocumentStatus("archived").Valid() {
		t.Error("document status validation wrong")
	}
	if !MeetingCompleted.Valid() || MeetingStatus("cancelled").Valid() {
		t.Error("meeting status validation wrong")
	}
}
