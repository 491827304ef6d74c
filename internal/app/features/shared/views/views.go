// internal/app/features/shared/views/views.go
package views

import (
	"context"

	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartyResolver resolves user ids to their public identities.
type PartyResolver interface {
	Parties(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Party, error)
}

// Dispute is a dispute with its parties joined in.
type Dispute struct {
	models.Dispute
	Petitioner       *models.Party `json:"petitioner,omitempty"`
	Respondent       *models.Party `json:"respondent,omitempty"`
	Mediator         *models.Party `json:"mediator,omitempty"`
	OriginalMediator *models.Party `json:"originalMediator,omitempty"`
}

// Disputes joins party identities into each dispute. Ids that no longer
// resolve (deleted users) are left unset.
func Disputes(ctx context.Context, users PartyResolver, list []models.Dispute) ([]Dispute, error) {
	ids := make([]primitive.ObjectID, 0, len(list)*3)
	for _, d := range list {
		ids = append(ids, d.PetitionerID)
		ids = append(ids, derefIDs(d.RespondentID, d.MediatorID, d.OriginalMediatorID)...)
	}
	parties, err := users.Parties(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Dispute, 0, len(list))
	for _, d := range list {
		out = append(out, Dispute{
			Dispute:          d,
			Petitioner:       lookup(parties, &d.PetitionerID),
			Respondent:       lookup(parties, d.RespondentID),
			Mediator:         lookup(parties, d.MediatorID),
			OriginalMediator: lookup(parties, d.OriginalMediatorID),
		})
	}
	return out, nil
}

// OneDispute is Disputes for a single record.
func OneDispute(ctx context.Context, users PartyResolver, d models.Dispute) (Dispute, error) {
	out, err := Disputes(ctx, users, []models.Dispute{d})
	if err != nil {
		return Dispute{}, err
	}
	return out[0], nil
}

// History is a history row with the acting user joined in.
type History struct {
	models.DisputeHistory
	UpdatedBy *models.Party `json:"updatedBy,omitempty"`
}

// Histories joins the acting user into each history row.
func Histories(ctx context.Context, users PartyResolver, list []models.DisputeHistory) ([]History, error) {
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, h := range list {
		ids = append(ids, h.UpdatedBy)
	}
	parties, err := users.Parties(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]History, 0, len(list))
	for _, h := range list {
		out = append(out, History{DisputeHistory: h, UpdatedBy: lookup(parties, &h.UpdatedBy)})
	}
	return out, nil
}

// Lookup returns the party for id, or nil when id is nil or unknown.
func Lookup(parties map[primitive.ObjectID]models.Party, id *primitive.ObjectID) *models.Party {
	return lookup(parties, id)
}

func lookup(parties map[primitive.ObjectID]models.Party, id *primitive.ObjectID) *models.Party {
	if id == nil {
		return nil
	}
	p, ok := parties[*id]
	if !ok {
		return nil
	}
	return &p
}

func derefIDs(ids ...*primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}
