package documents

import (
	"context"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/features/shared/views"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type documentView struct {
	models.Document
	Mediator *models.Party `json:"mediator,omitempty"`
}

type mediatorDocumentView struct {
	models.Document
	Complaint  *models.Dispute `json:"complaint,omitempty"`
	Petitioner *models.Party   `json:"petitioner,omitempty"`
	Respondent *models.Party   `json:"respondent,omitempty"`
}

// HandleListByComplaint handles GET /documents/complaint/{complaintId}.
func (h *Handler) HandleListByComplaint(w http.ResponseWriter, r *http.Request) {
	complaintID, err := patch.PathID(r, "complaintId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	docs, err := h.Documents.ListByComplaint(ctx, complaintID)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.MediatorID)
	}
	parties, err := h.Users.Parties(ctx, ids)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentView{Document: d, Mediator: views.Lookup(parties, &d.MediatorID)})
	}
	respond.JSON(w, http.StatusOK, out)
}

// HandleMediatorAll handles GET /documents/mediator/all: the documents of
// every dispute the caller mediates.
func (h *Handler) HandleMediatorAll(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	disputes, err := h.Disputes.ListByMediator(ctx, user.ID)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	byID := make(map[primitive.ObjectID]models.Dispute, len(disputes))
	complaintIDs := make([]primitive.ObjectID, 0, len(disputes))
	partyIDs := make([]primitive.ObjectID, 0, len(disputes)*2)
	for _, d := range disputes {
		byID[d.ID] = d
		complaintIDs = append(complaintIDs, d.ID)
		partyIDs = append(partyIDs, d.PetitionerID)
		if d.RespondentID != nil {
			partyIDs = append(partyIDs, *d.RespondentID)
		}
	}

	docs, err := h.Documents.ListByComplaints(ctx, complaintIDs)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	parties, err := h.Users.Parties(ctx, partyIDs)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	out := make([]mediatorDocumentView, 0, len(docs))
	for _, doc := range docs {
		v := mediatorDocumentView{Document: doc}
		if d, ok := byID[doc.ComplaintID]; ok {
			v.Complaint = &d
			v.Petitioner = views.Lookup(parties, &d.PetitionerID)
			v.Respondent = views.Lookup(parties, d.RespondentID)
		}
		out = append(out, v)
	}
	respond.JSON(w, http.StatusOK, out)
}
