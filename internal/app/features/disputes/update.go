package disputes

import (
	"context"
	"errors"
	"net/http"

	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// HandleUpdate handles PATCH /disputes/{id}: a partial update by a mediator
// or admin. No history is recorded.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	f, err := patch.Decode(r.Body, "title", "description", "status", "respondentId", "mediatorId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	set, err := disputeSet(f, "respondentId", "mediatorId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Disputes.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, disputestore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Dispute not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}
	h.writeDispute(ctx, w, http.StatusOK, *d)
}

var refFields = map[string]string{
	"respondentId": "respondent_id",
	"mediatorId":   "mediator_id",
}

// disputeSet builds a $set from the present text and status fields plus
// the named reference fields.
func disputeSet(f patch.Fields, refs ...string) (bson.M, error) {
	set := bson.M{}

	if s, ok, err := f.String("title"); err != nil {
		return nil, err
	} else if ok {
		if s = htmlsanitize.PlainText(s); s == "" {
			return nil, respond.BadRequest("title cannot be empty")
		}
		set["title"] = s
	}
	if s, ok, err := f.String("description"); err != nil {
		return nil, err
	} else if ok {
		set["description"] = htmlsanitize.Sanitize(s)
	}
	if s, ok, err := f.String("status"); err != nil {
		return nil, err
	} else if ok {
		st := models.DisputeStatus(s)
		if !st.Valid() {
			return nil, respond.BadRequest("Invalid status")
		}
		set["status"] = st
	}
	for _, key := range refs {
		oid, ok, err := f.OptionalObjectID(key)
		if err != nil {
			return nil, err
		}
		if ok {
			set[refFields[key]] = oid
		}
	}
	return set, nil
}
