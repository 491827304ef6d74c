package disputes

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// HandleElevate handles PATCH /disputes/{id}/elevate.
//
// The arbitrator becomes the responsible party. The mediator assigned when
// elevate is first called is kept in original_mediator_id, whatever the
// status was. Calling it again reassigns the arbitrator; the last call wins.
func (h *Handler) HandleElevate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	f, err := patch.Decode(r.Body, "arbitratorId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	if _, err := f.Required("arbitratorId"); err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	arbitratorID, _, err := f.ObjectID("arbitratorId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	arb, err := h.Users.GetByID(ctx, arbitratorID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Arbitrator not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}
	if arb.Role != models.RoleArbitrator {
		respond.Fail(w, h.Log, respond.BadRequest("User is not an arbitrator"))
		return
	}

	current, err := h.Disputes.GetByID(ctx, id)
	if err != nil {
		h.failLookup(w, err)
		return
	}

	elevated := models.DisputeElevated
	prevStatus := current.Status
	prev := models.DisputeSnapshot{Status: &prevStatus, MediatorID: current.MediatorID}
	next := models.DisputeSnapshot{Status: &elevated, MediatorID: &arbitratorID}

	set := bson.M{"status": elevated, "mediator_id": arbitratorID}
	if current.OriginalMediatorID == nil && current.MediatorID != nil {
		set["original_mediator_id"] = *current.MediatorID
	}

	updated, err := h.recordAndUpdate(ctx, id, user.ID, prev, next, set)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	h.AuditLog.DisputeElevated(ctx, r, user.ID, id, arbitratorID)
	h.writeDispute(ctx, w, http.StatusOK, *updated)
}
