package disputes

import (
	"context"
	"errors"
	"net/http"

	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/app/system/txn"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleUpdateDetails handles PATCH /disputes/{id}/details.
//
// The history row captures title, description, status and mediator before
// and after; omitted fields keep their previous value on both sides.
func (h *Handler) HandleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	f, err := patch.Decode(r.Body, "title", "description", "status", "mediatorId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	set, err := disputeSet(f, "mediatorId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Disputes.GetByID(ctx, id)
	if err != nil {
		h.failLookup(w, err)
		return
	}

	prev := current.Snapshot()
	next := applySnapshot(prev, set)
	full := bson.M{
		"title":       *next.Title,
		"description": *next.Description,
		"status":      *next.Status,
		"mediator_id": next.MediatorID,
	}

	updated, err := h.recordAndUpdate(ctx, id, user.ID, prev, next, full)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	h.writeDispute(ctx, w, http.StatusOK, *updated)
}

// applySnapshot returns prev with the fields present in set replaced.
func applySnapshot(prev models.DisputeSnapshot, set bson.M) models.DisputeSnapshot {
	next := prev
	if v, ok := set["title"].(string); ok {
		next.Title = &v
	}
	if v, ok := set["description"].(string); ok {
		next.Description = &v
	}
	if v, ok := set["status"].(models.DisputeStatus); ok {
		next.Status = &v
	}
	if v, ok := set["mediator_id"]; ok {
		next.MediatorID = v.(*primitive.ObjectID)
	}
	return next
}

// recordAndUpdate appends the history row and applies set as one unit of
// work, inside a transaction when the deployment supports one.
func (h *Handler) recordAndUpdate(ctx context.Context, id, actor primitive.ObjectID, prev, next models.DisputeSnapshot, set bson.M) (*models.Dispute, error) {
	var updated *models.Dispute
	err := txn.Run(ctx, h.Client, h.Log, func(ctx context.Context) error {
		if _, err := h.History.Append(ctx, id, actor, prev, next); err != nil {
			return err
		}
		d, err := h.Disputes.Update(ctx, id, set)
		if err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		if errors.Is(err, disputestore.ErrNotFound) {
			return nil, respond.NotFound("Dispute not found")
		}
		h.Log.Error("dispute update with history failed", zap.String("dispute_id", id.Hex()), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (h *Handler) failLookup(w http.ResponseWriter, err error) {
	if errors.Is(err, disputestore.ErrNotFound) {
		respond.Fail(w, h.Log, respond.NotFound("Dispute not found"))
		return
	}
	respond.Fail(w, h.Log, err)
}
