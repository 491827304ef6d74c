package disputes

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/features/shared/views"
	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/authz"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
)

// ArbitratorRoutes is mounted at /arbitrator behind the credential check.
func ArbitratorRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(authz.Require(authz.ArbitrationList)).Get("/disputes", h.HandleArbitratorList)
	r.With(authz.Require(authz.ArbitrationUpdate)).Patch("/disputes/{id}", h.HandleArbitratorUpdate)
	return r
}

// HandleArbitratorList handles GET /arbitrator/disputes: the disputes
// elevated to the caller.
func (h *Handler) HandleArbitratorList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Disputes.ListElevatedFor(ctx, user.ID)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	out, err := views.Disputes(ctx, h.Users, list)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// HandleArbitratorUpdate handles PATCH /arbitrator/disputes/{id}.
//
// Only disputes elevated to the caller can be changed. The history row
// always captures status, title and description.
func (h *Handler) HandleArbitratorUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	f, err := patch.Decode(r.Body, "title", "description", "status")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	set, err := disputeSet(f)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Disputes.GetElevatedFor(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, disputestore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Dispute not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	prev := current.Snapshot()
	prev.MediatorID = nil
	next := applySnapshot(prev, set)

	updated, err := h.recordAndUpdate(ctx, id, user.ID, prev, next, bson.M{
		"title":       *next.Title,
		"description": *next.Description,
		"status":      *next.Status,
	})
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	h.writeDispute(ctx, w, http.StatusOK, *updated)
}
