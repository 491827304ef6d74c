package meetings

import (
	"context"
	"errors"
	"net/http"

	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/disputehub/internal/app/system/mailer"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleRequest handles POST /meetings. The mediator is notified by email;
// a notification that cannot be queued does not fail the request.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	f, err := patch.Decode(r.Body, "disputeId", "mediatorId", "proposedDateTime", "notes")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	for _, key := range []string{"disputeId", "mediatorId", "proposedDateTime"} {
		if _, err := f.Required(key); err != nil {
			respond.Fail(w, h.Log, err)
			return
		}
	}
	disputeID, _, err := f.ObjectID("disputeId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	mediatorID, _, err := f.ObjectID("mediatorId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	proposed, _, err := f.Time("proposedDateTime")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	notes, _, err := f.String("notes")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	dispute, err := h.Disputes.GetByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, disputestore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Dispute not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}
	mediator, err := h.Users.GetByIDAndRole(ctx, mediatorID, models.RoleMediator)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Mediator not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	m, err := h.Meetings.Create(ctx, models.Meeting{
		DisputeID:        disputeID,
		RequestedBy:      user.ID,
		MediatorID:       mediatorID,
		ProposedDateTime: proposed,
		Notes:            htmlsanitize.Sanitize(notes),
	})
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	email := mailer.BuildMeetingRequestEmail(mediator.Email, mailer.MeetingRequestEmailData{
		RequesterName: user.Name,
		DisputeTitle:  dispute.Title,
		ProposedAt:    m.ProposedDateTime,
		Notes:         m.Notes,
	})
	if !h.Notify.Enqueue(email) {
		h.Log.Warn("meeting request email not queued", zap.String("meeting_id", m.ID.Hex()))
	}

	v, err := h.expandOne(ctx, m)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, v)
}
