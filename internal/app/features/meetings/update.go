package meetings

import (
	"context"
	"errors"
	"net/http"

	meetingstore "github.com/dalemusser/disputehub/internal/app/store/meetings"
	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/disputehub/internal/app/system/mailer"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// HandleUpdate handles PATCH /meetings/{id}. meetingLink and notes are
// replaced when the key is present, so an empty string clears them.
// Every attendee is emailed the new status.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := patch.PathID(r, "id")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	f, err := patch.Decode(r.Body, "status", "meetingLink", "notes")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	s, err := f.Required("status")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	status := models.MeetingStatus(s)
	if !status.Valid() {
		respond.Fail(w, h.Log, respond.BadRequest("Invalid status"))
		return
	}

	set := bson.M{"status": status}
	if link, ok, err := f.String("meetingLink"); err != nil {
		respond.Fail(w, h.Log, err)
		return
	} else if ok {
		set["meeting_link"] = htmlsanitize.PlainText(link)
	}
	if notes, ok, err := f.String("notes"); err != nil {
		respond.Fail(w, h.Log, err)
		return
	} else if ok {
		set["notes"] = htmlsanitize.Sanitize(notes)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Meetings.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, meetingstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Meeting not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	v, err := h.expandOne(ctx, *m)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	h.notifyAttendees(ctx, v)
	respond.JSON(w, http.StatusOK, v)
}

func (h *Handler) notifyAttendees(ctx context.Context, v meetingView) {
	parties, err := h.Users.Parties(ctx, v.Attendees)
	if err != nil {
		h.Log.Error("failed to load meeting attendees", zap.String("meeting_id", v.ID.Hex()), zap.Error(err))
		return
	}

	title := ""
	if v.Dispute != nil {
		title = v.Dispute.Title
	}
	for _, attendee := range v.Attendees {
		p, ok := parties[attendee]
		if !ok || p.Email == "" {
			continue
		}
		email := mailer.BuildMeetingStatusEmail(p.Email, mailer.MeetingStatusEmailData{
			DisputeTitle: title,
			Status:       string(v.Status),
			ProposedAt:   v.ProposedDateTime,
			MeetingLink:  v.MeetingLink,
			Notes:        v.Notes,
		})
		if !h.Notify.Enqueue(email) {
			h.Log.Warn("meeting status email not queued",
				zap.String("meeting_id", v.ID.Hex()),
				zap.String("user_id", attendee.Hex()))
		}
	}
}
