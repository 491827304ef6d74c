package disputes

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/disputehub/internal/app/features/shared/views"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /disputes.
//
// status and petitionerId are accepted but ignored: a new dispute is always
// pending and always filed by the caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	f, err := patch.Decode(r.Body, "title", "description", "respondentId", "status", "petitionerId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	title, description, err := titleAndDescription(f)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respondentID, _, err := f.OptionalObjectID("respondentId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if respondentID != nil {
		if _, err := h.Users.GetByID(ctx, *respondentID); err != nil {
			if errors.Is(err, userstore.ErrNotFound) {
				respond.Fail(w, h.Log, respond.NotFound("Respondent not found"))
				return
			}
			respond.Fail(w, h.Log, err)
			return
		}
	}

	d, err := h.Disputes.Create(ctx, models.Dispute{
		Title:        title,
		Description:  description,
		PetitionerID: user.ID,
		RespondentID: respondentID,
		Status:       models.DisputePending,
	})
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	h.Log.Info("dispute created", zap.String("dispute_id", d.ID.Hex()), zap.String("petitioner_id", user.ID.Hex()))
	h.writeDispute(ctx, w, http.StatusCreated, d)
}

// titleAndDescription reads the two required text fields. Titles are plain
// text; descriptions keep safe markup.
func titleAndDescription(f patch.Fields) (string, string, error) {
	title, err := f.Required("title")
	if err != nil {
		return "", "", err
	}
	description, err := f.Required("description")
	if err != nil {
		return "", "", err
	}
	title = htmlsanitize.PlainText(title)
	description = htmlsanitize.Sanitize(description)
	if title == "" {
		return "", "", respond.BadRequest("title is required")
	}
	if description == "" {
		return "", "", respond.BadRequest("description is required")
	}
	return title, description, nil
}

func (h *Handler) writeDispute(ctx context.Context, w http.ResponseWriter, status int, d models.Dispute) {
	v, err := views.OneDispute(ctx, h.Users, d)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respond.JSON(w, status, v)
}
