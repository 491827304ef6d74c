package disputes

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/authutil"
	"github.com/dalemusser/disputehub/internal/app/system/mailer"
	"github.com/dalemusser/disputehub/internal/app/system/normalize"
	"github.com/dalemusser/disputehub/internal/app/system/patch"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.uber.org/zap"
)

// PlaceholderName is the name given to respondents created by invitation.
const PlaceholderName = "Pending Registration"

// HandleMediatorCreate handles POST /disputes/mediator-create.
//
// The petitioner must already have an account. An unknown respondent gets a
// placeholder account and an invitation email with a one-time claim link.
func (h *Handler) HandleMediatorCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	f, err := patch.Decode(r.Body, "title", "description", "petitionerEmail", "respondentEmail")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	title, description, err := titleAndDescription(f)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	petitionerEmail, err := f.Required("petitionerEmail")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respondentEmail, err := f.Required("respondentEmail")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	respondentEmail = normalize.Email(respondentEmail)
	if !authutil.IsValidEmail(respondentEmail) {
		respond.Fail(w, h.Log, respond.BadRequest("respondentEmail must be an email address"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	petitioner, err := h.Users.GetByEmail(ctx, petitionerEmail)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Petitioner not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	respondent, err := h.findOrCreateRespondent(ctx, respondentEmail)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	d, err := h.Disputes.Create(ctx, models.Dispute{
		Title:        title,
		Description:  description,
		PetitionerID: petitioner.ID,
		RespondentID: &respondent.ID,
		MediatorID:   &user.ID,
		Status:       models.DisputePending,
	})
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	if respondent.Status == models.UserInvited {
		h.invite(ctx, r, user, respondent, d)
	}

	h.Log.Info("dispute created by mediator",
		zap.String("dispute_id", d.ID.Hex()),
		zap.String("mediator_id", user.ID.Hex()))
	h.writeDispute(ctx, w, http.StatusCreated, d)
}

func (h *Handler) findOrCreateRespondent(ctx context.Context, email string) (*models.User, error) {
	u, err := h.Users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return nil, err
	}

	created, err := h.Users.Create(ctx, models.User{
		Name:   PlaceholderName,
		Email:  email,
		Role:   models.RoleIndividual,
		Status: models.UserInvited,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Lost a race with a concurrent registration.
		return h.Users.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// invite issues a claim token and queues the invitation email. Failures are
// logged; the dispute has already been created.
func (h *Handler) invite(ctx context.Context, r *http.Request, mediator *auth.User, respondent *models.User, d models.Dispute) {
	token, err := h.Invitations.Create(ctx, respondent.ID, respondent.Email, &d.ID)
	if err != nil {
		h.Log.Error("failed to create invitation",
			zap.String("user_id", respondent.ID.Hex()),
			zap.String("dispute_id", d.ID.Hex()),
			zap.Error(err))
		return
	}

	link := strings.TrimRight(h.BaseURL, "/") + "/claim?token=" + url.QueryEscape(token)
	email := mailer.BuildInvitationEmail(respondent.Email, mailer.InvitationEmailData{
		SiteName:     h.SiteName,
		MediatorName: mediator.Name,
		DisputeTitle: d.Title,
		ClaimLink:    link,
		ExpiresIn:    mailer.FormatExpiry(h.Invitations.Expiry()),
	})
	if !h.Notify.Enqueue(email) {
		h.Log.Warn("invitation email not queued", zap.String("user_id", respondent.ID.Hex()))
	}

	h.AuditLog.InvitationIssued(ctx, r, mediator.ID, respondent.ID, d.ID)
}
