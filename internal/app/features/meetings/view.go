package meetings

import (
	"context"

	"github.com/dalemusser/disputehub/internal/app/features/shared/views"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// meetingView is a meeting with its dispute embedded and the requester and
// mediator identities joined.
type meetingView struct {
	models.Meeting
	Dispute     *models.Dispute `json:"dispute,omitempty"`
	RequestedBy *models.Party   `json:"requestedBy,omitempty"`
	Mediator    *models.Party   `json:"mediator,omitempty"`
}

func (h *Handler) expand(ctx context.Context, list []models.Meeting) ([]meetingView, error) {
	disputeIDs := make([]primitive.ObjectID, 0, len(list))
	userIDs := make([]primitive.ObjectID, 0, len(list)*2)
	for _, m := range list {
		disputeIDs = append(disputeIDs, m.DisputeID)
		userIDs = append(userIDs, m.RequestedBy, m.MediatorID)
	}

	disputes, err := h.Disputes.ByIDs(ctx, disputeIDs)
	if err != nil {
		return nil, err
	}
	parties, err := h.Users.Parties(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]meetingView, 0, len(list))
	for _, m := range list {
		v := meetingView{
			Meeting:     m,
			RequestedBy: views.Lookup(parties, &m.RequestedBy),
			Mediator:    views.Lookup(parties, &m.MediatorID),
		}
		if d, ok := disputes[m.DisputeID]; ok {
			v.Dispute = &d
		}
		out = append(out, v)
	}
	return out, nil
}

func (h *Handler) expandOne(ctx context.Context, m models.Meeting) (meetingView, error) {
	out, err := h.expand(ctx, []models.Meeting{m})
	if err != nil {
		return meetingView{}, err
	}
	return out[0], nil
}
