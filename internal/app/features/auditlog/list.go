// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/disputehub/internal/app/store/audit"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /audit, newest first.
//
// Query parameters (all optional): category (auth|admin), event_type,
// user_id, dispute_id, start_date and end_date (YYYY-MM-DD, inclusive),
// limit (default 100, max 500). A malformed parameter is a 400.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	var ids []primitive.ObjectID
	for _, e := range events {
		if e.UserID != nil {
			ids = append(ids, *e.UserID)
		}
		if e.ActorID != nil {
			ids = append(ids, *e.ActorID)
		}
	}
	parties, err := h.Users.Parties(ctx, ids)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, newEventView(e, parties))
	}
	respond.JSON(w, http.StatusOK, out)
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	q := r.URL.Query()
	f := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     defaultLimit,
	}
	if f.Category != "" && !validCategory(f.Category) {
		return f, respond.BadRequest("category must be auth or admin")
	}

	var err error
	if f.UserID, err = optionalID(q.Get("user_id"), "user_id"); err != nil {
		return f, err
	}
	if f.DisputeID, err = optionalID(q.Get("dispute_id"), "dispute_id"); err != nil {
		return f, err
	}

	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, respond.BadRequest("start_date must be YYYY-MM-DD")
		}
		f.StartTime = &t
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, respond.BadRequest("end_date must be YYYY-MM-DD")
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &endOfDay
	}

	if s := strings.TrimSpace(q.Get("limit")); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return f, respond.BadRequest("limit must be a positive integer")
		}
		f.Limit = min(n, maxLimit)
	}
	return f, nil
}

func optionalID(s, name string) (*primitive.ObjectID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, respond.BadRequest(name + " must be a valid id")
	}
	return &id, nil
}
