// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/store/audit"
	"github.com/dalemusser/ecopirates/internal/app/system/normalize"
	"github.com/dalemusser/ecopirates/internal/app/system/paging"
	"github.com/dalemusser/ecopirates/internal/app/system/respond"
	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/waffle/pantry/query"
)

// dateLayout is accepted by the start and end filters in addition to RFC 3339.
const dateLayout = "2006-01-02"

// ServeList handles GET /api/audit.
//
// Filters: user_id, clan_id, category, event_type, start, end (RFC 3339 or
// YYYY-MM-DD; an end date covers the whole day), limit, offset.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	p := paging.Parse(r)
	filter.Limit = p.LimitPlusOne()
	filter.Offset = int64(p.Offset)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit list")
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	page := paging.Trim(events, p)
	resp := listResponse{
		Items:      make([]item, 0, len(page.Items)),
		Total:      total,
		HasNext:    page.HasNext,
		NextOffset: page.NextOffset,
	}
	for _, e := range page.Items {
		resp.Items = append(resp.Items, toItem(e))
	}
	respond.JSON(w, http.StatusOK, resp)
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	var f audit.QueryFilter
	if v := query.Get(r, "user_id"); v != "" {
		id, err := normalize.ObjectID("user_id", v)
		if err != nil {
			return f, err
		}
		f.UserID = &id
	}
	if v := query.Get(r, "clan_id"); v != "" {
		id, err := normalize.ObjectID("clan_id", v)
		if err != nil {
			return f, err
		}
		f.ClanID = &id
	}
	f.Category = strings.TrimSpace(query.Get(r, "category"))
	f.EventType = strings.TrimSpace(query.Get(r, "event_type"))

	if v := query.Get(r, "start"); v != "" {
		t, _, err := parseTime(v)
		if err != nil {
			return f, errs.Invalid("start must be RFC 3339 or YYYY-MM-DD")
		}
		f.StartTime = &t
	}
	if v := query.Get(r, "end"); v != "" {
		t, dateOnly, err := parseTime(v)
		if err != nil {
			return f, errs.Invalid("end must be RFC 3339 or YYYY-MM-DD")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.EndTime = &t
	}
	if f.StartTime != nil && f.EndTime != nil && f.EndTime.Before(*f.StartTime) {
		return f, errs.Invalid("end is before start")
	}
	return f, nil
}

// parseTime accepts RFC 3339 or a bare UTC date.
func parseTime(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err = time.Parse(dateLayout, s)
	return t, true, err
}

func toItem(e audit.Event) item {
	it := item{
		ID:        e.ID.Hex(),
		Timestamp: e.CreatedAt,
		Category:  e.Category,
		EventType: e.EventType,
		Details:   e.Details,
	}
	if e.UserID != nil {
		it.UserID = e.UserID.Hex()
	}
	if e.ClanID != nil {
		it.ClanID = e.ClanID.Hex()
	}
	return it
}
