package events

import (
	"net/http"

	eventstore "github.com/dalemusser/ecopirates/internal/app/store/events"
	userstore "github.com/dalemusser/ecopirates/internal/app/store/users"
	"github.com/dalemusser/ecopirates/internal/app/system/normalize"
	"github.com/dalemusser/ecopirates/internal/app/system/paging"
	"github.com/dalemusser/ecopirates/internal/app/system/respond"
	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves cleanup rallies.
type Handler struct {
	Events *eventstore.Store
	Users  *userstore.Store
	Log    *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(events *eventstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Events: events, Users: users, Log: logger}
}

// List handles GET /api/events?limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list events")
	defer cancel()

	rows, err := h.Events.List(ctx, p)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, paging.Trim(rows, p))
}

// Get handles GET /api/events/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := normalize.ObjectID("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get event")
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, e)
}

type createRequest struct {
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	WasteType         string  `json:"waste_type"`
	EstimatedWeightKg float64 `json:"estimated_weight_kg"`
	CreatorID         string  `json:"creator_id"`
}

// Create handles POST /api/events. The creator must be a registered player.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	creator, err := normalize.ObjectID("creator_id", req.CreatorID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create event")
	defer cancel()

	if _, err := h.Users.GetByID(ctx, creator); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ev, err := h.Events.Create(ctx, models.Event{
		Title:             req.Title,
		Description:       req.Description,
		Lat:               req.Lat,
		Lon:               req.Lng,
		WasteType:         req.WasteType,
		EstimatedWeightKg: req.EstimatedWeightKg,
		CreatorID:         creator,
	})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	h.Log.Info("event created",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("creator_id", creator.Hex()))
	respond.JSON(w, http.StatusCreated, ev)
}
