// Package clans serves the clan directory, membership changes and the
// faction war standings.
package clans

import (
	"net/http"
	"slices"

	"github.com/dalemusser/ecopirates/internal/app/game"
	clanstore "github.com/dalemusser/ecopirates/internal/app/store/clans"
	"github.com/dalemusser/ecopirates/internal/app/system/normalize"
	"github.com/dalemusser/ecopirates/internal/app/system/paging"
	"github.com/dalemusser/ecopirates/internal/app/system/respond"
	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	clanrules "github.com/dalemusser/ecopirates/internal/domain/clans"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Engine *game.Engine
	Clans  *clanstore.Store
	Log    *zap.Logger
}

func NewHandler(eng *game.Engine, clans *clanstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Engine: eng, Clans: clans, Log: logger}
}

// View is a clan as returned by the API. Rank is derived from total points.
type View struct {
	models.Clan
	Rank        string `json:"rank"`
	MemberCount int    `json:"member_count"`
}

func view(c *models.Clan) View {
	return View{Clan: *c, Rank: clanrules.Rank(c.TotalPoints), MemberCount: len(c.MemberIDs)}
}

// List handles GET /api/clans?faction=&limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	faction := normalize.Faction(query.Get(r, "faction"))
	if faction != "" && !slices.Contains(models.Factions, faction) {
		respond.Error(w, h.Log, errs.Invalid("unknown faction"))
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list clans")
	defer cancel()

	rows, err := h.Clans.List(ctx, faction, p)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	page := paging.Trim(rows, p)
	out := paging.Page[View]{Items: make([]View, 0, len(page.Items)), HasNext: page.HasNext, NextOffset: page.NextOffset}
	for i := range page.Items {
		out.Items = append(out.Items, view(&page.Items[i]))
	}
	respond.JSON(w, http.StatusOK, out)
}

type createRequest struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Slogan  string `json:"slogan"`
	Color   string `json:"color"`
	Faction string `json:"faction"`
}

// Create handles POST /api/clans. The caller (user_id) founds and leads it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	founder, err := normalize.ObjectID("user_id", req.UserID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create clan")
	defer cancel()

	c, err := h.Engine.CreateClan(ctx, founder, clanrules.FoundInput{
		Name:    req.Name,
		Slogan:  req.Slogan,
		Color:   req.Color,
		Faction: req.Faction,
	})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, view(c))
}

// WarStats handles GET /api/clans/war-stats.
func (h *Handler) WarStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "war stats")
	defer cancel()

	stats, err := h.Clans.WarStats(ctx)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"factions": stats})
}

// Get handles GET /api/clans/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := normalize.ObjectID("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get clan")
	defer cancel()

	c, err := h.Clans.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, view(c))
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

// memberIDs parses the clan id from the path and the user id from the body.
func memberIDs(r *http.Request) (clanID, userID primitive.ObjectID, err error) {
	if clanID, err = normalize.ObjectID("id", chi.URLParam(r, "id")); err != nil {
		return
	}
	var req memberRequest
	if err = respond.Decode(r, &req); err != nil {
		return
	}
	if req.UserID == "" {
		err = errs.Invalid("user_id is required")
		return
	}
	userID, err = normalize.ObjectID("user_id", req.UserID)
	return
}

// Join handles POST /api/clans/{id}/join.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	clanID, userID, err := memberIDs(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "join clan")
	defer cancel()

	c, err := h.Engine.JoinClan(ctx, userID, clanID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, view(c))
}

type leaveResponse struct {
	Clan       View    `json:"clan"`
	NewLeader  *string `json:"new_leader_id,omitempty"`
	Leaderless bool    `json:"leaderless"`
}

// Leave handles POST /api/clans/{id}/leave.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	clanID, userID, err := memberIDs(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "leave clan")
	defer cancel()

	out, err := h.Engine.LeaveClan(ctx, userID, clanID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	resp := leaveResponse{Clan: view(out.Clan), Leaderless: out.Leaderless}
	if out.Promoted != nil {
		hex := out.Promoted.Hex()
		resp.NewLeader = &hex
	}
	respond.JSON(w, http.StatusOK, resp)
}
