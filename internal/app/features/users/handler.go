// Package users serves player accounts: registration, profile, progression
// and the top-contributor leaderboard.
package users

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/game"
	clanstore "github.com/dalemusser/ecopirates/internal/app/store/clans"
	userstore "github.com/dalemusser/ecopirates/internal/app/store/users"
	"github.com/dalemusser/ecopirates/internal/app/system/normalize"
	"github.com/dalemusser/ecopirates/internal/app/system/respond"
	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/dalemusser/ecopirates/internal/domain/progression"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxTopContributors caps the "limit" parameter of the leaderboard.
const MaxTopContributors = 50

type Handler struct {
	Engine *game.Engine
	Users  *userstore.Store
	Clans  *clanstore.Store
	Log    *zap.Logger
}

func NewHandler(eng *game.Engine, users *userstore.Store, clans *clanstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Engine: eng, Users: users, Clans: clans, Log: logger}
}

// View is a user as returned by the API, with derived fields.
type View struct {
	models.User
	Title                 string `json:"title"`
	XPRequired            int    `json:"xp_required"`
	BonusRemainingSeconds int    `json:"bonus_remaining_seconds"`
}

func (h *Handler) view(u *models.User) View {
	return View{
		User:                  *u,
		Title:                 progression.Title(u.WalletPoints),
		XPRequired:            progression.XPRequired(max(u.Level, 1)),
		BonusRemainingSeconds: int(h.Engine.BonusRemaining(*u) / time.Second),
	}
}

type createRequest struct {
	Pseudo string `json:"pseudo"`
	Email  string `json:"email"`
}

// Create handles POST /api/users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create user")
	defer cancel()

	u, err := h.Users.Create(ctx, req.Pseudo, req.Email)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("pseudo", u.Pseudo))
	respond.JSON(w, http.StatusCreated, h.view(&u))
}

// contributor is one leaderboard row. Clan is omitted for players without
// one.
type contributor struct {
	ID           string           `json:"id"`
	Pseudo       string           `json:"pseudo"`
	Avatar       string           `json:"avatar"`
	WalletPoints int              `json:"wallet_points"`
	Level        int              `json:"level"`
	Title        string           `json:"title"`
	ClanID       string           `json:"clan_id,omitempty"`
	Clan         *contributorClan `json:"clan,omitempty"`
}

type contributorClan struct {
	Name     string `json:"name"`
	Faction  string `json:"faction"`
	ColorHex string `json:"color_hex"`
}

// TopContributors handles GET /api/users/top-contributors?limit=N.
func (h *Handler) TopContributors(w http.ResponseWriter, r *http.Request) {
	n := userstore.DefaultTopContributors
	if v, err := strconv.Atoi(query.Get(r, "limit")); err == nil && v > 0 {
		n = min(v, MaxTopContributors)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "top contributors")
	defer cancel()

	top, err := h.Users.TopContributors(ctx, n)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var clanIDs []primitive.ObjectID
	for _, u := range top {
		if u.InClan() {
			clanIDs = append(clanIDs, *u.ClanID)
		}
	}
	byID, err := h.Clans.GetByIDs(ctx, clanIDs)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	rows := make([]contributor, 0, len(top))
	for _, u := range top {
		row := contributor{
			ID:           u.ID.Hex(),
			Pseudo:       u.Pseudo,
			Avatar:       u.Avatar,
			WalletPoints: u.WalletPoints,
			Level:        u.Level,
			Title:        progression.Title(u.WalletPoints),
		}
		if u.InClan() {
			row.ClanID = u.ClanID.Hex()
			if c, ok := byID[*u.ClanID]; ok {
				row.Clan = &contributorClan{Name: c.Name, Faction: c.Faction, ColorHex: c.ColorHex}
			}
		}
		rows = append(rows, row)
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": rows})
}

// Get handles GET /api/users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := normalize.ObjectID("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, h.view(u))
}

// updateRequest lists the editable profile fields. Absent fields are kept.
type updateRequest struct {
	Avatar         *string  `json:"avatar"`
	WalletPoints   *int     `json:"wallet_points"`
	InventoryCards []string `json:"inventory_cards"`
}

// Update handles PUT /api/users/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := normalize.ObjectID("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var req updateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update user")
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, id, userstore.ProfileUpdate{
		Avatar:         req.Avatar,
		WalletPoints:   req.WalletPoints,
		InventoryCards: req.InventoryCards,
	})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, h.view(u))
}

type xpRequest struct {
	Amount int `json:"amount"`
}

type xpResponse struct {
	LevelsGained int  `json:"levels_gained"`
	User         View `json:"user"`
}

// GrantXP handles POST /api/users/{id}/xp.
func (h *Handler) GrantXP(w http.ResponseWriter, r *http.Request) {
	id, err := normalize.ObjectID("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var req xpRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "grant xp")
	defer cancel()

	res, err := h.Engine.GrantXP(ctx, id, req.Amount)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, xpResponse{LevelsGained: res.LevelsGained, User: h.view(res.User)})
}

type historyRequest struct {
	Action string `json:"action"`
	Gain   string `json:"gain"`
}

// AddHistory handles POST /api/users/{id}/history.
func (h *Handler) AddHistory(w http.ResponseWriter, r *http.Request) {
	id, err := normalize.ObjectID("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var req historyRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add history")
	defer cancel()

	item, err := h.Engine.AddHistory(ctx, id, req.Action, req.Gain)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, item)
}

type bonusResponse struct {
	Multiplier       int       `json:"multiplier"`
	Until            time.Time `json:"until"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

// ActivateBonus handles POST /api/users/{id}/bonus.
func (h *Handler) ActivateBonus(w http.ResponseWriter, r *http.Request) {
	id, err := normalize.ObjectID("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "activate bonus")
	defer cancel()

	b, err := h.Engine.ActivateBonus(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, bonusResponse{
		Multiplier:       b.Multiplier,
		Until:            b.Until,
		RemainingSeconds: int(b.Until.Sub(h.Engine.Now()) / time.Second),
	})
}
