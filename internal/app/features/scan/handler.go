package scan

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/game"
	"github.com/dalemusser/ecopirates/internal/app/system/normalize"
	"github.com/dalemusser/ecopirates/internal/app/system/respond"
	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/dalemusser/ecopirates/internal/domain/rewards"
	"go.uber.org/zap"
)

// Handler serves waste scan uploads.
type Handler struct {
	Engine *game.Engine
	Log    *zap.Logger
}

// NewHandler creates a scan handler.
func NewHandler(eng *game.Engine, logger *zap.Logger) *Handler {
	return &Handler{Engine: eng, Log: logger}
}

type uploadRequest struct {
	UserID string `json:"user_id"`
}

// uploadResponse echoes the reward and the player's new standing.
type uploadResponse struct {
	Reward       rewards.ScanReward   `json:"reward"`
	Multiplier   int                  `json:"multiplier"`
	LevelsGained int                  `json:"levels_gained"`
	WalletPoints int                  `json:"wallet_points"`
	XP           int                  `json:"xp"`
	Level        int                  `json:"level"`
	Stats        models.Stats         `json:"stats"`
	History      []models.HistoryItem `json:"history"`
}

// Upload handles POST /api/scan/upload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	userID, err := normalize.ObjectID("user_id", req.UserID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "scan upload")
	defer cancel()

	res, err := h.Engine.Scan(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrRateLimited) {
			_, wait := h.Engine.ScanQuota(userID)
			w.Header().Set("Retry-After", strconv.Itoa(int((wait+time.Second-1)/time.Second)))
		}
		respond.Error(w, h.Log, err)
		return
	}
	if remaining, _ := h.Engine.ScanQuota(userID); remaining >= 0 {
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	}
	u := res.User
	respond.JSON(w, http.StatusOK, uploadResponse{
		Reward:       res.Reward,
		Multiplier:   res.Multiplier,
		LevelsGained: res.LevelsGained,
		WalletPoints: u.WalletPoints,
		XP:           u.XP,
		Level:        u.Level,
		Stats:        u.Stats,
		History:      u.History,
	})
}
