package game

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/ledger"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/dalemusser/ecopirates/internal/domain/progression"
	"github.com/dalemusser/ecopirates/internal/domain/rewards"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ScanResult is the outcome of a validated scan.
type ScanResult struct {
	Reward       rewards.ScanReward
	Multiplier   int
	LevelsGained int
	User         *models.User
}

// XPResult is the outcome of an XP grant.
type XPResult struct {
	LevelsGained int
	User         *models.User
}

// Scan rewards userID for one collected item: coins (times any active quiz
// bonus), XP with one level-up ledger entry per level gained, lifetime
// stats and a "waste collected" ledger entry.
func (e *Engine) Scan(ctx context.Context, userID primitive.ObjectID) (ScanResult, error) {
	if e.limiter != nil && !e.limiter.Allow(userID.Hex()) {
		return ScanResult{}, errs.ErrRateLimited
	}

	// Drawn once so a retried write grants the same reward.
	base := e.rewards.Scan()

	var res ScanResult
	err := e.retry(ctx, "scan", func() error {
		u, err := e.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		mult := e.activeMultiplier(*u)
		reward := rewards.ApplyMultiplier(base, mult)

		progression.AddWallet(u, reward.Coins)
		startLevel := u.Level
		gained, err := progression.ApplyXP(u, reward.XP)
		if err != nil {
			return err
		}
		if err := e.addLevelUps(u, startLevel, gained); err != nil {
			return err
		}
		u.Stats.WeightKg = rewards.Round2(u.Stats.WeightKg + reward.WeightKg)
		u.Stats.Missions++
		if _, err := e.ledger.Add(u, ledger.ActionWasteCollected, fmt.Sprintf("+%d 💰", reward.Coins)); err != nil {
			return err
		}

		if err := e.users.SaveProgress(ctx, u); err != nil {
			return err
		}
		res = ScanResult{Reward: reward, Multiplier: mult, LevelsGained: gained, User: u}
		return nil
	})
	if err != nil {
		return ScanResult{}, err
	}

	e.audit.ScanRewarded(ctx, userID, res.Reward.Coins, res.Reward.XP, res.Reward.WeightKg, res.Reward.WasteType)
	if res.LevelsGained > 0 {
		e.audit.LevelUp(ctx, userID, res.User.Level-res.LevelsGained, res.User.Level)
	}
	e.log.Info("scan rewarded",
		zap.String("user_id", userID.Hex()),
		zap.Int("coins", res.Reward.Coins),
		zap.Int("multiplier", res.Multiplier),
		zap.Int("levels_gained", res.LevelsGained))
	return res, nil
}

// GrantXP adds amount XP to userID, recording a ledger entry per level gained.
func (e *Engine) GrantXP(ctx context.Context, userID primitive.ObjectID, amount int) (XPResult, error) {
	if err := progression.CheckXPGrant(amount); err != nil {
		return XPResult{}, err
	}

	var res XPResult
	err := e.retry(ctx, "grant_xp", func() error {
		u, err := e.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		startLevel := u.Level
		gained, err := progression.ApplyXP(u, amount)
		if err != nil {
			return err
		}
		if err := e.addLevelUps(u, startLevel, gained); err != nil {
			return err
		}
		if err := e.users.SaveProgress(ctx, u); err != nil {
			return err
		}
		res = XPResult{LevelsGained: gained, User: u}
		return nil
	})
	if err != nil {
		return XPResult{}, err
	}

	if res.LevelsGained > 0 {
		e.audit.LevelUp(ctx, userID, res.User.Level-res.LevelsGained, res.User.Level)
	}
	return res, nil
}

// AddHistory prepends a client-supplied ledger entry. Markup is stripped
// from both labels.
func (e *Engine) AddHistory(ctx context.Context, userID primitive.ObjectID, action, gain string) (models.HistoryItem, error) {
	action = htmlsanitize.Text(action)
	gain = htmlsanitize.Text(gain)
	if action == "" {
		return models.HistoryItem{}, errs.Invalid("history action is required")
	}

	var item models.HistoryItem
	err := e.retry(ctx, "add_history", func() error {
		u, err := e.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if item, err = e.ledger.Add(u, action, gain); err != nil {
			return err
		}
		return e.users.SaveProgress(ctx, u)
	})
	if err != nil {
		return models.HistoryItem{}, err
	}
	return item, nil
}

// ActivateBonus grants the quiz coin multiplier for the configured duration,
// starting now. Activating again restarts the window.
func (e *Engine) ActivateBonus(ctx context.Context, userID primitive.ObjectID) (models.Bonus, error) {
	b := models.Bonus{
		Multiplier: BonusMultiplier,
		Until:      e.clock.Now().Add(e.bonus).UTC().Truncate(time.Millisecond),
	}
	if err := e.users.SetBonus(ctx, userID, b); err != nil {
		return models.Bonus{}, err
	}
	e.audit.BonusGranted(ctx, userID, b.Multiplier, b.Until)
	return b, nil
}

// BonusRemaining is the time left on u's quiz bonus, zero when inactive.
func (e *Engine) BonusRemaining(u models.User) time.Duration {
	if u.Bonus.Multiplier <= 1 {
		return 0
	}
	return max(0, u.Bonus.Until.Sub(e.clock.Now()))
}

func (e *Engine) activeMultiplier(u models.User) int {
	if e.BonusRemaining(u) > 0 {
		return u.Bonus.Multiplier
	}
	return 1
}

// addLevelUps writes one "level up" entry per level crossed, oldest first,
// so the newest level ends up on top.
func (e *Engine) addLevelUps(u *models.User, startLevel, gained int) error {
	if startLevel < 1 {
		startLevel = 1
	}
	for i := 1; i <= gained; i++ {
		if _, err := e.ledger.Add(u, ledger.ActionLevelUp, fmt.Sprintf("Lvl %d 🆙", startLevel+i)); err != nil {
			return err
		}
	}
	return nil
}
