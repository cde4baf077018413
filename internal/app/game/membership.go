package game

import (
	"context"
	"fmt"

	"github.com/dalemusser/ecopirates/internal/app/system/normalize"
	"github.com/dalemusser/ecopirates/internal/app/system/txn"
	"github.com/dalemusser/ecopirates/internal/domain/clans"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LeaveOutcome is the clan as saved after a leave, plus who (if anyone)
// inherited leadership.
type LeaveOutcome struct {
	Clan       *models.Clan
	Promoted   *primitive.ObjectID
	Leaderless bool
}

// CreateClan founds a clan led by founderID. The founder must not already
// be in a clan; the clan name must be unused.
func (e *Engine) CreateClan(ctx context.Context, founderID primitive.ObjectID, in clans.FoundInput) (*models.Clan, error) {
	in.Name = normalize.Name(in.Name)
	in.Slogan = normalize.Name(in.Slogan)
	in.Faction = normalize.Faction(in.Faction)

	var created models.Clan
	err := e.run(ctx, func(ctx context.Context) error {
		founder, err := e.users.GetByID(ctx, founderID)
		if err != nil {
			return err
		}
		c, err := clans.Found(in, founder)
		if err != nil {
			return err
		}

		if err := e.users.SetClan(ctx, founderID, c.ID); err != nil {
			return err
		}
		if created, err = e.clans.Create(ctx, c); err != nil {
			e.undo("clear founder clan", e.users.ClearClan(ctx, founderID, c.ID))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.audit.ClanCreated(ctx, founderID, created.ID, created.Name, created.Faction)
	e.log.Info("clan created",
		zap.String("clan_id", created.ID.Hex()),
		zap.String("founder_id", founderID.Hex()),
		zap.String("faction", created.Faction))
	return &created, nil
}

// JoinClan adds userID to clanID and credits the user's wallet points to the
// clan counters. A user already in any clan gets errs.ErrAlreadyInClan.
func (e *Engine) JoinClan(ctx context.Context, userID, clanID primitive.ObjectID) (*models.Clan, error) {
	var (
		saved  *models.Clan
		points int
	)
	err := e.retry(ctx, "join_clan", func() error {
		return e.run(ctx, func(ctx context.Context) error {
			u, err := e.users.GetByID(ctx, userID)
			if err != nil {
				return err
			}
			c, err := e.clans.GetByID(ctx, clanID)
			if err != nil {
				return err
			}
			if err := clans.Join(c, u); err != nil {
				return err
			}

			if err := e.users.SetClan(ctx, userID, clanID); err != nil {
				return err
			}
			if err := e.clans.SaveRoster(ctx, c); err != nil {
				e.undo("clear joined clan", e.users.ClearClan(ctx, userID, clanID))
				return err
			}
			saved, points = c, u.WalletPoints
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	e.audit.ClanJoined(ctx, userID, clanID, points)
	return saved, nil
}

// LeaveClan removes userID from clanID, withdraws the user's wallet points
// from the clan counters and promotes the earliest remaining member if the
// leader left. A user not in clanID gets errs.ErrNotInClan.
func (e *Engine) LeaveClan(ctx context.Context, userID, clanID primitive.ObjectID) (LeaveOutcome, error) {
	var (
		out    LeaveOutcome
		points int
		leader *primitive.ObjectID
	)
	err := e.retry(ctx, "leave_clan", func() error {
		return e.run(ctx, func(ctx context.Context) error {
			u, err := e.users.GetByID(ctx, userID)
			if err != nil {
				return err
			}
			c, err := e.clans.GetByID(ctx, clanID)
			if err != nil {
				return err
			}
			prevLeader := c.LeaderID
			res, err := clans.Leave(c, u)
			if err != nil {
				return err
			}

			if err := e.users.ClearClan(ctx, userID, clanID); err != nil {
				return err
			}
			if err := e.clans.SaveRoster(ctx, c); err != nil {
				e.undo("restore left clan", e.users.SetClan(ctx, userID, clanID))
				return err
			}
			out = LeaveOutcome{Clan: c, Promoted: res.Promoted, Leaderless: res.Leaderless}
			points, leader = u.WalletPoints, prevLeader
			return nil
		})
	})
	if err != nil {
		return LeaveOutcome{}, err
	}

	e.audit.ClanLeft(ctx, userID, clanID, points, out.Leaderless)
	if out.Promoted != nil && leader != nil {
		e.audit.LeaderPromoted(ctx, clanID, *out.Promoted, *leader)
	}
	return out, nil
}

// run wraps fn in txn.Run and logs which path was taken.
func (e *Engine) run(ctx context.Context, fn func(ctx context.Context) error) error {
	transactional, err := txn.RunTracked(ctx, e.db, e.log, fn)
	if err != nil {
		return err
	}
	e.log.Debug("membership change committed", zap.Bool("transactional", transactional))
	return nil
}

// undo logs a failed compensation. Inside a transaction the abort already
// discards the user-side write, so a failure here only matters on
// standalone servers.
func (e *Engine) undo(what string, err error) {
	if err != nil {
		e.log.Error("compensation failed", zap.String("step", what), zap.Error(fmt.Errorf("%s: %w", what, err)))
	}
}
