// Package game coordinates the domain rules with persistence: scans, XP
// grants, ledger entries, quiz bonuses and clan membership changes.
//
// Every multi-document change runs through txn.RunTracked. Outside a replica set
// the user-side write goes first and a failed clan-side write is undone, so
// a user's clan_id and the clan roster never disagree for long.
package game

import (
	"context"
	"errors"
	"time"

	clanstore "github.com/dalemusser/ecopirates/internal/app/store/clans"
	userstore "github.com/dalemusser/ecopirates/internal/app/store/users"
	"github.com/dalemusser/ecopirates/internal/app/system/auditlog"
	"github.com/dalemusser/ecopirates/internal/app/system/clock"
	"github.com/dalemusser/ecopirates/internal/app/system/ratelimit"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/ledger"
	"github.com/dalemusser/ecopirates/internal/domain/rewards"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxAttempts bounds retries of an optimistic write that lost a race.
const MaxAttempts = 3

// BonusMultiplier is the coin multiplier granted by the quiz.
const BonusMultiplier = 2

// DefaultBonusDuration applies when Deps.BonusDuration is zero.
const DefaultBonusDuration = 5 * time.Minute

// Deps are the collaborators of an Engine. Zero values get defaults:
// system clock, random rewards, local time zone, no rate limit, no audit.
type Deps struct {
	DB            *mongo.Database
	Log           *zap.Logger
	Audit         *auditlog.Logger
	Clock         clock.Clock
	Rewards       *rewards.Generator
	Location      *time.Location
	NewID         func() string
	ScanLimiter   *ratelimit.Limiter
	BonusDuration time.Duration
}

// Engine runs gameplay operations. It is safe for concurrent use.
type Engine struct {
	db      *mongo.Database
	users   *userstore.Store
	clans   *clanstore.Store
	log     *zap.Logger
	audit   *auditlog.Logger
	clock   clock.Clock
	rewards *rewards.Generator
	ledger  ledger.Ledger
	limiter *ratelimit.Limiter
	bonus   time.Duration
}

// New builds an Engine over d.DB.
func New(d Deps) *Engine {
	e := &Engine{
		db:      d.DB,
		users:   userstore.New(d.DB),
		clans:   clanstore.New(d.DB),
		log:     d.Log,
		audit:   d.Audit,
		clock:   d.Clock,
		rewards: d.Rewards,
		limiter: d.ScanLimiter,
		bonus:   d.BonusDuration,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.clock == nil {
		e.clock = clock.System{}
	}
	if e.rewards == nil {
		e.rewards = rewards.New(nil)
	}
	if e.bonus <= 0 {
		e.bonus = DefaultBonusDuration
	}
	e.ledger = ledger.Ledger{
		Now:      e.clock.Now,
		Location: d.Location,
		NewID:    d.NewID,
	}
	return e
}

// Now reports the engine's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// ScanQuota reports how many scans userID has left in the current window
// and how long until a throttled user may scan again. Without a limiter
// remaining is -1.
func (e *Engine) ScanQuota(userID primitive.ObjectID) (remaining int, retryAfter time.Duration) {
	if e.limiter == nil {
		return -1, 0
	}
	key := userID.Hex()
	return e.limiter.Remaining(key), e.limiter.RetryAfter(key)
}

// retry runs op until it succeeds, fails with something other than
// errs.ErrConflict, or MaxAttempts is reached.
func (e *Engine) retry(ctx context.Context, name string, op func() error) error {
	var err error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err = op(); !errors.Is(err, errs.ErrConflict) {
			return err
		}
		e.log.Debug("optimistic write conflict, retrying",
			zap.String("op", name),
			zap.Int("attempt", attempt))
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
