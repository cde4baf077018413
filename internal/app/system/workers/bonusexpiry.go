// internal/app/system/workers/bonusexpiry.go
package workers

import (
	"context"
	"sync"
	"time"

	userstore "github.com/dalemusser/ecopirates/internal/app/store/users"
	"github.com/dalemusser/ecopirates/internal/app/system/clock"
	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// BonusExpiry is a background worker that resets quiz bonuses once they run
// out. Multipliers are already ignored after Until on read; the sweep keeps
// stored documents honest for exports and leaderboards.
type BonusExpiry struct {
	users    *userstore.Store
	log      *zap.Logger
	clk      clock.Clock
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewBonusExpiry creates the worker. A nil clock uses the system clock.
func NewBonusExpiry(users *userstore.Store, logger *zap.Logger, clk clock.Clock, interval time.Duration) *BonusExpiry {
	if clk == nil {
		clk = clock.System{}
	}
	return &BonusExpiry{
		users:    users,
		log:      logger,
		clk:      clk,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *BonusExpiry) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("bonus expiry worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *BonusExpiry) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("bonus expiry worker stopped")
	})
}

// RunOnce performs a single sweep and returns how many bonuses it reset.
func (w *BonusExpiry) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), w.log, "bonus expiry sweep")
	defer cancel()

	count, err := w.users.ExpireBonuses(ctx, w.clk.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		w.log.Info("expired quiz bonuses", zap.Int64("count", count))
	}
	return count, nil
}

func (w *BonusExpiry) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if _, err := w.RunOnce(context.Background()); err != nil {
				w.log.Error("failed to expire quiz bonuses", zap.Error(err))
			}
		}
	}
}
