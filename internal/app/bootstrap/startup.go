// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	userstore "github.com/dalemusser/ecopirates/internal/app/store/users"
	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	"github.com/dalemusser/ecopirates/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// bonusSweeper is started in Startup and stopped in Shutdown.
var bonusSweeper *workers.BonusExpiry

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	logger.Info("gameplay settings",
		zap.String("history_timezone", appCfg.HistoryTimezone),
		zap.Int("scan_rate_limit", appCfg.ScanRateLimit),
		zap.Duration("scan_rate_window", appCfg.ScanRateWindow),
		zap.Duration("quiz_bonus_duration", appCfg.QuizBonusDuration),
		zap.Duration("bonus_sweep_interval", appCfg.BonusSweepInterval),
		zap.String("audit_log_clan", appCfg.AuditLogClan),
		zap.String("audit_log_progress", appCfg.AuditLogProgress))

	if appCfg.BonusSweepInterval > 0 {
		bonusSweeper = workers.NewBonusExpiry(userstore.New(deps.MongoDatabase), logger, nil, appCfg.BonusSweepInterval)
		bonusSweeper.Start()
	}
	return nil
}
