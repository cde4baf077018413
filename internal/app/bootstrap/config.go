// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/game"
	"github.com/dalemusser/ecopirates/internal/app/system/auditlog"
	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the game backend.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, history_timezone, etc.
//   - Environment variables: ECOPIRATES_MONGO_URI, ECOPIRATES_SCAN_RATE_LIMIT, etc.
//   - Command-line flags: --mongo_uri, --scan_rate_limit, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "eco_pirates", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Gameplay
	{Name: "history_timezone", Default: "Europe/Paris", Desc: "IANA time zone for history entry dates"},
	{Name: "scan_rate_limit", Default: 10, Desc: "Max scans per user per scan_rate_window"},
	{Name: "scan_rate_window", Default: "1m", Desc: "Scan rate limit window (e.g., 30s, 1m)"},
	{Name: "quiz_bonus_duration", Default: "5m", Desc: "Duration of the quiz coin multiplier"},
	{Name: "bonus_sweep_interval", Default: "1m", Desc: "How often expired quiz bonuses are reset (0 disables)"},

	// Database timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for multi-document operations"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for connect and schema setup"},

	// Audit logging settings
	{Name: "audit_log", Default: "all", Desc: "Default audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_clan", Default: "", Desc: "Clan event logging (blank uses audit_log)"},
	{Name: "audit_log_progress", Default: "", Desc: "Progress event logging (blank uses audit_log)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, ECOPIRATES_* for app) and
// command-line flags with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ECOPIRATES", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	auditDefault := appValues.String("audit_log")
	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		HistoryTimezone:    appValues.String("history_timezone"),
		ScanRateLimit:      appValues.Int("scan_rate_limit"),
		ScanRateWindow:     appValues.Duration("scan_rate_window", time.Minute),
		QuizBonusDuration:  appValues.Duration("quiz_bonus_duration", game.DefaultBonusDuration),
		BonusSweepInterval: appValues.Duration("bonus_sweep_interval", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),

		AuditLogClan:     orDefault(appValues.String("audit_log_clan"), auditDefault),
		AuditLogProgress: orDefault(appValues.String("audit_log_progress"), auditDefault),
	}

	return coreCfg, appCfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if _, err := time.LoadLocation(appCfg.HistoryTimezone); err != nil {
		return fmt.Errorf("invalid history_timezone %q: %w", appCfg.HistoryTimezone, err)
	}

	if appCfg.ScanRateLimit <= 0 {
		return fmt.Errorf("scan_rate_limit must be positive, got %d", appCfg.ScanRateLimit)
	}
	if appCfg.ScanRateWindow <= 0 {
		return fmt.Errorf("scan_rate_window must be positive, got %s", appCfg.ScanRateWindow)
	}
	if appCfg.QuizBonusDuration <= 0 {
		return fmt.Errorf("quiz_bonus_duration must be positive, got %s", appCfg.QuizBonusDuration)
	}
	if appCfg.BonusSweepInterval < 0 {
		return fmt.Errorf("bonus_sweep_interval must not be negative, got %s", appCfg.BonusSweepInterval)
	}

	for name, d := range map[string]time.Duration{
		"timeout_short":  appCfg.TimeoutShort,
		"timeout_medium": appCfg.TimeoutMedium,
		"timeout_long":   appCfg.TimeoutLong,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	for name, mode := range map[string]string{
		"audit_log_clan":     appCfg.AuditLogClan,
		"audit_log_progress": appCfg.AuditLogProgress,
	} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, mode)
		}
	}

	return nil
}
