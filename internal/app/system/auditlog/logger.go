// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"strconv"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config fields.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Clan controls logging for clan lifecycle events (create, join, leave, succession).
	Clan string
	// Progress controls logging for level-ups, scan rewards and quiz bonuses.
	Progress string
}

// Uniform returns a Config that sends every category to mode.
func Uniform(mode string) Config {
	return Config{Clan: mode, Progress: mode}
}

// ValidMode reports whether mode is one of all, db, log or off.
func ValidMode(mode string) bool {
	switch mode {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and/or structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ClanID != nil {
		fields = append(fields, zap.String("clan_id", event.ClanID.Hex()))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	l.zapLog.Info("audit event", fields...)
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryClan:
		setting = l.config.Clan
	case audit.CategoryProgress:
		setting = l.config.Progress
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Clan Events ---

// ClanCreated logs the founding of a clan.
func (l *Logger) ClanCreated(ctx context.Context, userID, clanID primitive.ObjectID, name, faction string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryClan,
		EventType: audit.EventClanCreated,
		UserID:    &userID,
		ClanID:    &clanID,
		Details: map[string]string{
			"name":    name,
			"faction": faction,
		},
	})
}

// ClanJoined logs a user joining a clan with the points credited.
func (l *Logger) ClanJoined(ctx context.Context, userID, clanID primitive.ObjectID, points int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryClan,
		EventType: audit.EventClanJoined,
		UserID:    &userID,
		ClanID:    &clanID,
		Details: map[string]string{
			"points": strconv.Itoa(points),
		},
	})
}

// ClanLeft logs a user leaving a clan with the points withdrawn.
func (l *Logger) ClanLeft(ctx context.Context, userID, clanID primitive.ObjectID, points int, leaderless bool) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryClan,
		EventType: audit.EventClanLeft,
		UserID:    &userID,
		ClanID:    &clanID,
		Details: map[string]string{
			"points":     strconv.Itoa(points),
			"leaderless": strconv.FormatBool(leaderless),
		},
	})
}

// LeaderPromoted logs leadership passing to newLeader after the previous
// leader left.
func (l *Logger) LeaderPromoted(ctx context.Context, clanID, newLeader, previous primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryClan,
		EventType: audit.EventClanLeaderPromoted,
		UserID:    &newLeader,
		ClanID:    &clanID,
		Details: map[string]string{
			"previous_leader": previous.Hex(),
		},
	})
}

// --- Progress Events ---

// LevelUp logs a level change.
func (l *Logger) LevelUp(ctx context.Context, userID primitive.ObjectID, from, to int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryProgress,
		EventType: audit.EventLevelUp,
		UserID:    &userID,
		Details: map[string]string{
			"from": strconv.Itoa(from),
			"to":   strconv.Itoa(to),
		},
	})
}

// ScanRewarded logs the reward granted for a scan.
func (l *Logger) ScanRewarded(ctx context.Context, userID primitive.ObjectID, coins, xp int, weightKg float64, wasteType string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryProgress,
		EventType: audit.EventScanRewarded,
		UserID:    &userID,
		Details: map[string]string{
			"coins":      strconv.Itoa(coins),
			"xp":         strconv.Itoa(xp),
			"weight_kg":  strconv.FormatFloat(weightKg, 'f', 2, 64),
			"waste_type": wasteType,
		},
	})
}

// BonusGranted logs a quiz bonus activation.
func (l *Logger) BonusGranted(ctx context.Context, userID primitive.ObjectID, multiplier int, until time.Time) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryProgress,
		EventType: audit.EventBonusGranted,
		UserID:    &userID,
		Details: map[string]string{
			"multiplier": strconv.Itoa(multiplier),
			"until":      until.UTC().Format(time.RFC3339),
		},
	})
}
