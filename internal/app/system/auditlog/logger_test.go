package auditlog_test

import (
	"testing"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/store/audit"
	"github.com/dalemusser/ecopirates/internal/app/system/auditlog"
	"github.com/dalemusser/ecopirates/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.ClanJoined(ctx, primitive.NewObjectID(), primitive.NewObjectID(), 10)
	logger.LevelUp(ctx, primitive.NewObjectID(), 1, 2)
}

func TestLogger_LogOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Uniform(auditlog.ModeLog))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	logger.ScanRewarded(ctx, user, 120, 50, 0.75, "Verre")

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 zap entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event_type"] != audit.EventScanRewarded {
		t.Errorf("event_type: got %v", fields["event_type"])
	}
	if fields["user_id"] != user.Hex() {
		t.Errorf("user_id: got %v, want %v", fields["user_id"], user.Hex())
	}
	if fields["detail_weight_kg"] != "0.75" {
		t.Errorf("detail_weight_kg: got %v", fields["detail_weight_kg"])
	}
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		mode    string
		wantDB  int
		wantZap int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			core, logs := observer.New(zapcore.InfoLevel)
			logger := auditlog.New(store, zap.New(core), auditlog.Uniform(tt.mode))
			ctx, cancel := testutil.TestContext()
			defer cancel()

			user := primitive.NewObjectID()
			clan := primitive.NewObjectID()
			logger.ClanCreated(ctx, user, clan, "Kraken", "Krakens")

			events, err := store.GetByClan(ctx, clan, 10)
			if err != nil {
				t.Fatalf("GetByClan failed: %v", err)
			}
			if len(events) != tt.wantDB {
				t.Errorf("db events: got %d, want %d", len(events), tt.wantDB)
			}
			if n := logs.FilterMessage("audit event").Len(); n != tt.wantZap {
				t.Errorf("zap entries: got %d, want %d", n, tt.wantZap)
			}
		})
	}
}

func TestLogger_PerCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Clan:     auditlog.ModeOff,
		Progress: auditlog.ModeDB,
	})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	logger.ClanLeft(ctx, user, primitive.NewObjectID(), 40, true)
	logger.LevelUp(ctx, user, 3, 4)
	logger.BonusGranted(ctx, user, 2, time.Now().Add(time.Minute))

	events, err := store.GetByUser(ctx, user, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 progress events, got %d", len(events))
	}
	for _, e := range events {
		if e.Category != audit.CategoryProgress {
			t.Errorf("unexpected category %q stored", e.Category)
		}
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidMode(m) {
			t.Errorf("ValidMode(%q): got false, want true", m)
		}
	}
	if auditlog.ValidMode("verbose") {
		t.Error("ValidMode(verbose): got true, want false")
	}
}
