package workers_test

import (
	"testing"
	"time"

	userstore "github.com/dalemusser/ecopirates/internal/app/store/users"
	"github.com/dalemusser/ecopirates/internal/app/system/clock"
	"github.com/dalemusser/ecopirates/internal/app/system/workers"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/dalemusser/ecopirates/internal/testutil"
	"go.uber.org/zap"
)

func TestBonusExpiry_RunOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	users := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	expired := fx.CreateUser(ctx, "Expired", 0)
	active := fx.CreateUser(ctx, "Active", 0)
	plain := fx.CreateUser(ctx, "Plain", 0)

	if err := users.SetBonus(ctx, expired.ID, models.Bonus{Multiplier: 2, Until: now.Add(-time.Minute)}); err != nil {
		t.Fatalf("SetBonus failed: %v", err)
	}
	if err := users.SetBonus(ctx, active.ID, models.Bonus{Multiplier: 2, Until: now.Add(5 * time.Minute)}); err != nil {
		t.Fatalf("SetBonus failed: %v", err)
	}

	w := workers.NewBonusExpiry(users, zap.NewNop(), clock.NewManual(now), time.Hour)
	count, err := w.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count: got %d, want 1", count)
	}

	tests := []struct {
		name string
		user models.User
		want int
	}{
		{"expired", expired, 1},
		{"active", active, 2},
		{"plain", plain, 1},
	}
	for _, tt := range tests {
		u, err := users.GetByID(ctx, tt.user.ID)
		if err != nil {
			t.Fatalf("%s: GetByID failed: %v", tt.name, err)
		}
		if u.Bonus.Multiplier != tt.want {
			t.Errorf("%s: multiplier got %d, want %d", tt.name, u.Bonus.Multiplier, tt.want)
		}
	}

	count, err = w.RunOnce(ctx)
	if err != nil || count != 0 {
		t.Errorf("second sweep: got count=%d err=%v, want 0 and nil", count, err)
	}
}

func TestBonusExpiry_StartStop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	w := workers.NewBonusExpiry(userstore.New(db), zap.NewNop(), nil, 10*time.Millisecond)
	w.Start()
	time.Sleep(30 * time.Millisecond)
	w.Stop()
	w.Stop()
}
