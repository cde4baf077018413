package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/system/timeouts"
	"github.com/dalemusser/ecopirates/internal/testutil"
	"go.uber.org/zap"
)

func TestStartupShutdown_BonusSweeper(t *testing.T) {
	t.Cleanup(timeouts.Reset)
	deps := DBDeps{MongoDatabase: testutil.SetupTestDB(t)}

	tests := []struct {
		name     string
		interval time.Duration
		running  bool
	}{
		{"enabled", 50 * time.Millisecond, true},
		{"disabled", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.BonusSweepInterval = tt.interval

			if err := Startup(context.Background(), nil, cfg, deps, zap.NewNop()); err != nil {
				t.Fatalf("Startup failed: %v", err)
			}
			if got := bonusSweeper != nil; got != tt.running {
				t.Errorf("sweeper running: got %v, want %v", got, tt.running)
			}
			if got := timeouts.Current().Medium; got != cfg.TimeoutMedium {
				t.Errorf("medium timeout: got %s, want %s", got, cfg.TimeoutMedium)
			}

			if err := Shutdown(context.Background(), nil, cfg, deps, zap.NewNop()); err != nil {
				t.Fatalf("Shutdown failed: %v", err)
			}
			if bonusSweeper != nil {
				t.Error("sweeper still set after Shutdown")
			}
		})
	}
}
