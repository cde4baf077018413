package ratelimit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/system/clock"
	"github.com/dalemusser/ecopirates/internal/app/system/ratelimit"
)

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	l := ratelimit.New(3, time.Minute, clk)

	for i := 0; i < 3; i++ {
		if !l.Allow("u1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("u1") {
		t.Error("4th request should be blocked")
	}
	if l.Remaining("u1") != 0 {
		t.Errorf("Remaining: got %d, want 0", l.Remaining("u1"))
	}
	if got := l.RetryAfter("u1"); got != time.Minute {
		t.Errorf("RetryAfter: got %v, want %v", got, time.Minute)
	}

	// Other keys are independent.
	if !l.Allow("u2") {
		t.Error("different key should be allowed")
	}
}

func TestLimiter_WindowResets(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	l := ratelimit.New(1, time.Minute, clk)

	if !l.Allow("u1") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("u1") {
		t.Fatal("second request should be blocked")
	}

	clk.Advance(time.Minute)
	if !l.Allow("u1") {
		t.Error("request after window should be allowed")
	}
	if l.Remaining("u1") != 0 {
		t.Errorf("Remaining: got %d, want 0", l.Remaining("u1"))
	}
}
