package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ecopirates/internal/testutil"
	"go.uber.org/zap"
)

func TestBuildHandler_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	if err := EnsureSchema(ctx, nil, validConfig(), deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	h, err := BuildHandler(nil, validConfig(), deps, zap.NewNop())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/users/top-contributors", http.StatusOK},
		{http.MethodGet, "/api/clans", http.StatusOK},
		{http.MethodGet, "/api/clans/war-stats", http.StatusOK},
		{http.MethodGet, "/api/events", http.StatusOK},
		{http.MethodGet, "/api/audit", http.StatusOK},
		{http.MethodGet, "/api/users/not-an-id", http.StatusBadRequest},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestBuildHandler_BadTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.HistoryTimezone = "Nowhere/Else"
	if _, err := BuildHandler(nil, cfg, DBDeps{}, zap.NewNop()); err == nil {
		t.Error("expected an error for an unknown time zone")
	}
}
