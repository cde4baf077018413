package health_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ecopirates/internal/app/features/health"
	"github.com/dalemusser/ecopirates/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message"`
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), zap.NewNop())

	rec := httptest.NewRecorder()
	health.Routes(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}

	var body healthBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Status != "ok" {
		t.Errorf("status: got %q, want %q", body.Status, "ok")
	}
	if body.Database != "connected" {
		t.Errorf("database: got %q, want %q", body.Database, "connected")
	}
}

func TestServe_DatabaseDisconnected(t *testing.T) {
	// A client that was never connected fails Ping.
	client, err := mongo.NewClient(options.Client().ApplyURI(testutil.DefaultTestMongoURI))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	handler := health.NewHandler(client, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	var body healthBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Status != "error" || body.Database != "disconnected" {
		t.Errorf("got status=%q database=%q", body.Status, body.Database)
	}
	if body.Message != "Database unavailable" {
		t.Errorf("message: got %q, want %q", body.Message, "Database unavailable")
	}
}

func TestRoutes_Head(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := health.Routes(health.NewHandler(db.Client(), zap.NewNop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("HEAD status: got %d, want %d", rec.Code, http.StatusOK)
	}
}
