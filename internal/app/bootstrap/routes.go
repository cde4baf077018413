// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/ecopirates/internal/app/features/auditlog"
	clansfeature "github.com/dalemusser/ecopirates/internal/app/features/clans"
	eventsfeature "github.com/dalemusser/ecopirates/internal/app/features/events"
	healthfeature "github.com/dalemusser/ecopirates/internal/app/features/health"
	scanfeature "github.com/dalemusser/ecopirates/internal/app/features/scan"
	usersfeature "github.com/dalemusser/ecopirates/internal/app/features/users"
	"github.com/dalemusser/ecopirates/internal/app/game"
	"github.com/dalemusser/ecopirates/internal/app/store/audit"
	clanstore "github.com/dalemusser/ecopirates/internal/app/store/clans"
	eventstore "github.com/dalemusser/ecopirates/internal/app/store/events"
	userstore "github.com/dalemusser/ecopirates/internal/app/store/users"
	"github.com/dalemusser/ecopirates/internal/app/system/auditlog"
	"github.com/dalemusser/ecopirates/internal/app/system/clock"
	"github.com/dalemusser/ecopirates/internal/app/system/ratelimit"
	"github.com/dalemusser/ecopirates/internal/app/system/respond"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the game engine once and
// mounts the JSON API under /api plus the health check.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	loc, err := time.LoadLocation(appCfg.HistoryTimezone)
	if err != nil {
		return nil, fmt.Errorf("history timezone: %w", err)
	}

	db := deps.MongoDatabase
	sysClock := clock.System{}

	auditStore := audit.New(db)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Clan:     appCfg.AuditLogClan,
		Progress: appCfg.AuditLogProgress,
	})

	eng := game.New(game.Deps{
		DB:            db,
		Log:           logger,
		Audit:         auditLogger,
		Clock:         sysClock,
		Location:      loc,
		ScanLimiter:   ratelimit.New(appCfg.ScanRateLimit, appCfg.ScanRateWindow, sysClock),
		BonusDuration: appCfg.QuizBonusDuration,
	})

	users := userstore.New(db)
	clanStore := clanstore.New(db)

	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, logger, errs.ErrNotFound)
	})

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(r chi.Router) {
		usersHandler := usersfeature.NewHandler(eng, users, clanStore, logger)
		r.Mount("/users", usersfeature.Routes(usersHandler))

		scanHandler := scanfeature.NewHandler(eng, logger)
		r.Mount("/scan", scanfeature.Routes(scanHandler))

		clansHandler := clansfeature.NewHandler(eng, clanStore, logger)
		r.Mount("/clans", clansfeature.Routes(clansHandler))

		eventsHandler := eventsfeature.NewHandler(eventstore.New(db), users, logger)
		r.Mount("/events", eventsfeature.Routes(eventsHandler))

		auditHandler := auditlogfeature.NewHandler(auditStore, logger)
		r.Mount("/audit", auditlogfeature.Routes(auditHandler))
	})

	return r, nil
}
