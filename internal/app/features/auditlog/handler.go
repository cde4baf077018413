// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/ecopirates/internal/app/store/audit"
	"go.uber.org/zap"
)

// Handler serves the gameplay audit trail.
type Handler struct {
	Store *audit.Store
	Log   *zap.Logger
}

// NewHandler creates an audit log handler.
func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}
