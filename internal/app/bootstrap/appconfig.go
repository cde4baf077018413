// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like ports, TLS,
// logging level, CORS and request body limits. Everything specific to the
// game backend lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// HistoryTimezone is the IANA zone used to format ledger dates (dd/mm).
	HistoryTimezone string

	// Scan throttling: at most ScanRateLimit scans per ScanRateWindow per user.
	ScanRateLimit  int
	ScanRateWindow time.Duration

	// QuizBonusDuration is how long the quiz coin multiplier lasts.
	QuizBonusDuration time.Duration

	// BonusSweepInterval is how often expired bonuses are reset in storage.
	// Zero disables the sweep.
	BonusSweepInterval time.Duration

	// Database operation timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Audit logging destinations per category: all, db, log or off
	AuditLogClan     string
	AuditLogProgress string
}
