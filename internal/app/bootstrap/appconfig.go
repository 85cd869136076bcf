// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body limits. AppConfig is
// where everything specific to the organ registry lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max driver connection pool size
	MongoMinPoolSize uint64 // Min driver connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: organregistry-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Destructive-action gate configuration
	GateKey          string        // Secret key for signing challenge tokens
	GateChallengeTTL time.Duration // How long an issued challenge stays answerable

	// Handler operation timeouts (zero keeps the built-in default)
	DBPingTimeout   time.Duration // Health check pings
	DBShortTimeout  time.Duration // Single-document reads
	DBMediumTimeout time.Duration // List queries, single-document writes
	DBLongTimeout   time.Duration // Cascading deletes, report exports
}
