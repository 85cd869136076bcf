// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/system/timeouts"
)

// appConfigKeys defines the configuration keys for the organ registry.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ORGANREGISTRY_MONGO_URI, ORGANREGISTRY_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "organ_registry", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "organregistry-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Destructive-action gate settings
	{Name: "gate_key", Default: "dev-only-gate-key-change-me-0123456789AB", Desc: "Challenge token signing key (must be strong in production)"},
	{Name: "gate_challenge_ttl", Default: "2m", Desc: "Lifetime of an issued code challenge (e.g., 2m, 90s)"},

	// Handler operation timeouts
	{Name: "db_ping_timeout", Default: "2s", Desc: "Timeout for health check pings"},
	{Name: "db_short_timeout", Default: "5s", Desc: "Timeout for single-document reads"},
	{Name: "db_medium_timeout", Default: "10s", Desc: "Timeout for list queries and single-document writes"},
	{Name: "db_long_timeout", Default: "30s", Desc: "Timeout for cascading deletes and report exports"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ORGANREGISTRY_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ORGANREGISTRY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		GateKey:          appValues.String("gate_key"),
		GateChallengeTTL: appValues.Duration("gate_challenge_ttl", 2*time.Minute),

		DBPingTimeout:   appValues.Duration("db_ping_timeout", timeouts.DefaultPing),
		DBShortTimeout:  appValues.Duration("db_short_timeout", timeouts.DefaultShort),
		DBMediumTimeout: appValues.Duration("db_medium_timeout", timeouts.DefaultMedium),
		DBLongTimeout:   appValues.Duration("db_long_timeout", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key must not be empty")
	}
	if appCfg.GateKey == "" {
		return fmt.Errorf("gate_key must not be empty")
	}
	if appCfg.GateChallengeTTL <= 0 {
		return fmt.Errorf("gate_challenge_ttl must be positive, got %s", appCfg.GateChallengeTTL)
	}

	return nil
}
