// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/system/timeouts"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// The registry serves reads from an in-memory snapshot of the four
// collections, so the snapshot is loaded here and its change-stream
// watchers started. A collection that fails to load is logged and served
// stale rather than blocking startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.DBPingTimeout,
		Short:  appCfg.DBShortTimeout,
		Medium: appCfg.DBMediumTimeout,
		Long:   appCfg.DBLongTimeout,
	})

	deps.Snapshot.Load(ctx)
	deps.Snapshot.Start()
	logger.Info("snapshot cache started")
	return nil
}
