// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down the snapshot watchers and DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Snapshot != nil {
		deps.Snapshot.Stop()
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
