// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work, drains the notification queue, then
// disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Tasks != nil {
		if err := deps.Tasks.Stop(ctx); err != nil {
			logger.Warn("scheduler did not stop in time", zap.Error(err))
		}
	}
	if deps.Notifier != nil {
		if err := deps.Notifier.Stop(ctx); err != nil {
			logger.Warn("notification queue not fully drained", zap.Error(err))
		}
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
