// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// Error payloads echo internal details only outside production.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	uierrors.SetDebug(coreCfg.Env != "prod")
	return nil
}
