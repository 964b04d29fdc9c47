package migrate

import (
	"context"
	"fmt"

	"github.com/Kushal-prime/kushalwearback/pkg/config"
	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
)

// MaybeRunDev applies pending migrations at boot when the auto-migrate
// flag is set. Meant for development; production uses the migrate binary.
func MaybeRunDev(ctx context.Context, cfg *config.Config, client *db.Client, logg *logger.Logger) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if cfg.App.IsProd() {
		logg.Warn(ctx, "auto-migrate requested in production, skipping")
		return nil
	}

	sqlDB, err := client.Gorm().DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	if err := Up(ctx, sqlDB); err != nil {
		return err
	}
	logg.Info(ctx, "migrations applied")
	return nil
}
