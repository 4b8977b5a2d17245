package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefeed-backend/pkg/config"
	"github.com/angelmondragon/storefeed-backend/pkg/db"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
)

// Models lists every table the feed owns, in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Product{},
		&models.ProductMetric{},
		&models.PreferencesProfile{},
		&models.ProductVisitorBan{},
		&models.UserProductEvent{},
	}
}

// AutoMigrateModels creates the schema through GORM. It is used for sqlite
// where the Postgres SQL migrations do not apply.
func AutoMigrateModels(conn *gorm.DB) error {
	return conn.AutoMigrate(Models()...)
}

// MaybeRunDev migrates automatically in dev when the feature flag is on.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})
	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "migrate.automigrate_models")
		if err := AutoMigrateModels(client.DB()); err != nil {
			return fmt.Errorf("gorm automigrate: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	logg.Info(ctx, "migrate.goose_up")
	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrate.completed")
	return nil
}
